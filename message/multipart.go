package message

import (
	"fmt"
	"io"

	"github.com/zostay/go-rawmail/message/header"
	"github.com/zostay/go-rawmail/message/header/param"
)

// Part is the interface shared by Opaque and Multipart.
type Part interface {
	// WriteTo writes the part, header and body, to the given io.Writer.
	io.WriterTo

	// IsMultipart returns true if the part holds sub-parts.
	IsMultipart() bool

	// IsEncoded returns true if the body bytes are already transfer encoded.
	IsEncoded() bool

	// GetHeader returns the header of the part.
	GetHeader() *header.Header

	// GetReader returns the body of an Opaque part or nil for a Multipart.
	GetReader() io.Reader

	// GetParts returns the sub-parts of a Multipart or nil for an Opaque.
	GetParts() []Part
}

// Multipart is a MIME multipart message or part. The boundary is read from the
// Content-Type of its header when it is written.
type Multipart struct {
	header.Header

	prefix, suffix []byte

	parts []Part
}

// NewMultipart creates a multipart part with the given media type (e.g.,
// "multipart/mixed") and boundary. The Content-Type is set on the header.
func NewMultipart(mediaType, boundary string, parts ...Part) *Multipart {
	m := &Multipart{
		prefix: []byte{},
		suffix: header.CRLF.Bytes(),
		parts:  parts,
	}
	m.SetParamValue(header.ContentType,
		param.New(mediaType, map[string]string{param.Boundary: boundary}))
	return m
}

// ErrNoBoundary is returned by Multipart.WriteTo when the Content-Type of the
// part has no boundary parameter.
var ErrNoBoundary = fmt.Errorf("the boundary parameter is missing from %s", header.ContentType)

// Add appends parts to the multipart.
func (mm *Multipart) Add(parts ...Part) {
	mm.parts = append(mm.parts, parts...)
}

// WriteTo writes the header, every part framed by the boundary, and the final
// boundary.
func (mm *Multipart) WriteTo(w io.Writer) (int64, error) {
	pv, err := mm.GetParamValue(header.ContentType)
	if err != nil {
		return 0, err
	}
	boundary := pv.Boundary()
	if boundary == "" {
		return 0, ErrNoBoundary
	}

	br := mm.Break()

	n, err := mm.Header.WriteTo(w)
	if err != nil {
		return n, err
	}

	pn, err := w.Write(mm.prefix)
	n += int64(pn)
	if err != nil {
		return n, err
	}

	for i, part := range mm.parts {
		if i > 0 {
			bn, err := fmt.Fprint(w, br)
			n += int64(bn)
			if err != nil {
				return n, err
			}
		}

		bn, err := fmt.Fprintf(w, "--%s%s", boundary, br)
		n += int64(bn)
		if err != nil {
			return n, err
		}

		wn, err := part.WriteTo(w)
		n += wn
		if err != nil {
			return n, err
		}
	}

	bn, err := fmt.Fprintf(w, "%s--%s--", br, boundary)
	n += int64(bn)
	if err != nil {
		return n, err
	}

	sn, err := w.Write(mm.suffix)
	n += int64(sn)
	return n, err
}

// IsMultipart always returns true.
func (mm *Multipart) IsMultipart() bool {
	return true
}

// IsEncoded always returns false.
func (mm *Multipart) IsEncoded() bool {
	return false
}

// GetHeader returns the header of the multipart.
func (mm *Multipart) GetHeader() *header.Header {
	return &mm.Header
}

// GetReader always returns nil.
func (mm *Multipart) GetReader() io.Reader {
	return nil
}

// GetParts returns the sub-parts.
func (mm *Multipart) GetParts() []Part {
	return mm.parts
}
