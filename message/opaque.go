package message

import (
	"io"

	"github.com/zostay/go-rawmail/message/header"
	"github.com/zostay/go-rawmail/message/transfer"
)

// Opaque is a message or message part made of a header and a body that is
// never looked into.
type Opaque struct {
	// Header will contain the header of the message. A top-level message must
	// have several headers to be correct. A message part should have one or
	// more headers as well.
	header.Header

	// Reader will contain the body content of the message. If the content is
	// zero bytes long, then Reader should be set to nil.
	io.Reader

	// encoded tracks whether the body is already in its
	// Content-Transfer-Encoding:
	//
	// - Split leaves encoding in place
	//
	// - an Opaque made from a Buffer is not encoded unless it is constructed
	// using OpaqueAlreadyEncoded
	encoded bool
}

// WriteTo writes the Opaque header and body to the destination io.Writer.
//
// If the body has not been encoded yet (e.g., the part was created via a
// Buffer), then this will apply the Content-Transfer-Encoding as it is being
// written.
//
// This can only be safely called once as it will consume the io.Reader.
func (m *Opaque) WriteTo(w io.Writer) (int64, error) {
	total, err := m.Header.WriteTo(w)
	if err != nil {
		return total, err
	}

	if m.Reader == nil {
		return total, nil
	}

	cw := &countingWriter{w: w}
	if m.encoded {
		_, err = io.Copy(cw, m.Reader)
		return total + cw.n, err
	}

	tw := transfer.ApplyTransferEncoding(&m.Header, cw)
	if _, err = io.Copy(tw, m.Reader); err != nil {
		_ = tw.Close()
		return total + cw.n, err
	}
	err = tw.Close()
	return total + cw.n, err
}

// IsMultipart always returns false.
func (m *Opaque) IsMultipart() bool {
	return false
}

// IsEncoded returns true if reading the io.Reader returns exactly the bytes
// WriteTo would write for the body.
func (m *Opaque) IsEncoded() bool {
	return m.encoded
}

// GetHeader returns the header for the message.
func (m *Opaque) GetHeader() *header.Header {
	return &m.Header
}

// GetReader returns the reader containing the body of the message.
func (m *Opaque) GetReader() io.Reader {
	return m.Reader
}

// GetParts always returns nil.
func (m *Opaque) GetParts() []Part {
	return nil
}

// countingWriter counts bytes that reach the destination, which differs from
// the bytes handed to a transfer encoder.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
