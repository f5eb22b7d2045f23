package transfer

import (
	"bytes"
	"io"
	"strings"

	"github.com/zostay/go-rawmail/message/header"
)

const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes will be transformed to quoted-printable
	Base64          = "base64"           // bytes will be transformed to base64
)

// MaxLineLength is the longest line, excluding the line break, allowed in a
// 7bit body.
const MaxLineLength = 998

// writer is an internal type to make wrapped writers close properly.
type writer struct {
	io.Writer
	io.Closer
}

// Close will close the nested closer, if there is one.
func (w *writer) Close() error {
	if w.Closer != nil {
		return w.Closer.Close()
	}
	return nil
}

// Encoder returns an io.WriteCloser, which will encode binary data and write
// the encoded form to the given io.Writer, breaking lines with lbr where the
// encoding requires it. You must call Close() on the returned io.WriteCloser
// when you are finished.
type Encoder func(w io.Writer, lbr []byte) io.WriteCloser

// Encoders defines the supported Content-Transfer-Encodings and how to apply
// them. It can be modified to change the global handling of transfer
// encodings.
var Encoders = map[string]Encoder{
	None:            NewAsIsEncoder,
	Bit7:            NewAsIsEncoder,
	Bit8:            NewAsIsEncoder,
	Binary:          NewAsIsEncoder,
	QuotedPrintable: NewQuotedPrintableEncoder,
	Base64:          NewBase64Encoder,
}

// ApplyTransferEncoding is a helper that will check the given header to see if
// transfer encoding ought to be performed. It will return an io.WriteCloser
// that will write the encoding (or just pass data through if no encoding is
// necessary).
//
// You must call Close() on the returned io.WriteCloser when you are finished
// writing.
func ApplyTransferEncoding(h *header.Header, w io.Writer) io.WriteCloser {
	if pv, err := h.GetParamValue(header.ContentType); err == nil && pv.Type() == "multipart" {
		return NewAsIsEncoder(w, nil)
	}

	cte, ok := h.GetFirst(header.ContentTransferEncoding)
	if !ok {
		return NewAsIsEncoder(w, nil)
	}

	if enc, hasCode := Encoders[strings.ToLower(strings.TrimSpace(cte))]; hasCode {
		return enc(w, h.Break().Bytes())
	}

	return NewAsIsEncoder(w, nil)
}

// IsASCII returns true when every byte of b is 7-bit.
func IsASCII(b []byte) bool {
	for _, c := range b {
		if c > 0x7f {
			return false
		}
	}
	return true
}

// ForText picks the transfer encoding for a text body: 7bit when the text
// is plain ASCII with no line longer than MaxLineLength, quoted-printable
// otherwise.
func ForText(b []byte) string {
	if !IsASCII(b) {
		return QuotedPrintable
	}

	for len(b) > 0 {
		line := b
		if ix := bytes.IndexByte(b, '\n'); ix >= 0 {
			line, b = b[:ix], b[ix+1:]
		} else {
			b = nil
		}
		if len(bytes.TrimSuffix(line, []byte("\r"))) > MaxLineLength {
			return QuotedPrintable
		}
	}

	return Bit7
}
