package message

import (
	"bytes"

	"github.com/zostay/go-rawmail/message/header"
)

// Buffer collects the header and body of a new message part. Write the
// decoded body to it and call Opaque to get a part that transfer encodes the
// body on output.
type Buffer struct {
	header.Header
	buf bytes.Buffer
}

// NewBuffer creates a Buffer whose header uses CRLF line breaks.
func NewBuffer() *Buffer {
	b := &Buffer{}
	b.SetBreak(header.CRLF)
	return b
}

// Write appends bytes to the body.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

// WriteString appends a string to the body.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.buf.WriteString(s)
}

// Opaque returns a part holding the header and body. The
// Content-Transfer-Encoding of the header is applied when the part is written.
func (b *Buffer) Opaque() *Opaque {
	return &Opaque{
		Header: b.Header,
		Reader: bytes.NewReader(b.buf.Bytes()),
	}
}

// OpaqueAlreadyEncoded returns a part that writes the body bytes exactly as
// they were written to the Buffer.
func (b *Buffer) OpaqueAlreadyEncoded() *Opaque {
	msg := b.Opaque()
	msg.encoded = true
	return msg
}
