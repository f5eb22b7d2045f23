package message

import (
	"bytes"
	"fmt"
	"io"

	"github.com/zostay/go-rawmail/message/header"
)

// RewriteFunc receives the header of a message and returns the header to
// write in its place. It may return the same header, changed in place, or a
// different one.
type RewriteFunc func(h *header.Header) (*header.Header, error)

// Rewrite splits the message read from r, passes its header to fn exactly once,
// and then writes the returned header followed by the untouched body to w. The
// body is streamed, so memory use is bounded by the header plus one chunk.
//
// Nothing is written to w if splitting fails or fn returns an error.
func Rewrite(w io.Writer, r io.Reader, fn RewriteFunc, opts ...SplitOption) (int64, error) {
	m, err := Split(r, opts...)
	if err != nil {
		return 0, err
	}

	h, err := fn(&m.Header)
	if err != nil {
		return 0, err
	}

	if h != nil && h != &m.Header {
		m.Header = *h
	}

	n, err := m.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("unable to write rewritten message: %w", err)
	}
	return n, nil
}

// RewriteBytes works like Rewrite on an in-memory message and returns the
// complete output. On error, no output is returned.
func RewriteBytes(msg []byte, fn RewriteFunc, opts ...SplitOption) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(msg))
	if _, err := Rewrite(&buf, bytes.NewReader(msg), fn, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
