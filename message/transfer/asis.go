package transfer

import "io"

// NewAsIsEncoder returns an io.WriteCloser that writes bytes as-is. Closing it
// does not close w.
func NewAsIsEncoder(w io.Writer, _ []byte) io.WriteCloser {
	return &writer{w, nil}
}
