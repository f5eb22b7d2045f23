package message

import "io"

// remainder takes the bytes already read from an io.Reader and make a new
// reader that returns those bytes first and then passes the reads from the
// unread part of the io.Reader on to the caller.
type remainder struct {
	prefix []byte
	r      io.Reader
}

// Read returns bytes from the prefix buffer while any remain and only then
// starts reading from the io.Reader.
func (r *remainder) Read(p []byte) (int, error) {
	if len(r.prefix) > 0 {
		n := copy(p, r.prefix)
		r.prefix = r.prefix[n:]
		return n, nil
	}

	return r.r.Read(p)
}

// WriteTo lets io.Copy hand the prefix over in one write before streaming the
// rest of the io.Reader.
func (r *remainder) WriteTo(w io.Writer) (int64, error) {
	total := int64(0)
	if len(r.prefix) > 0 {
		n, err := w.Write(r.prefix)
		total += int64(n)
		r.prefix = r.prefix[n:]
		if err != nil {
			return total, err
		}
	}

	n, err := io.Copy(w, r.r)
	total += n
	return total, err
}

// Close implements io.Closer, just in case the nested io.Reader needs it. It
// passes the Close() call through. If the io.Reader is not an io.Closer, this
// is a no-op.
func (r *remainder) Close() error {
	if c, isCloser := r.r.(io.Closer); isCloser {
		return c.Close()
	}
	return nil
}
