package header

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/zostay/go-rawmail/message/header/field"
)

var (
	// ErrIndexOutOfRange when an attempt is made to access a header field index
	// that is too large or to small.
	ErrIndexOutOfRange = errors.New("header field index is out of range")
)

// Base represents a basic email message header. It is a low-level interface
// to headers: a list of fields plus the line break used when writing fields
// that did not come from parsed input.
type Base struct {
	lbr    Break
	fields []*field.Field
}

// initBase initializes the Break and fields values lazily.
func (h *Base) initBase() {
	if h.lbr == "" {
		h.lbr = CRLF
	}
	if h.fields == nil {
		h.fields = make([]*field.Field, 0, 10)
	}
}

// Clone returns a copy of the header. Fields are copied, so changing a field of
// the clone does not change the original.
func (h *Base) Clone() *Base {
	fields := make([]*field.Field, len(h.fields))
	for i, f := range h.fields {
		fields[i] = f.Clone()
	}
	return &Base{lbr: h.lbr, fields: fields}
}

// Break returns the line break used to separate header fields and terminate the
// header. A header without one uses CRLF.
func (h *Base) Break() Break {
	if h.lbr == "" {
		h.lbr = CRLF
	}
	return h.lbr
}

// SetBreak changes the line break to use with this header.
func (h *Base) SetBreak(lbr Break) {
	h.lbr = lbr
}

// Len returns the number of fields in the header.
func (h *Base) Len() int {
	return len(h.fields)
}

// GetField returns the nth field or nil if n is out of range.
func (h *Base) GetField(n int) *field.Field {
	if n < 0 || n >= len(h.fields) {
		return nil
	}
	return h.fields[n]
}

// GetIndexesNamed returns the indexes of fields with the given name.
func (h *Base) GetIndexesNamed(name string) []int {
	var is []int
	for i, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			is = append(is, i)
		}
	}
	return is
}

// GetAllFieldsNamed returns all the fields with the given name in the order
// they appear.
func (h *Base) GetAllFieldsNamed(name string) []*field.Field {
	var fs []*field.Field
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			fs = append(fs, f)
		}
	}
	return fs
}

// ListFields returns all the fields in the header.
func (h *Base) ListFields() []*field.Field {
	fs := make([]*field.Field, len(h.fields))
	copy(fs, h.fields)
	return fs
}

// InsertBeforeField will insert the given name and body values into the header
// at the given index. The index is clamped to the range of the header.
func (h *Base) InsertBeforeField(n int, name, body string) {
	h.initBase()

	if n < 0 {
		n = 0
	}
	if n > len(h.fields) {
		n = len(h.fields)
	}

	h.fields = append(h.fields, nil)
	copy(h.fields[n+1:], h.fields[n:])
	h.fields[n] = field.New(name, body)
}

// DeleteField removes the nth field from the header. Fails with an error if the
// given index is out of range.
func (h *Base) DeleteField(n int) error {
	if n < 0 || n >= len(h.fields) {
		return ErrIndexOutOfRange
	}

	copy(h.fields[n:], h.fields[n+1:])
	h.fields[len(h.fields)-1] = nil
	h.fields = h.fields[:len(h.fields)-1]

	return nil
}

// ClearFields removes all fields from the header.
func (h *Base) ClearFields() {
	h.initBase()
	h.fields = h.fields[:0]
}

// WriteTo writes the header, including the blank line that terminates it.
// Fields parsed from input are written exactly as they were read. Other fields
// are folded using the FoldEncoding.
func (h *Base) WriteTo(w io.Writer) (int64, error) {
	lbr := h.Break()
	total := int64(0)
	for _, f := range h.fields {
		if f.Raw != nil {
			n, err := w.Write(f.Raw.Bytes())
			total += int64(n)
			if err != nil {
				return total, err
			}

			n, err = w.Write(lbr.Bytes())
			total += int64(n)
			if err != nil {
				return total, err
			}
			continue
		}

		n, err := field.DefaultFoldEncoding.Fold(w, f.Bytes(), field.Break(lbr))
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err := w.Write(lbr.Bytes())
	total += int64(n)
	return total, err
}

// Bytes returns the header as a slice of bytes.
func (h *Base) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = h.WriteTo(&buf)
	return buf.Bytes()
}

// String returns the header as a string.
func (h *Base) String() string {
	return string(h.Bytes())
}
