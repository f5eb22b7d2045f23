package param

import (
	"mime"
	"strings"
)

const (
	// Charset is the name of the charset parameter that may be present in the
	// Content-Type header.
	Charset = "charset"

	// Boundary is the name of the boundary parameter that may be present in the
	// Content-Type header.
	Boundary = "boundary"

	// Name is the name of the name parameter that may be present in the
	// Content-Type header of an attachment.
	Name = "name"

	// Filename is the name of the filename parameter that may be present in the
	// Content-Disposition header.
	Filename = "filename"
)

// Value represents a parameterized header field body, such as is used in the
// Content-Type and Content-Disposition headers. A Value is immutable. Use With
// to derive a changed copy.
type Value struct {
	v  string
	ps map[string]string
}

// Parse takes a header field body, parses it as a Value and returns it.
func Parse(v string) (*Value, error) {
	mt, ps, err := mime.ParseMediaType(v)
	if err != nil {
		return nil, err
	}

	return &Value{mt, ps}, nil
}

// New creates a new parameterized value. The map is copied.
func New(v string, ps map[string]string) *Value {
	cps := make(map[string]string, len(ps))
	for k, pv := range ps {
		cps[strings.ToLower(k)] = pv
	}
	return &Value{strings.ToLower(v), cps}
}

// With returns a copy of the Value with the named parameter set. An empty
// value removes the parameter instead.
func (pv *Value) With(name, value string) *Value {
	c := New(pv.v, pv.ps)
	if value == "" {
		delete(c.ps, strings.ToLower(name))
		return c
	}
	c.ps[strings.ToLower(name)] = value
	return c
}

// Value returns the primary value, the part before the first semi-colon.
func (pv *Value) Value() string { return pv.v }

// MediaType is a synonym for Value(), e.g., "text/html" or "multipart/mixed".
func (pv *Value) MediaType() string { return pv.v }

// Disposition is a synonym for Value(), either "inline" or "attachment".
func (pv *Value) Disposition() string { return pv.v }

// Type returns the part of the media type before the slash, or an empty string
// if there is no slash.
func (pv *Value) Type() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[:ix]
	}
	return ""
}

// Subtype returns the part of the media type after the slash, or an empty
// string if there is no slash.
func (pv *Value) Subtype() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[ix+1:]
	}
	return ""
}

// Parameters returns the parameters as a map. Do not modify it.
func (pv *Value) Parameters() map[string]string { return pv.ps }

// Parameter returns the value of the parameter with the given name.
func (pv *Value) Parameter(k string) string { return pv.ps[strings.ToLower(k)] }

func (pv *Value) Charset() string  { return pv.ps[Charset] }
func (pv *Value) Boundary() string { return pv.ps[Boundary] }
func (pv *Value) Name() string     { return pv.ps[Name] }
func (pv *Value) Filename() string { return pv.ps[Filename] }

// String serializes the value with its parameters, quoting parameter values
// where required. Parameters are written in sorted order.
func (pv *Value) String() string {
	if s := mime.FormatMediaType(pv.v, pv.ps); s != "" {
		return s
	}
	return pv.v
}

// Bytes returns String() as bytes.
func (pv *Value) Bytes() []byte {
	return []byte(pv.String())
}
