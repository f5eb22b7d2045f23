package header

import (
	"errors"

	"github.com/zostay/go-rawmail/message/header/field"
)

// Parse will parse the given slice of bytes into an email header using the
// given line break string. It will assume the entire string given represents
// the header to be parsed, optionally including the blank line that ends it.
//
// Every parsed field keeps its raw bytes, so writing the header back out
// reproduces the input exactly. Fields added or changed later are folded with
// field.DefaultFoldEncoding.
//
// If the header starts with junk, the header is still returned, without the
// junk, alongside a *field.BadStartError.
func Parse(m []byte, lb Break) (*Header, error) {
	lines, err := field.ParseLines(m, lb.Bytes())

	var badStartErr *field.BadStartError
	var finalErr error
	if errors.As(err, &badStartErr) {
		finalErr = badStartErr
	} else if err != nil {
		return nil, err
	}

	fields := make([]*field.Field, len(lines))
	for i, line := range lines {
		fields[i] = field.Parse(line, lb.Bytes())
	}

	h := &Header{
		Base: Base{
			lbr:    lb,
			fields: fields,
		},
	}

	return h, finalErr
}
