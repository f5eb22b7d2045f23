package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-rawmail/message/header/encoding"
	"github.com/zostay/go-rawmail/message/header/field"
)

func TestCharsetDecoder(t *testing.T) {
	t.Parallel()

	s, err := encoding.CharsetDecoder("windows-1252", []byte("caf\xe9 \x80"))
	assert.NoError(t, err)
	assert.Equal(t, "café €", s)

	_, err = encoding.CharsetDecoder("x-no-such-charset", []byte("abc"))
	assert.Error(t, err)
}

func TestDecodeWithIANACharset(t *testing.T) {
	t.Parallel()

	s, err := field.Decode("=?iso-8859-15?q?=A4uro?=")
	assert.NoError(t, err)
	assert.Equal(t, "€uro", s)
}
