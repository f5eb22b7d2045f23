package field_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/zostay/go-rawmail/message/header/encoding"
	"github.com/zostay/go-rawmail/message/header/field"
)

// "Καλημέρα" in ISO-8859-7 and in UTF-8.
var (
	greekText   = []byte{0xca, 0xe1, 0xeb, 0xe7, 0xec, 0xdd, 0xf1, 0xe1}
	unicodeText = []byte("Καλημέρα")
)

func TestDefaultCharsetDecoder(t *testing.T) {
	t.Parallel()

	_, err := field.DefaultCharsetDecoder("greek", greekText)
	assert.ErrorContains(t, err, "unsupported byte encoding")

	dec, err := field.DefaultCharsetDecoder("utf-8", unicodeText)
	assert.NoError(t, err)
	assert.Equal(t, string(unicodeText), dec)

	dec, err = field.DefaultCharsetDecoder("", []byte("caf\xe9"))
	assert.NoError(t, err)
	assert.Equal(t, "caf�", dec)

	dec, err = field.DefaultCharsetDecoder("ISO-8859-1", []byte("caf\xe9"))
	assert.NoError(t, err)
	assert.Equal(t, "café", dec)
}

func TestCharsetDecoder(t *testing.T) {
	t.Parallel()

	dec, err := field.CharsetDecoder("greek", greekText)
	assert.NoError(t, err)
	assert.Equal(t, string(unicodeText), dec)
}

func TestCharsetDecoderToCharsetReader(t *testing.T) {
	t.Parallel()

	cr := field.CharsetDecoderToCharsetReader(field.CharsetDecoder)

	out, err := cr("greek", bytes.NewReader(greekText))
	require.NoError(t, err)
	dec, err := io.ReadAll(out)
	assert.NoError(t, err)
	assert.Equal(t, unicodeText, dec)
}
