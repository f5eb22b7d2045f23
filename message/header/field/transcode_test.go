package field_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-rawmail/message/header/field"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "=?utf-8?b?4pqA4pqB4pqC4pqD4pqE4pqF?=", field.Encode("⚀⚁⚂⚃⚄⚅"))
	assert.Equal(t, "plain", field.Encode("plain"))
}

func TestEncodeWords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hello world", field.EncodeWords("Hello world", 64))
	assert.Equal(t, "=?UTF-8?Q?H=C3=ABllo_w=C3=B6rld?=", field.EncodeWords("Hëllo wörld", 64))
	assert.Equal(t, "=?UTF-8?Q?a=3Db_=C3=A9?=", field.EncodeWords("a=b é", 64))

	long := strings.Repeat("ö", 40)
	enc := field.EncodeWords(long, 64)
	words := strings.Split(enc, " ")
	assert.Len(t, words, 5)
	for _, w := range words {
		assert.LessOrEqual(t, len(w), 64)
		assert.True(t, strings.HasPrefix(w, "=?UTF-8?Q?"))
		assert.True(t, strings.HasSuffix(w, "?="))
		assert.Equal(t, 0, strings.Count(w[len("=?UTF-8?Q?"):len(w)-2], "=")%2)
	}

	dec, err := field.Decode(enc)
	assert.NoError(t, err)
	assert.Equal(t, long, dec)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	s, err := field.Decode("=?utf-8?b?4pqA4pqB4pqC4pqD4pqE4pqF?=")
	assert.NoError(t, err)
	assert.Equal(t, "⚀⚁⚂⚃⚄⚅", s)

	s, err = field.Decode("no words here")
	assert.NoError(t, err)
	assert.Equal(t, "no words here", s)

	_, err = field.Decode("=?x-unknown?q?abc?=")
	assert.Error(t, err)
}
