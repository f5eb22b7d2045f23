package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-rawmail/message/header/field"
)

func TestParseLines(t *testing.T) {
	t.Parallel()

	lb := []byte("\n")
	lines, err := field.ParseLines([]byte("a:\nb:\nc:\n"), lb)
	assert.NoError(t, err)
	assert.Equal(t, field.Lines{
		field.Line("a:\n"),
		field.Line("b:\n"),
		field.Line("c:\n"),
	}, lines)

	lines, err = field.ParseLines([]byte("a:b\n b\n\tb\nb:\n\n"), lb)
	assert.NoError(t, err)
	assert.Equal(t, field.Lines{
		field.Line("a:b\n b\n\tb\n"),
		field.Line("b:\n\n"),
	}, lines)

	lines, err = field.ParseLines([]byte(" start:\njunk\na:b\n"), lb)
	var badStart *field.BadStartError
	require.ErrorAs(t, err, &badStart)
	assert.Equal(t, []byte(" start:\njunk\n"), badStart.BadStart)
	assert.Equal(t, field.Lines{field.Line("a:b\n")}, lines)
}

func TestParse(t *testing.T) {
	t.Parallel()

	f := field.Parse(field.Line("Subject: test\n"), []byte("\n"))
	require.NotNil(t, f.Raw)
	assert.Equal(t, "Subject", f.Name())
	assert.Equal(t, "test", f.Body())
	assert.Equal(t, " test", f.Raw.Body())
	assert.Equal(t, "Subject: test", f.String())

	f = field.Parse(field.Line("Subject: =?utf-8?b?4pmg4pmj4pml4pmm?=\r\n\r\n"), []byte("\r\n"))
	assert.Equal(t, "♠♣♥♦", f.Body())
	assert.Equal(t, "Subject: =?utf-8?b?4pmg4pmj4pml4pmm?=", f.String())

	f = field.Parse(field.Line("Received: from a\n\tby b\n"), []byte("\n"))
	assert.Equal(t, "from a\tby b", f.Body())
	assert.Equal(t, "Received: from a\n\tby b", f.String())

	f = field.Parse(field.Line("Subject"), []byte("\n"))
	assert.Equal(t, "Subject", f.Name())
	assert.Equal(t, "", f.Body())
}
