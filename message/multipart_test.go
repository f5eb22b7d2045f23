package message_test

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-rawmail/message"
	"github.com/zostay/go-rawmail/message/header"
	"github.com/zostay/go-rawmail/message/transfer"
)

func textPart(ct, cte, body string) *message.Opaque {
	b := message.NewBuffer()
	b.Set(header.ContentType, ct)
	b.Set(header.ContentTransferEncoding, cte)
	_, _ = b.WriteString(body)
	return b.Opaque()
}

func TestMultipart(t *testing.T) {
	t.Parallel()

	mm := message.NewMultipart("multipart/alternative", "b1",
		textPart("text/plain; charset=utf-8", transfer.Bit7, "Hello"),
		textPart("text/html; charset=utf-8", transfer.QuotedPrintable, "<p>Héllo</p>"),
	)

	assert.True(t, mm.IsMultipart())
	assert.False(t, mm.IsEncoded())
	assert.Nil(t, mm.GetReader())
	assert.Len(t, mm.GetParts(), 2)

	buf := &bytes.Buffer{}
	n, err := mm.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	assert.Equal(t, "Content-Type: multipart/alternative; boundary=b1\r\n"+
		"\r\n"+
		"--b1\r\n"+
		"Content-Type: text/plain; charset=utf-8\r\n"+
		"Content-Transfer-Encoding: 7bit\r\n"+
		"\r\n"+
		"Hello\r\n"+
		"--b1\r\n"+
		"Content-Type: text/html; charset=utf-8\r\n"+
		"Content-Transfer-Encoding: quoted-printable\r\n"+
		"\r\n"+
		"<p>H=C3=A9llo</p>\r\n"+
		"--b1--\r\n", buf.String())
}

func TestMultipart_Nested(t *testing.T) {
	t.Parallel()

	inner := message.NewMultipart("multipart/alternative", "inner",
		textPart("text/plain", transfer.Bit7, "a"))
	outer := message.NewMultipart("multipart/mixed", "outer", inner)
	outer.Add(textPart("application/octet-stream", transfer.Base64, "\x00\x01"))

	buf := &bytes.Buffer{}
	_, err := outer.WriteTo(buf)
	require.NoError(t, err)

	s := buf.String()
	assert.True(t, strings.HasPrefix(s, "Content-Type: multipart/mixed; boundary=outer\r\n\r\n--outer\r\n"))
	assert.Contains(t, s, "--inner\r\nContent-Type: text/plain\r\n")
	assert.Contains(t, s, "--inner--\r\n\r\n--outer\r\n")
	assert.Contains(t, s, "\r\n\r\nAAE=\r\n\r\n--outer--\r\n")
}

func TestMultipart_NoBoundary(t *testing.T) {
	t.Parallel()

	mm := &message.Multipart{}
	mm.Set(header.ContentType, "multipart/mixed")
	_, err := mm.WriteTo(&bytes.Buffer{})
	assert.ErrorIs(t, err, message.ErrNoBoundary)
}

func TestBuffer_OpaqueAlreadyEncoded(t *testing.T) {
	t.Parallel()

	b := message.NewBuffer()
	b.Set(header.ContentType, "message/rfc822")
	b.Set(header.ContentTransferEncoding, transfer.Base64)
	_, _ = b.Write([]byte("Subject: inner\r\n\r\nkept as is"))

	m := b.OpaqueAlreadyEncoded()
	assert.True(t, m.IsEncoded())

	buf := &bytes.Buffer{}
	_, err := m.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, "Content-Type: message/rfc822\r\n"+
		"Content-Transfer-Encoding: base64\r\n"+
		"\r\n"+
		"Subject: inner\r\n\r\nkept as is", buf.String())
}

var boundaryMatch = regexp.MustCompile(`^----=_Part_[0-9a-f]{32}_[0-9]+$`)

func TestBoundaries(t *testing.T) {
	t.Parallel()

	bs := message.NewBoundaries("")
	a, b := bs.Next(), bs.Next()
	assert.Regexp(t, boundaryMatch, a)
	assert.Regexp(t, boundaryMatch, b)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_1"))
	assert.True(t, strings.HasSuffix(b, "_2"))
	assert.Equal(t, a[:len(a)-2], b[:len(b)-2])

	other := message.NewBoundaries("")
	assert.NotEqual(t, a, other.Next())

	custom := message.NewBoundaries("=_x")
	assert.True(t, strings.HasPrefix(custom.Next(), "=_x_"))
}
