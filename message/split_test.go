package message_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-rawmail/message"
	"github.com/zostay/go-rawmail/message/header"
	"github.com/zostay/go-rawmail/message/header/field"
)

func readTestData(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return b
}

func TestSplit(t *testing.T) {
	t.Parallel()

	src := readTestData(t, "multipart.eml")
	m, err := message.Split(bytes.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, header.CRLF, m.Break())
	assert.True(t, m.IsEncoded())
	assert.False(t, m.IsMultipart())
	assert.Nil(t, m.GetParts())

	subj, err := m.Get(header.Subject)
	assert.NoError(t, err)
	assert.Equal(t, "Emulator Behind The Scenes, and more!", subj)

	body, err := io.ReadAll(m.GetReader())
	require.NoError(t, err)

	ix := bytes.Index(src, []byte("\r\n\r\n")) + 4
	assert.Equal(t, src[ix:], body)
	assert.Equal(t, src[:ix], m.Header.Bytes())
}

func TestSplit_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"multipart.eml", "badly-folded.eml"} {
		src := readTestData(t, name)

		for _, chunk := range []int{1, 3, 7, 64, message.DefaultChunkSize} {
			m, err := message.Split(bytes.NewReader(src), message.WithChunkSize(chunk))
			require.NoError(t, err, name)

			buf := &bytes.Buffer{}
			n, err := m.WriteTo(buf)
			assert.NoError(t, err)
			assert.Equal(t, int64(len(src)), n, name)
			assert.Equal(t, src, buf.Bytes(), name)
		}
	}
}

func TestSplit_EarliestBreak(t *testing.T) {
	t.Parallel()

	src := readTestData(t, "badly-folded.eml")
	m, err := message.Split(bytes.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, header.LF, m.Break())
	assert.Equal(t, 3, m.Len())

	body, err := io.ReadAll(m.Reader)
	require.NoError(t, err)
	assert.Equal(t, "Body with \r\n\r\n mixed breaks\n", string(body))
}

func TestSplit_OneByteReader(t *testing.T) {
	t.Parallel()

	src := readTestData(t, "multipart.eml")
	m, err := message.Split(iotest.OneByteReader(bytes.NewReader(src)))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	_, err = m.WriteTo(buf)
	assert.NoError(t, err)
	assert.Equal(t, src, buf.Bytes())
}

func TestSplit_HeaderOnly(t *testing.T) {
	t.Parallel()

	m, err := message.Split(strings.NewReader("To: a@example.com\nSubject: hi\n"))
	require.NoError(t, err)
	assert.Nil(t, m.Reader)
	assert.Equal(t, header.LF, m.Break())
	assert.Equal(t, 2, m.Len())

	buf := &bytes.Buffer{}
	_, err = m.WriteTo(buf)
	assert.NoError(t, err)
	assert.Equal(t, "To: a@example.com\nSubject: hi\n\n", buf.String())

	m, err = message.Split(strings.NewReader("To: a@example.com"))
	require.NoError(t, err)
	assert.Equal(t, header.CRLF, m.Break())
}

func TestSplit_Errors(t *testing.T) {
	t.Parallel()

	_, err := message.Split(strings.NewReader(""))
	assert.ErrorIs(t, err, message.ErrEmptyMessage)

	_, err = message.Split(strings.NewReader("hello world\r\n\r\nbody"))
	assert.ErrorIs(t, err, message.ErrNoHeader)

	_, err = message.Split(strings.NewReader(" junk\r\nTo: a@example.com\r\n\r\nbody"))
	var badStart *field.BadStartError
	assert.ErrorAs(t, err, &badStart)

	big := "X-Big: " + strings.Repeat("a", 200) + "\r\n\r\nbody"
	_, err = message.Split(strings.NewReader(big),
		message.WithMaxHeaderLength(100), message.WithChunkSize(16))
	assert.ErrorIs(t, err, message.ErrLargeHeader)

	_, err = message.Split(iotest.ErrReader(io.ErrUnexpectedEOF))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestSplit_MaxHeaderLength(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("x", 5000)
	m, err := message.Split(strings.NewReader("From: a@b.c\r\n\r\n"+body),
		message.WithMaxHeaderLength(1024))
	require.NoError(t, err)
	rest, err := io.ReadAll(m.Reader)
	require.NoError(t, err)
	assert.Equal(t, body, string(rest))

	// header and body read in the same chunk
	big := "X-Big: " + strings.Repeat("a", 200) + "\r\n\r\nbody"
	_, err = message.Split(strings.NewReader(big), message.WithMaxHeaderLength(100))
	assert.ErrorIs(t, err, message.ErrLargeHeader)

	// header only
	_, err = message.Split(strings.NewReader("X-Big: "+strings.Repeat("a", 200)),
		message.WithMaxHeaderLength(100))
	assert.ErrorIs(t, err, message.ErrLargeHeader)

	_, err = message.Split(strings.NewReader(big), message.WithMaxHeaderLength(0))
	assert.NoError(t, err)
}

func TestSplit_Subpart(t *testing.T) {
	t.Parallel()

	m, err := message.Split(strings.NewReader("\r\nno header here"), message.AsSubpart())
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())

	buf := &bytes.Buffer{}
	_, err = m.WriteTo(buf)
	assert.NoError(t, err)
	assert.Equal(t, "\r\nno header here", buf.String())
}
