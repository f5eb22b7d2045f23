package transfer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-rawmail/message/header"
	"github.com/zostay/go-rawmail/message/transfer"
)

const dec = `1 Timothy 6:10 - For the love of money is a root of all kinds of evils. It is through this craving that some have wandered away from the faith and pierced themselves with many pangs.`
const enc = "MSBUaW1vdGh5IDY6MTAgLSBGb3IgdGhlIGxvdmUgb2YgbW9uZXkgaXMgYSByb290IG9mIGFsbCBr\r\n" +
	"aW5kcyBvZiBldmlscy4gSXQgaXMgdGhyb3VnaCB0aGlzIGNyYXZpbmcgdGhhdCBzb21lIGhhdmUg\r\n" +
	"d2FuZGVyZWQgYXdheSBmcm9tIHRoZSBmYWl0aCBhbmQgcGllcmNlZCB0aGVtc2VsdmVzIHdpdGgg\r\n" +
	"bWFueSBwYW5ncy4=\r\n"

func TestApplyTransferEncoding(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.Set(header.ContentTransferEncoding, transfer.Base64)

	w := &bytes.Buffer{}
	tdwc := transfer.ApplyTransferEncoding(h, w)
	n, err := tdwc.Write([]byte(dec))
	assert.Equal(t, len(dec), n)
	assert.NoError(t, err)
	require.NoError(t, tdwc.Close())

	assert.Equal(t, enc, w.String())
}

func TestApplyTransferEncoding_SmallWrites(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.Set(header.ContentTransferEncoding, "BASE64")

	w := &bytes.Buffer{}
	tdwc := transfer.ApplyTransferEncoding(h, w)
	for i := 0; i < len(dec); i++ {
		_, err := tdwc.Write([]byte{dec[i]})
		require.NoError(t, err)
	}
	require.NoError(t, tdwc.Close())

	assert.Equal(t, enc, w.String())
}

func TestApplyTransferEncoding_Multipart(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.Set(header.ContentType, `multipart/mixed; boundary="x"`)
	h.Set(header.ContentTransferEncoding, transfer.Base64)

	w := &bytes.Buffer{}
	tdwc := transfer.ApplyTransferEncoding(h, w)
	_, _ = tdwc.Write([]byte("as is"))
	require.NoError(t, tdwc.Close())
	assert.Equal(t, "as is", w.String())
}

func TestNewQuotedPrintableEncoder(t *testing.T) {
	t.Parallel()

	w := &bytes.Buffer{}
	qp := transfer.NewQuotedPrintableEncoder(w, nil)
	_, err := qp.Write([]byte{0x3d, 0x3e, 0x3f})
	assert.NoError(t, err)
	require.NoError(t, qp.Close())
	assert.Equal(t, "=3D>?", w.String())
}

func TestNewAsIsEncoder(t *testing.T) {
	t.Parallel()

	const asis = "\x80\x90\xa0\xb0\r\n\t\b"
	w := &bytes.Buffer{}
	ae := transfer.NewAsIsEncoder(w, nil)
	n, err := ae.Write([]byte(asis))
	assert.Equal(t, len(asis), n)
	assert.NoError(t, err)
	assert.NoError(t, ae.Close())
	assert.Equal(t, asis, w.String())
}

func TestForText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, transfer.Bit7, transfer.ForText([]byte("hello\r\nworld\r\n")))
	assert.Equal(t, transfer.QuotedPrintable, transfer.ForText([]byte("héllo")))
	assert.Equal(t, transfer.QuotedPrintable, transfer.ForText([]byte(strings.Repeat("a", 999))))
	assert.Equal(t, transfer.Bit7, transfer.ForText([]byte(strings.Repeat("a", 998)+"\r\n")))
}

func TestIsASCII(t *testing.T) {
	t.Parallel()

	assert.True(t, transfer.IsASCII([]byte("plain")))
	assert.False(t, transfer.IsASCII([]byte{'a', 0x80}))
}
