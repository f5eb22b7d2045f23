package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-rawmail/message/header"
)

func TestCanonicalName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"message-id":                "Message-ID",
		"MIME-VERSION":              "MIME-Version",
		"in-reply-to":               "In-Reply-To",
		"content-transfer-encoding": "Content-Transfer-Encoding",
		"x-ee-sid":                  "X-Ee-Sid",
		"x-custom-thing":            "X-Custom-Thing",
		"LIST-UNSUBSCRIBE":          "List-Unsubscribe",
		"bcc":                       "Bcc",
		" subject ":                 "Subject",
	}
	for in, want := range cases {
		assert.Equal(t, want, header.CanonicalName(in), in)
	}
}
