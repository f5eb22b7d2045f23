package message_test

import (
	"os"
	"strings"

	"github.com/zostay/go-rawmail/message"
	"github.com/zostay/go-rawmail/message/header"
)

func ExampleRewrite() {
	in := strings.NewReader("To: a@example.com\nBcc: secret@example.com\n\nHello!\n")

	_, _ = message.Rewrite(os.Stdout, in, func(h *header.Header) (*header.Header, error) {
		h.Remove(header.Bcc)
		return h, nil
	})
	// Output:
	// To: a@example.com
	//
	// Hello!
}
