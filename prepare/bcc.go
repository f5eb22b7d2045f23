package prepare

import (
	"github.com/zostay/go-rawmail/message"
	"github.com/zostay/go-rawmail/message/header"
)

// RemoveBcc returns the raw message without its Bcc header. The rest of the
// message is returned byte for byte. Removing Bcc from a message without one
// returns the message unchanged.
func RemoveBcc(raw []byte) ([]byte, error) {
	return message.RewriteBytes(raw, func(h *header.Header) (*header.Header, error) {
		h.Remove(header.Bcc)
		return h, nil
	})
}
