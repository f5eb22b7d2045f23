package field

import (
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"
)

// DefaultWordLength is the longest encoded word EncodeWords will produce
// unless told otherwise.
const DefaultWordLength = 64

// Encode transforms a header field body into B-encoded (Base-64) UTF-8 words
// when it contains characters that cannot be sent as-is. ASCII bodies are
// returned unchanged.
func Encode(body string) string {
	return mime.BEncoding.Encode("utf-8", body)
}

// EncodeWords transforms a header field body into Q-encoded UTF-8 words, each
// no longer than maxLen bytes, separated by single spaces. A multi-byte
// character is never split between two words. Pure ASCII bodies are returned
// unchanged. A maxLen too short to hold the word framing plus one encoded
// character falls back to DefaultWordLength.
func EncodeWords(body string, maxLen int) string {
	if isASCII(body) {
		return body
	}

	const (
		prefix = "=?UTF-8?Q?"
		suffix = "?="
	)

	room := maxLen - len(prefix) - len(suffix)
	if room < 3*utf8.UTFMax {
		room = DefaultWordLength - len(prefix) - len(suffix)
	}

	var (
		words []string
		word  strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			words = append(words, prefix+word.String()+suffix)
			word.Reset()
		}
	}

	var buf [utf8.UTFMax]byte
	for _, r := range body {
		var enc string
		switch {
		case r == ' ':
			enc = "_"
		case isQLiteral(r):
			enc = string(r)
		default:
			n := utf8.EncodeRune(buf[:], r)
			var sb strings.Builder
			for _, b := range buf[:n] {
				fmt.Fprintf(&sb, "=%02X", b)
			}
			enc = sb.String()
		}

		if word.Len()+len(enc) > room {
			flush()
		}
		word.WriteString(enc)
	}
	flush()

	return strings.Join(words, " ")
}

func isQLiteral(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '!', r == '*', r == '+', r == '-', r == '/':
		return true
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Decode transforms a single header field body and looks for MIME word encoded
// field values. When they are found, these are decoded into native unicode.
func Decode(body string) (string, error) {
	if !strings.Contains(body, "=?") {
		return body, nil
	}

	dec := &mime.WordDecoder{
		CharsetReader: CharsetDecoderToCharsetReader(CharsetDecoder),
	}
	return dec.DecodeHeader(body)
}
