package field

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Decoder turns bytes in the named charset into a native string. Bytes that
// are not valid in the source charset should be replaced with
// unicode.ReplacementChar. An unsupported charset results in an error.
type Decoder func(charset string, b []byte) (string, error)

// CharsetDecoder is used when decoding MIME encoded words found in header
// bodies. It only understands us-ascii, latin1, and utf-8 by default. Import
// the encoding package to get the full IANA index:
//
//	import _ "github.com/zostay/go-rawmail/message/header/encoding"
var CharsetDecoder Decoder = DefaultCharsetDecoder

// DefaultCharsetDecoder handles us-ascii, iso-8859-1 (a.k.a. latin1), and
// utf-8. Anything else is an error.
//
// 8-bit bytes in us-ascii input and invalid sequences in utf-8 input become
// unicode.ReplacementChar.
func DefaultCharsetDecoder(charset string, b []byte) (string, error) {
	var s strings.Builder
	switch strings.ToLower(charset) {
	case "us-ascii", "ascii", "":
		for _, c := range b {
			if c > unicode.MaxASCII {
				s.WriteRune(unicode.ReplacementChar)
				continue
			}
			s.WriteByte(c)
		}
	case "iso-8859-1", "latin1":
		for _, c := range b {
			s.WriteRune(rune(c))
		}
	case "utf-8", "utf8":
		for len(b) > 0 {
			r, size := utf8.DecodeRune(b)
			s.WriteRune(r)
			b = b[size:]
		}
	default:
		return "", fmt.Errorf("unsupported byte encoding %q", charset)
	}
	return s.String(), nil
}

// CharsetDecoderToCharsetReader adapts a Decoder to the CharsetReader hook of
// mime.WordDecoder.
func CharsetDecoderToCharsetReader(decode Decoder) func(string, io.Reader) (io.Reader, error) {
	return func(charset string, r io.Reader) (io.Reader, error) {
		bs, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		s, err := decode(charset, bs)
		if err != nil {
			return nil, err
		}

		return strings.NewReader(s), nil
	}
}
