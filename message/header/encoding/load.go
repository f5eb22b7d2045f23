// Package encoding replaces the charset decoder used for MIME encoded words
// with one that knows every charset in
//
// * golang.org/x/text/encoding/ianaindex
//
// Import it for side-effects only. It makes binaries larger, but lets header
// bodies written in legacy charsets decode properly.
package encoding

import (
	"fmt"

	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/zostay/go-rawmail/message/header/field"
)

func init() {
	field.CharsetDecoder = CharsetDecoder
}

// CharsetDecoder decodes bytes in any charset ianaindex knows by its MIME name.
func CharsetDecoder(charset string, b []byte) (string, error) {
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return "", err
	}

	if e == nil {
		return "", fmt.Errorf("no encoding found for charset %q", charset)
	}

	eb, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(eb), nil
}
