// Package preview hides a short preview text at the top of an HTML body, where
// mail clients pick it up for their message list.
package preview

import (
	"regexp"
	"strings"
)

// MaxTagScan is how many characters after "<body" are searched for the end of
// the body tag.
const MaxTagScan = 1000

// padding follows the preview text so clients do not fill the rest of their
// preview line with the start of the body.
var padding = strings.Repeat("&#8199;&#65279;&#847; ", 100)

var bodyStart = regexp.MustCompile(`(?i)<body\b`)

// Snippet returns the hidden block that is injected for the given text.
func Snippet(text string) string {
	return `<!--[if !gte mso 9]><!---->
<div style="
    display:none !important;
    max-height: 0px;
    max-width: 1px;
    font-size: 1px;
    line-height: 1px;
    opacity: 0.0;
    mso-hide: all;
    overflow: hidden !important;
    visibility: hidden !important;
">` + text + " " + padding + `</div>
<!--<![endif]-->`
}

// Inject places the preview snippet for text right after the opening body tag
// of html, on a line of its own. Without a body tag, the snippet is put in
// front of the document. When the end of the body tag is not found within
// MaxTagScan characters, html is returned unchanged.
func Inject(html, text string) string {
	snippet := Snippet(text)

	loc := bodyStart.FindStringIndex(html)
	if loc == nil {
		return snippet + "\n" + html
	}

	n := 0
	for i, c := range html[loc[1]:] {
		if n >= MaxTagScan {
			break
		}
		if c == '>' {
			at := loc[1] + i + 1
			return html[:at] + "\n" + snippet + html[at:]
		}
		n++
	}

	return html
}
