package header

import (
	"strings"
)

// canonicalNames maps lowercase header names to the form in which they are
// written whenever the plain Capitalized-Hyphenated form is wrong.
var canonicalNames = map[string]string{
	"bcc":                       Bcc,
	"cc":                        Cc,
	"content-disposition":       ContentDisposition,
	"content-id":                ContentID,
	"content-transfer-encoding": ContentTransferEncoding,
	"content-type":              ContentType,
	"date":                      Date,
	"dkim-signature":            "DKIM-Signature",
	"from":                      From,
	"in-reply-to":               InReplyTo,
	"list-id":                   "List-ID",
	"message-id":                MessageID,
	"mime-version":              MIMEVersion,
	"references":                References,
	"reply-to":                  ReplyTo,
	"return-path":               "Return-Path",
	"sender":                    Sender,
	"subject":                   Subject,
	"to":                        To,
	"x-ee-sid":                  XEeSid,
}

// CanonicalName returns the write form of a header name. Well-known names come
// from a fixed table (e.g., "message-id" becomes "Message-ID"). Anything else
// is written with the first letter of each hyphenated part capitalized and the
// rest lowercased.
func CanonicalName(name string) string {
	lc := strings.ToLower(strings.TrimSpace(name))
	if cn, ok := canonicalNames[lc]; ok {
		return cn
	}

	parts := strings.Split(lc, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}
