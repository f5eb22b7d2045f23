// Package rawmail prepares email messages for handoff to a transport.
//
// Messages come in one of two ways. A raw RFC 5322 message is split into its
// header and body with message.Split; the header is rewritten while the body is
// streamed through untouched, so the bytes of the body never change. Or a
// message is composed from a structured description: addresses, subject, text
// and HTML bodies, and attachments.
//
// Either way, prepare.GetRawEmail returns the finished message along with the
// delivery metadata derived from it: the SMTP envelope, the message id, the
// private delivery settings pulled out of the X-Ee-* headers, and whether the
// message carries a Bcc header that must be dropped before delivery with
// prepare.RemoveBcc.
//
// The packages are split by the part of the message they deal with:
//
//   - message splits and joins messages and builds MIME parts
//   - message/header holds the ordered, case-insensitive header fields
//   - message/header/field handles single fields, folding and MIME words
//   - message/header/param handles parameterized values like Content-Type
//   - message/transfer applies Content-Transfer-Encodings
//   - address parses and encodes address lists
//   - envelope works out the envelope from the address lists
//   - preview hides preview text in HTML bodies
//   - license builds the license marker
//   - prepare ties it all together
package rawmail
