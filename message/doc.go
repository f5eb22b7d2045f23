// Package message splits raw email messages into a parsed header and an
// untouched body, and joins them back together.
//
// Split reads just enough of the input to find the end of the header. The body
// stays an io.Reader, so an unmodified body is passed through byte-for-byte no
// matter how large, binary, or oddly structured it is. Rewrite wraps this into
// a single pass: split, hand the header to a callback once, write the result.
//
//	_, err := message.Rewrite(out, in, func(h *header.Header) (*header.Header, error) {
//		h.Remove(header.Bcc)
//		return h, nil
//	})
//
// For building new messages, a Buffer produces Opaque parts whose bodies are
// transfer encoded on output, and NewMultipart frames parts with boundaries
// handed out by Boundaries.
package message
