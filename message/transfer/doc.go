// Package transfer applies the Content-Transfer-Encoding of a message part
// while its body is written. Only quoted-printable and base64 change the
// bytes. Binary, 7bit, and 8bit leave them as-is.
package transfer
