// Package header provides the ordered, case-insensitive collection of fields
// that makes up an email message header. Fields are looked up by name, added at
// an explicit Position, replaced, or removed.
//
// Parse keeps the raw bytes of every field it reads, so an unmodified header is
// written back byte-for-byte. Only fields that were added or changed are
// re-encoded and folded on output.
package header
