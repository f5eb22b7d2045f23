package header

// Break represents the line break used by a header.
type Break string

// Constants for the line breaks recognized when splitting a message. If you
// don't know what to pick for a new header, choose CRLF.
const (
	Meh  Break = ""         // Sometimes it doesn't matter
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
	CR   Break = "\x0d"     // \r - Commodores/old Macs linebreak
	LFCR Break = "\x0a\x0d" // \n\r - for weirdos
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}

// Double returns the break twice, which is what separates a header from the
// body of a message.
func (b Break) Double() []byte {
	return []byte(b + b)
}
