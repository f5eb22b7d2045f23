package message

import (
	"bytes"
	"errors"
	"io"

	"github.com/zostay/go-rawmail/message/header"
)

// Constants related to Split() options.
const (
	// DefaultChunkSize the default size of chunks to read from the input while
	// splitting the message into header and body. Defaults to 16K, though this
	// could change at any time.
	DefaultChunkSize = 16_384

	// DefaultMaxHeaderLength is the default maximum byte length to scan before
	// giving up on finding the end of the header.
	DefaultMaxHeaderLength = 2 << 20
)

// Errors that occur while splitting a message.
var (
	// ErrEmptyMessage is returned by Split when the input holds no bytes at all.
	ErrEmptyMessage = errors.New("the message is empty")

	// ErrLargeHeader is returned by Split when the header is longer than the
	// configured WithMaxHeaderLength option (or the default,
	// DefaultMaxHeaderLength).
	ErrLargeHeader = errors.New("the header exceeds the maximum parse length")

	// ErrNoHeader is returned by Split when the header holds no fields.
	ErrNoHeader = errors.New("the message has no header fields")
)

var splits = [][]byte{
	[]byte("\x0d\x0a\x0d\x0a"), // \r\n\r\n
	[]byte("\x0a\x0d\x0a\x0d"), // \n\r\n\r, extremely unlikely, possibly never
	[]byte("\x0a\x0a"),         // \n\n
	[]byte("\x0d\x0d"),         // \r\r
}

type splitter struct {
	maxHeaderLen int
	chunkSize    int
	subpart      bool
}

var defaultSplitter = splitter{
	maxHeaderLen: DefaultMaxHeaderLength,
	chunkSize:    DefaultChunkSize,
}

// SplitOption refers to options that may be passed to Split and Rewrite to
// modify how the header is located.
type SplitOption func(sp *splitter)

// WithMaxHeaderLength is a SplitOption that sets the maximum size the buffer is
// allowed to reach before splitting exits with an ErrLargeHeader error. During
// splitting, the io.Reader will be read from a chunk at a time until the end of
// the header is found. This setting prevents bad input from resulting in an out
// of memory error. Setting this to a value less than or equal to 0 will result
// in there being no maximum length. The default value is
// DefaultMaxHeaderLength.
func WithMaxHeaderLength(n int) SplitOption {
	return func(sp *splitter) { sp.maxHeaderLen = n }
}

// WithChunkSize is a SplitOption that controls how many bytes to read at a
// time while looking for the end of the header. The default chunk size is
// DefaultChunkSize.
func WithChunkSize(chunkSize int) SplitOption {
	return func(sp *splitter) {
		if chunkSize > 0 {
			sp.chunkSize = chunkSize
		}
	}
}

// AsSubpart is a SplitOption for input that is a MIME part rather than a whole
// message. A part may start with a blank line, meaning its header is empty.
func AsSubpart() SplitOption {
	return func(sp *splitter) { sp.subpart = true }
}

// searchForSplit looks for a header/body split. Returns -1, nil if none is
// found. If the header/body split is found, it returns the location just past
// the split (including the split newlines) and the line break to use with the
// header as a slice of bytes. When more than one kind of split is present, the
// one that comes first wins.
func searchForSplit(buf []byte, subpart bool) (pos int, crlf []byte) {
	if subpart {
		// an empty header is just a line break at the very start
		for _, s := range splits {
			if bytes.HasPrefix(buf, s[0:len(s)/2]) {
				return len(s) / 2, s[0 : len(s)/2]
			}
		}
	}

	pos = -1
	best := -1
	for _, s := range splits {
		if testPos := bytes.Index(buf, s); testPos > -1 && (best < 0 || testPos < best) {
			best = testPos
			pos = testPos + len(s)
			crlf = s[0 : len(s)/2]
		}
	}
	return
}

func (sp *splitter) tooLong(n int) bool {
	return sp.maxHeaderLen > 0 && n > sp.maxHeaderLen
}

// splitHeadFromBody will detect the index of the split between the message
// header and the message body as well as the line break the email is using. It
// returns the header bytes, the line break and a reader for the body. The body
// reader returns any bytes read past the header first, followed by the unread
// remainder of r.
func (sp *splitter) splitHeadFromBody(r io.Reader) ([]byte, []byte, io.Reader, error) {
	p := make([]byte, sp.chunkSize)
	buf := &bytes.Buffer{}
	searched := 0
	for {
		n, err := r.Read(p)

		isEOF := false
		if errors.Is(err, io.EOF) {
			isEOF = true
		} else if err != nil {
			return nil, nil, nil, err
		}

		buf.Write(p[:n])

		pos, crlf := searchForSplit(buf.Bytes()[searched:], sp.subpart && searched == 0)
		if pos >= 0 {
			pos += searched
			if sp.tooLong(pos) {
				return nil, nil, nil, ErrLargeHeader
			}

			all := buf.Bytes()
			hdr := all[:pos:pos]
			return hdr, crlf, &remainder{all[pos:], r}, nil
		}

		// only header bytes count against the limit, so the check waits
		// until the chunk has been searched
		if sp.tooLong(buf.Len()) {
			return nil, nil, nil, ErrLargeHeader
		}

		if isEOF {
			break
		}

		// the last 3 bytes might be the prefix to the split point
		searched = buf.Len() - 3
		if searched < 0 {
			searched = 0
		}
	}

	if buf.Len() == 0 {
		return nil, nil, nil, ErrEmptyMessage
	}

	// We were unable to find a header/body split. The message is all header and
	// no body. Pick the line break from whatever the header uses.
	for _, s := range splits {
		crlf := s[0 : len(s)/2]
		if bytes.Contains(buf.Bytes(), crlf) {
			return buf.Bytes(), crlf, nil, nil
		}
	}

	return buf.Bytes(), header.CRLF.Bytes(), nil, nil
}

// Split will consume input from the given reader until the end of the header
// and return an *Opaque holding the parsed header and the still unread body.
//
// The io.Reader is read in chunks, as defined by the WithChunkSize() option (or
// by the default, DefaultChunkSize). Each chunk is checked for a double line
// break of some kind (e.g., "\r\n\r\n" or "\n\n" are the most common). The
// first one found determines the line break used to break up the header into
// fields. Reading stops there: the tail of the last chunk plus the rest of the
// io.Reader make up the body, which is never parsed or altered.
//
// Input with no double line break at all is treated as a header with no body.
//
// Splitting fails with ErrEmptyMessage on empty input, ErrLargeHeader when the
// header is longer than WithMaxHeaderLength() (or DefaultMaxHeaderLength),
// ErrNoHeader when no header fields are found at all, and a
// *field.BadStartError when the header begins with text that is not a header
// field. If this happens, the io.Reader may be in a partial read state.
func Split(r io.Reader, opts ...SplitOption) (*Opaque, error) {
	sp := defaultSplitter
	for _, opt := range opts {
		opt(&sp)
	}

	hdr, crlf, body, err := sp.splitHeadFromBody(r)
	if err != nil {
		return nil, err
	}

	if sp.subpart && bytes.Equal(hdr, crlf) {
		head := &header.Header{}
		head.SetBreak(header.Break(crlf))
		return &Opaque{Header: *head, Reader: body, encoded: true}, nil
	}

	head, err := header.Parse(hdr, header.Break(crlf))
	if head != nil && head.Len() == 0 {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}

	return &Opaque{Header: *head, Reader: body, encoded: true}, nil
}
