package header

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-rawmail/message/header/param"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned by Header methods when the operation
	// being performed failed because the header named does not exist.
	ErrNoSuchField = errors.New("no such header field")

	// ErrManyFields is returned by Header methods when the operation
	// being performed failed because the there are multiple fields with the
	// given name.
	ErrManyFields = errors.New("many header fields found")
)

// These are the header names this module reads or writes, in the form in which
// they are written.
const (
	Bcc                     = "Bcc"
	Cc                      = "Cc"
	ContentDisposition      = "Content-Disposition"
	ContentID               = "Content-ID"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	InReplyTo               = "In-Reply-To"
	MessageID               = "Message-ID"
	MIMEVersion             = "MIME-Version"
	References              = "References"
	ReplyTo                 = "Reply-To"
	Sender                  = "Sender"
	Subject                 = "Subject"
	To                      = "To"

	// XEeSid carries the license marker.
	XEeSid = "X-Ee-Sid"

	// Private control headers. These are read and removed before a message is
	// handed on and never reach the wire.
	XEeSendAt           = "X-Ee-Send-At"
	XEeDeliveryAttempts = "X-Ee-Delivery-Attempts"
	XEeGateway          = "X-Ee-Gateway"
	XEeTrackingEnabled  = "X-Ee-Tracking-Enabled"
)

// Even more custom date formats, built from those seen in the wild that the
// usual parsers have trouble with.
const (
	// UnixDateWithEarlyYear is a weird one, eh?
	UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"
)

// Position selects where Add places a new field.
type Position int

const (
	// AtEnd appends the field after all existing fields.
	AtEnd Position = iota

	// AtStart inserts the field before all existing fields.
	AtStart

	// BeforeFirstMatch inserts the field immediately before the first field
	// with the same name, or at the end when there is none.
	BeforeFirstMatch
)

// String returns the name of the position.
func (p Position) String() string {
	switch p {
	case AtEnd:
		return "AtEnd"
	case AtStart:
		return "AtStart"
	case BeforeFirstMatch:
		return "BeforeFirstMatch"
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

// Header wraps a Base, which does the actual storage and low-level field
// manipulation. This provides the name based methods for reading and changing
// fields. Name matching is always ASCII case-insensitive.
//
// The getter methods of this object will return an error if the field being
// fetched has not been set on the header. The error returned will be
// ErrNoSuchField.
type Header struct {
	// Base provides the low-level storage of header fields.
	Base
}

// Clone returns a deep copy of the header object.
func (h *Header) Clone() *Header {
	return &Header{Base: *h.Base.Clone()}
}

// Get retrieves the decoded value of the named field.
//
// If the named field is not set in the header, it will return an empty string
// with ErrNoSuchField. If there are multiple headers for the given named field,
// it will return the first value found and return ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return "", ErrNoSuchField
	}

	b := h.GetField(ixs[0]).Body()
	if len(ixs) > 1 {
		return b, ErrManyFields
	}

	return b, nil
}

// GetFirst returns the decoded value of the first field with the given name
// and whether such a field exists.
func (h *Header) GetFirst(name string) (string, bool) {
	b, err := h.Get(name)
	return b, err == nil || errors.Is(err, ErrManyFields)
}

// GetAll returns the decoded values of every field with the given name, in
// order. It returns ErrNoSuchField when there are none.
func (h *Header) GetAll(name string) ([]string, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(fs))
	for i, f := range fs {
		bs[i] = f.Body()
	}
	return bs, nil
}

// GetAllRaw works like GetAll, but returns the unfolded bodies with MIME
// encoded words left as they appear on the wire.
func (h *Header) GetAllRaw(name string) ([]string, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(fs))
	for i, f := range fs {
		bs[i] = f.RawBody()
	}
	return bs, nil
}

// HasField returns true if at least one field with the given name is present.
func (h *Header) HasField(name string) bool {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			return true
		}
	}
	return false
}

// Add inserts a new field at the given position. Existing fields with the same
// name are kept.
func (h *Header) Add(name, body string, pos Position) {
	switch pos {
	case AtStart:
		h.InsertBeforeField(0, name, body)
	case BeforeFirstMatch:
		if ixs := h.GetIndexesNamed(name); len(ixs) > 0 {
			h.InsertBeforeField(ixs[0], name, body)
			return
		}
		h.InsertBeforeField(h.Len(), name, body)
	default:
		h.InsertBeforeField(h.Len(), name, body)
	}
}

// Set replaces every field with the given name by a single field holding body.
// The field takes the place of the first existing field with that name, or is
// appended when there is none.
func (h *Header) Set(name, body string) {
	h.SetAll(name, body)
}

// SetAll replaces the fields with the given name by one field per body. The
// new fields are placed where the first existing field was, or at the end.
func (h *Header) SetAll(name string, bodies ...string) {
	ixs := h.GetIndexesNamed(name)
	at := h.Len()
	if len(ixs) > 0 {
		at = ixs[0]
	}

	for i := len(ixs) - 1; i >= 0; i-- {
		_ = h.DeleteField(ixs[i])
	}

	for i, b := range bodies {
		h.InsertBeforeField(at+i, name, b)
	}
}

// Remove deletes every field with the given name. It returns the number of
// fields removed.
func (h *Header) Remove(name string) int {
	ixs := h.GetIndexesNamed(name)
	for i := len(ixs) - 1; i >= 0; i-- {
		_ = h.DeleteField(ixs[i])
	}
	return len(ixs)
}

// ParseTime is a function that provides the time parsing used by GetTime() to
// parse dates to be used on any field body. This will attempt to parse the
// date using the format specified by RFC 5322 first and fallback to parsing it
// in many other formats.
//
// It either returns a parsed time or the parse error.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetTime gets the given date header field as a time.Time.
//
// It will return an error if it is unable to parse the time value from the date
// header. It will return the zero value and ErrNoSuchField if the header does
// not exist. It will return the zero value and ErrManyFields if more than one
// field with the name is set on the header.
func (h *Header) GetTime(name string) (time.Time, error) {
	body, err := h.Get(name)
	if err != nil {
		return time.Time{}, err
	}

	return ParseTime(body)
}

// GetParamValue will return a param.Value for the header field matching the
// given name.
func (h *Header) GetParamValue(name string) (*param.Value, error) {
	body, err := h.Get(name)
	if err != nil {
		return nil, err
	}

	return param.Parse(body)
}

// SetParamValue sets the named field to the serialized param.Value.
func (h *Header) SetParamValue(name string, pv *param.Value) {
	h.Set(name, pv.String())
}

// ParseAddressList will attempt a strict parse of the email address list.
// However, if that fails, an extremely lenient parsing will be attempted, which
// might result in results that can only be described as "weird" in the effort
// to provide some kind of result. It is so forgiving, it will return some kind
// of value for any input.
//
// Groups with members are flattened into plain mailboxes before parsing, since
// the strict parser cannot build them.
func ParseAddressList(body string) addr.AddressList {
	if flat, ok := flattenGroups(body); ok {
		body = flat
	}

	al, err := strictAddressList(body)
	if err != nil {
		al = parseEmailAddressList(body)
	}

	return al
}

// strictAddressList runs the go-addr parser, turning a panic inside it into an
// error.
func strictAddressList(body string) (al addr.AddressList, err error) {
	defer func() {
		if r := recover(); r != nil {
			al, err = nil, fmt.Errorf("address list parser failed: %v", r)
		}
	}()

	return addr.ParseEmailAddressList(body)
}

// flattenGroups rewrites "name: a, b;" groups as "a, b". Separators inside
// quoted strings, comments, and angle brackets are left alone. It reports
// false when no group with members was found, in which case the body is
// returned unchanged.
func flattenGroups(body string) (string, bool) {
	var (
		items   []string
		cur     strings.Builder
		quoted  bool
		escaped bool
		comment int
		angle   bool
		inGroup bool
		found   bool
	)

	flush := func() {
		if item := strings.TrimSpace(cur.String()); item != "" {
			items = append(items, item)
			found = found || inGroup
		}
		cur.Reset()
	}

	for _, c := range body {
		switch {
		case escaped:
			escaped = false
		case c == '\\' && (quoted || comment > 0):
			escaped = true
		case quoted:
			if c == '"' {
				quoted = false
			}
		case c == '(':
			comment++
		case c == ')' && comment > 0:
			comment--
		case comment > 0:
		case c == '"':
			quoted = true
		case c == '<':
			angle = true
		case c == '>':
			angle = false
		case angle:
		case c == ':':
			// drop the group display name
			cur.Reset()
			inGroup = true
			continue
		case c == ';':
			flush()
			inGroup = false
			continue
		case c == ',':
			flush()
			continue
		}
		cur.WriteRune(c)
	}
	flush()

	if !found {
		return body, false
	}
	return strings.Join(items, ", "), true
}

// parseEmailAddressList is a fallback method for email address parsing. It
// splits on commas, pulls comments out, and treats the last word of each part
// as the address.
func parseEmailAddressList(v string) addr.AddressList {
	extractComments := func(s string) (string, string) {
		var clean, comment strings.Builder
		nestLevel := 0
		for _, c := range s {
			switch {
			case c == '(':
				nestLevel++
				if nestLevel > 1 {
					comment.WriteRune(c)
				}
			case c == ')':
				nestLevel--
				switch {
				case nestLevel == 0:
				case nestLevel < 0:
					nestLevel = 0
					clean.WriteRune(c)
				default:
					comment.WriteRune(c)
				}
			case nestLevel > 0:
				comment.WriteRune(c)
			default:
				clean.WriteRune(c)
			}
		}

		return clean.String(), comment.String()
	}

	mbs := strings.Split(v, ",")
	as := make(addr.AddressList, 0, len(mbs))
	for _, orig := range mbs {
		mb, com := extractComments(orig)

		mb = strings.TrimSpace(mb)
		com = strings.TrimSpace(com)

		parts := strings.Fields(mb)
		if len(parts) == 0 {
			continue
		}

		dn := strings.Join(parts[:len(parts)-1], " ")
		email := strings.Trim(parts[len(parts)-1], "<>")
		if email == "" {
			continue
		}

		var addrSpec *addr.AddrSpec
		if i := strings.LastIndex(email, "@"); i > -1 {
			addrSpec = addr.NewAddrSpecParsed(email[:i], email[i+1:], email)
		} else {
			addrSpec = addr.NewAddrSpecParsed(email, "", email)
		}

		mailbox, err := addr.NewMailboxParsed(dn, addrSpec, com, orig)
		if err != nil {
			mailbox, _ = addr.NewMailboxParsed(dn, addrSpec, "", orig)
		}

		if mailbox != nil {
			as = append(as, mailbox)
		}
	}

	return as
}
