package address

import (
	"strings"

	"github.com/zostay/go-addr/pkg/addr"
	"golang.org/x/net/idna"

	"github.com/zostay/go-rawmail/message/header"
	"github.com/zostay/go-rawmail/message/header/field"
)

// Entry is a single mailbox. Default marks a placeholder entry that was filled
// in by a caller rather than given by the sender. A list made only of default
// entries never replaces an address header that already exists.
type Entry struct {
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`
	Address string `yaml:"address" json:"address"`
	Default bool   `yaml:"default,omitempty" json:"default,omitempty"`
}

// List is an ordered list of mailboxes. A nil List means no list was given at
// all. A non-nil empty List means the list was given and is empty.
type List []Entry

// groupList is satisfied by address groups, which hold a list of mailboxes in
// place of an address of their own.
type groupList interface {
	MailboxList() addr.MailboxList
}

// Parse reads every given header body as an address list and returns the
// mailboxes found, in order. Groups are replaced by their members. Display
// names holding MIME encoded words are decoded; a name that fails to decode is
// kept as written. Entries without an address are dropped.
//
// The bodies should be given as they appear on the wire, before any MIME word
// decoding, as returned by header.Header.GetAllRaw.
//
// Parse never fails. The result is non-nil, even when empty.
func Parse(values ...string) List {
	l := List{}
	for _, v := range values {
		for _, a := range header.ParseAddressList(v) {
			if g, ok := a.(groupList); ok {
				for _, mb := range g.MailboxList() {
					l = l.appendAddress(mb.DisplayName(), mb.Address())
				}
				continue
			}

			l = l.appendAddress(a.DisplayName(), a.Address())
		}
	}
	return l
}

func (l List) appendAddress(name, address string) List {
	address = strings.TrimSuffix(strings.TrimSpace(address), "@")
	if address == "" {
		return l
	}

	return append(l, Entry{
		Name:    decodeName(name),
		Address: address,
	})
}

// decodeName unquotes a display name and decodes any encoded words in it.
func decodeName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) >= 2 && strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) {
		name = unquote(name[1 : len(name)-1])
	}

	dec, err := field.Decode(name)
	if err != nil {
		return name
	}
	return dec
}

func unquote(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	esc := false
	for _, c := range s {
		if c == '\\' && !esc {
			esc = true
			continue
		}
		esc = false
		sb.WriteRune(c)
	}
	return sb.String()
}

// Addresses returns just the addresses of the list, in order.
func (l List) Addresses() []string {
	as := make([]string, len(l))
	for i, e := range l {
		as[i] = e.Address
	}
	return as
}

// AllDefault returns true when every entry is a default placeholder. An empty
// list is not all default.
func (l List) AllDefault() bool {
	if len(l) == 0 {
		return false
	}

	for _, e := range l {
		if !e.Default {
			return false
		}
	}
	return true
}

// First returns the first entry of the list and true, or the zero Entry and
// false when the list is empty.
func (l List) First() (Entry, bool) {
	if len(l) == 0 {
		return Entry{}, false
	}
	return l[0], true
}

// String encodes the list as a single address header body. Each mailbox is
// written as "Name <address>", or just the address when there is no name, and
// the mailboxes are joined by ", ".
func (l List) String() string {
	parts := make([]string, 0, len(l))
	for _, e := range l {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

// String encodes the entry as it is written in an address header. A name with
// non-ASCII characters becomes Q encoded words, a name holding special
// characters is quoted, and a unicode domain is converted to its ASCII form.
func (e Entry) String() string {
	a := encodeAddress(e.Address)

	name := strings.TrimSpace(e.Name)
	switch {
	case name == "":
		return a
	case !isASCII(name):
		name = field.EncodeWords(name, field.DefaultWordLength)
	case strings.ContainsAny(name, specials):
		name = quote(name)
	}

	return name + " <" + a + ">"
}

// specials are the characters that may not appear in an unquoted phrase.
const specials = "()<>[]:;@\\,.\""

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range s {
		if c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}
	sb.WriteByte('"')
	return sb.String()
}

// encodeAddress converts the domain of the address to its IDNA form. The
// address is returned unchanged when it has no domain or the conversion fails.
func encodeAddress(a string) string {
	at := strings.LastIndex(a, "@")
	if at < 0 || isASCII(a[at+1:]) {
		return a
	}

	domain, err := idna.ToASCII(a[at+1:])
	if err != nil {
		return a
	}
	return a[:at+1] + domain
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}
