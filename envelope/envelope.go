// Package envelope works out the SMTP envelope of a message from its address
// lists.
package envelope

import (
	"github.com/zostay/go-rawmail/address"
)

// Envelope is the sender and the recipients a message is delivered for. To is
// ordered and holds no duplicates.
type Envelope struct {
	From string   `yaml:"from" json:"from"`
	To   []string `yaml:"to" json:"to"`
}

// Resolve builds the envelope from the address lists of a message. From is the
// first address of from, or empty. To holds every address of to, cc and bcc, in
// that order, each only the first time it is seen. Addresses are compared as
// exact strings.
func Resolve(from, to, cc, bcc address.List) Envelope {
	env := Envelope{To: []string{}}
	if e, ok := from.First(); ok {
		env.From = e.Address
	}

	seen := map[string]struct{}{}
	for _, l := range []address.List{to, cc, bcc} {
		for _, e := range l {
			if e.Address == "" {
				continue
			}
			if _, dup := seen[e.Address]; dup {
				continue
			}
			seen[e.Address] = struct{}{}
			env.To = append(env.To, e.Address)
		}
	}

	return env
}

// Normalize returns a copy of the envelope with a non-nil To.
func (e Envelope) Normalize() Envelope {
	to := make([]string, len(e.To))
	copy(to, e.To)
	return Envelope{From: e.From, To: to}
}
