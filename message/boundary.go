package message

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DefaultBoundaryPrefix starts every boundary generated by Boundaries unless
// another prefix is given.
const DefaultBoundaryPrefix = "----=_Part"

// Boundaries hands out the boundaries for the multipart parts of one message.
// Each message gets a random base, and each part of that message gets the next
// counter value, so boundaries never collide with each other or with content.
type Boundaries struct {
	prefix string
	base   string
	n      int
}

// NewBoundaries creates a generator with a fresh random base. An empty prefix
// means DefaultBoundaryPrefix.
func NewBoundaries(prefix string) *Boundaries {
	if prefix == "" {
		prefix = DefaultBoundaryPrefix
	}
	return &Boundaries{
		prefix: prefix,
		base:   strings.ReplaceAll(uuid.NewString(), "-", ""),
	}
}

// Next returns the next boundary.
func (b *Boundaries) Next() string {
	b.n++
	return fmt.Sprintf("%s_%s_%d", b.prefix, b.base, b.n)
}
