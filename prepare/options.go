package prepare

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zostay/go-rawmail/license"
	"github.com/zostay/go-rawmail/message"
)

// Option changes how GetRawEmail prepares a message.
type Option func(*options)

type options struct {
	license        *license.Info
	returnObject   bool
	clock          func() time.Time
	hostname       string
	logger         *slog.Logger
	boundaryPrefix string
	newID          func() string
}

func newOptions(opts []Option) *options {
	o := &options{
		clock:          time.Now,
		boundaryPrefix: message.DefaultBoundaryPrefix,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.hostname == "" {
		o.hostname = defaultHostname()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

func defaultHostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "localhost"
	}
	return strings.ToLower(h)
}

// WithLicense marks every message with the given license information. A nil
// info or one without a key marks messages as unlicensed copies.
func WithLicense(info *license.Info) Option {
	return func(o *options) {
		if info == nil {
			info = &license.Info{}
		}
		o.license = info
	}
}

// WithReturnObject adds the parsed form of the prepared message to the result.
func WithReturnObject() Option {
	return func(o *options) { o.returnObject = true }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithHostname sets the domain used for generated message ids when the sender
// has none. The default is the local host name.
func WithHostname(hostname string) Option {
	return func(o *options) { o.hostname = strings.ToLower(hostname) }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithBoundaryPrefix sets the prefix of the multipart boundaries of composed
// messages.
func WithBoundaryPrefix(prefix string) Option {
	return func(o *options) { o.boundaryPrefix = prefix }
}

// WithIDGenerator replaces the generator of the unique part of message ids.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func (o *options) rewriteContext() *RewriteContext {
	return &RewriteContext{
		Clock:    o.clock,
		Hostname: o.hostname,
		License:  o.license,
		NewID:    o.newID,
		Logger:   o.logger,
	}
}
