package prepare

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zostay/go-rawmail/address"
	"github.com/zostay/go-rawmail/envelope"
	"github.com/zostay/go-rawmail/license"
	"github.com/zostay/go-rawmail/message/header"
	"github.com/zostay/go-rawmail/message/header/field"
)

// RewriteContext holds what RewriteHeader needs besides the header and the
// request. Every field is optional.
type RewriteContext struct {
	// Clock returns the current time. The default is time.Now.
	Clock func() time.Time

	// Hostname is the message id domain used when the envelope sender has
	// none. The default is "localhost".
	Hostname string

	// License, when set, causes the license marker to be added.
	License *license.Info

	// NewID returns the unique part of a generated message id. The default is
	// a random UUID.
	NewID func() string

	// Logger receives debug output. The default is slog.Default().
	Logger *slog.Logger
}

func (rc *RewriteContext) now() time.Time {
	if rc.Clock == nil {
		return time.Now()
	}
	return rc.Clock()
}

func (rc *RewriteContext) hostname() string {
	if rc.Hostname == "" {
		return "localhost"
	}
	return rc.Hostname
}

func (rc *RewriteContext) newID() string {
	if rc.NewID == nil {
		return uuid.NewString()
	}
	return rc.NewID()
}

func (rc *RewriteContext) logger() *slog.Logger {
	if rc.Logger == nil {
		return slog.Default()
	}
	return rc.Logger
}

// FormatDate writes t the way Date headers are written by this package, in UTC
// with a numeric zone.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC1123Z)
}

// ParseBool reads the boolean forms accepted in private control headers.
func ParseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "y", "on":
		return true, true
	case "false", "0", "no", "n", "off":
		return false, true
	}
	return false, false
}

// parseSendAt reads a send-at value, either unix milliseconds or a date.
func parseSendAt(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}

	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms), true
	}

	t, err := header.ParseTime(v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// takePrivate returns the first value of the named field and removes every
// field with that name.
func takePrivate(h *header.Header, name string) (string, bool) {
	v, ok := h.GetFirst(name)
	h.Remove(name)
	return v, ok
}

// stripLineBreaks keeps header values from spilling into new header lines.
func stripLineBreaks(v string) string {
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return -1
		}
		return r
	}, v)
}

// NormalizeMessageID puts a message id in a single pair of angle brackets.
func NormalizeMessageID(id string) string {
	id = strings.TrimSpace(stripLineBreaks(id))
	id = strings.TrimRight(strings.TrimLeft(id, "<"), ">")
	return "<" + id + ">"
}

// messageIDDomain is the lowercased domain of the sender, or the host name
// when the sender has no domain.
func (rc *RewriteContext) messageIDDomain(from string) string {
	if at := strings.LastIndex(from, "@"); at >= 0 {
		if d := strings.TrimSpace(from[at+1:]); d != "" {
			return strings.ToLower(d)
		}
	}
	return rc.hostname()
}

func (rc *RewriteContext) generateMessageID(from string) string {
	return fmt.Sprintf("<%s@%s>", rc.newID(), rc.messageIDDomain(from))
}

// addressField pairs an address header with the list requested for it.
type addressField struct {
	name string
	list address.List
}

func requestAddresses(req *Request) []addressField {
	return []addressField{
		{header.From, req.From},
		{header.To, req.To},
		{header.Cc, req.Cc},
		{header.Bcc, req.Bcc},
	}
}

// parseAddresses reads the named address header of h.
func parseAddresses(h *header.Header, name string) address.List {
	bodies, _ := h.GetAllRaw(name)
	return address.Parse(bodies...)
}

// RewriteHeader applies the request to the header of a raw message and derives
// the delivery metadata. The given header is not changed; the rewritten copy
// is returned.
//
// The private X-Ee-* control headers are read and removed. Their values
// override the delivery settings of the request, unless they cannot be read.
func RewriteHeader(h *header.Header, req *Request, rc *RewriteContext) (*header.Header, *Result, error) {
	if rc == nil {
		rc = &RewriteContext{}
	}

	h = h.Clone()
	now := rc.now()

	res := &Result{
		SendAt:           req.SendAt,
		DeliveryAttempts: req.DeliveryAttempts,
		Gateway:          req.Gateway,
		TrackingEnabled:  req.TrackingEnabled,
	}

	if v, ok := takePrivate(h, header.XEeSendAt); ok {
		if t, ok := parseSendAt(v); ok {
			res.SendAt = t
		}
	}

	if v, ok := takePrivate(h, header.XEeDeliveryAttempts); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			res.DeliveryAttempts = n
		}
	}

	if v, ok := takePrivate(h, header.XEeGateway); ok {
		if v = strings.TrimSpace(v); v != "" {
			res.Gateway = v
		}
	}

	if v, ok := takePrivate(h, header.XEeTrackingEnabled); ok {
		if b, ok := ParseBool(v); ok {
			res.TrackingEnabled = b
		}
	}

	res.track(req)

	res.Subject = req.Subject
	if res.Subject == "" {
		res.Subject, _ = h.GetFirst(header.Subject)
	}

	if !res.SendAt.IsZero() && res.SendAt.After(now) {
		h.Set(header.Date, FormatDate(res.SendAt))
	}

	if rc.License != nil {
		m, err := rc.License.Marker(now)
		if err != nil {
			return nil, nil, err
		}
		h.Add(header.XEeSid, m, header.AtStart)
	}

	for _, af := range requestAddresses(req) {
		switch {
		case af.list == nil:
		case len(af.list) == 0:
			h.Remove(af.name)
		case h.HasField(af.name):
			if af.list.AllDefault() {
				continue
			}
			h.Set(af.name, af.list.String())
		default:
			h.Add(af.name, af.list.String(), header.AtEnd)
		}
	}

	res.HasBcc = h.HasField(header.Bcc)

	var (
		from = parseAddresses(h, header.From)
		to   = parseAddresses(h, header.To)
		cc   = parseAddresses(h, header.Cc)
		bcc  = parseAddresses(h, header.Bcc)
	)

	if req.Envelope != nil {
		res.Envelope = req.Envelope.Normalize()
	} else {
		res.Envelope = envelope.Resolve(from, to, cc, bcc)
	}

	existingID, hasID := h.GetFirst(header.MessageID)
	switch {
	case req.MessageID != "":
		res.MessageID = NormalizeMessageID(req.MessageID)
		h.Set(header.MessageID, res.MessageID)
	case !hasID:
		res.MessageID = rc.generateMessageID(res.Envelope.From)
		h.Add(header.MessageID, res.MessageID, header.AtEnd)
	default:
		res.MessageID = strings.TrimSpace(existingID)
	}

	if !h.HasField(header.Date) {
		date := req.Date
		if date.IsZero() {
			date = now
		}
		h.Add(header.Date, FormatDate(date), header.AtEnd)
	}

	if !h.HasField(header.MIMEVersion) {
		h.Add(header.MIMEVersion, "1.0", header.AtEnd)
	}

	if req.Subject != "" {
		h.Set(header.Subject, field.EncodeWords(stripLineBreaks(req.Subject), field.DefaultWordLength))
	}

	for _, hf := range req.Headers {
		name := header.CanonicalName(hf.Name)
		if name == "" || strings.ContainsAny(name, ": \t\r\n") {
			continue
		}

		value := stripLineBreaks(hf.Value)
		switch name {
		case header.InReplyTo, header.References:
			h.Set(name, value)
		default:
			h.Add(name, value, header.AtStart)
		}
	}

	rc.logger().Debug("rewrote message header",
		"message_id", res.MessageID,
		"has_bcc", res.HasBcc,
		"recipients", len(res.Envelope.To),
		"send_at", res.SendAt,
	)

	return h, res, nil
}
