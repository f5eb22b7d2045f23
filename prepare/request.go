package prepare

import (
	"time"

	"github.com/zostay/go-rawmail/address"
	"github.com/zostay/go-rawmail/envelope"
)

// HeaderField is an extra header the caller wants on the message.
type HeaderField struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// Attachment describes a file attached to a composed message.
type Attachment struct {
	Filename           string `yaml:"filename,omitempty" json:"filename,omitempty"`
	ContentType        string `yaml:"contentType,omitempty" json:"contentType,omitempty"`
	ContentDisposition string `yaml:"contentDisposition,omitempty" json:"contentDisposition,omitempty"`
	ContentID          string `yaml:"cid,omitempty" json:"cid,omitempty"`

	// Content is the attachment data, encoded as named by Encoding. With no
	// Encoding the bytes are used as they are.
	Content  []byte `yaml:"content,omitempty" json:"content,omitempty"`
	Encoding string `yaml:"encoding,omitempty" json:"encoding,omitempty"`

	// Raw is a complete MIME part, header and body, inserted verbatim.
	Raw []byte `yaml:"raw,omitempty" json:"raw,omitempty"`

	// Path and Href would load content from the file system or the network.
	// Neither is allowed.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	Href string `yaml:"href,omitempty" json:"href,omitempty"`
}

// Request describes the message to prepare. When Raw or RawBase64 is set, the
// raw message is rewritten and the compose fields are used only to update its
// header. Otherwise a new message is composed from the fields.
type Request struct {
	Raw       []byte `yaml:"-" json:"-"`
	RawBase64 string `yaml:"raw,omitempty" json:"raw,omitempty"`

	// A nil list leaves the matching header alone when rewriting. An empty
	// list removes it.
	From address.List `yaml:"from,omitempty" json:"from,omitempty"`
	To   address.List `yaml:"to,omitempty" json:"to,omitempty"`
	Cc   address.List `yaml:"cc,omitempty" json:"cc,omitempty"`
	Bcc  address.List `yaml:"bcc,omitempty" json:"bcc,omitempty"`

	// ReplyTo is only used when composing.
	ReplyTo address.List `yaml:"replyTo,omitempty" json:"replyTo,omitempty"`

	Subject     string       `yaml:"subject,omitempty" json:"subject,omitempty"`
	Text        string       `yaml:"text,omitempty" json:"text,omitempty"`
	HTML        string       `yaml:"html,omitempty" json:"html,omitempty"`
	PreviewText string       `yaml:"previewText,omitempty" json:"previewText,omitempty"`
	Attachments []Attachment `yaml:"attachments,omitempty" json:"attachments,omitempty"`

	Headers   []HeaderField      `yaml:"headers,omitempty" json:"headers,omitempty"`
	MessageID string             `yaml:"messageId,omitempty" json:"messageId,omitempty"`
	Date      time.Time          `yaml:"date,omitempty" json:"date,omitempty"`
	Envelope  *envelope.Envelope `yaml:"envelope,omitempty" json:"envelope,omitempty"`

	// Delivery settings. The private X-Ee-* headers of a raw message override
	// these.
	SendAt           time.Time `yaml:"sendAt,omitempty" json:"sendAt,omitempty"`
	DeliveryAttempts int       `yaml:"deliveryAttempts,omitempty" json:"deliveryAttempts,omitempty"`
	Gateway          string    `yaml:"gateway,omitempty" json:"gateway,omitempty"`
	TrackingEnabled  bool      `yaml:"trackingEnabled,omitempty" json:"trackingEnabled,omitempty"`
	TrackClicks      *bool     `yaml:"trackClicks,omitempty" json:"trackClicks,omitempty"`
	TrackOpens       *bool     `yaml:"trackOpens,omitempty" json:"trackOpens,omitempty"`
}

// Result is the prepared message and the delivery metadata derived from it.
type Result struct {
	Raw    []byte  `yaml:"-" json:"-"`
	Object *Object `yaml:"object,omitempty" json:"object,omitempty"`

	HasBcc    bool              `yaml:"hasBcc" json:"hasBcc"`
	MessageID string            `yaml:"messageId" json:"messageId"`
	Envelope  envelope.Envelope `yaml:"envelope" json:"envelope"`
	Subject   string            `yaml:"subject,omitempty" json:"subject,omitempty"`

	SendAt           time.Time `yaml:"sendAt,omitempty" json:"sendAt,omitempty"`
	DeliveryAttempts int       `yaml:"deliveryAttempts,omitempty" json:"deliveryAttempts,omitempty"`
	Gateway          string    `yaml:"gateway,omitempty" json:"gateway,omitempty"`
	TrackingEnabled  bool      `yaml:"trackingEnabled" json:"trackingEnabled"`
	TrackClicks      bool      `yaml:"trackClicks" json:"trackClicks"`
	TrackOpens       bool      `yaml:"trackOpens" json:"trackOpens"`
}

// track resolves the click and open tracking flags. An explicit flag wins,
// otherwise both follow trackingEnabled.
func (r *Result) track(req *Request) {
	r.TrackClicks = r.TrackingEnabled
	if req.TrackClicks != nil {
		r.TrackClicks = *req.TrackClicks
	}

	r.TrackOpens = r.TrackingEnabled
	if req.TrackOpens != nil {
		r.TrackOpens = *req.TrackOpens
	}
}
