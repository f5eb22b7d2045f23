package prepare

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/zostay/go-rawmail/envelope"
	"github.com/zostay/go-rawmail/message"
	"github.com/zostay/go-rawmail/message/header"
	"github.com/zostay/go-rawmail/message/header/field"
	"github.com/zostay/go-rawmail/message/header/param"
	"github.com/zostay/go-rawmail/message/transfer"
	"github.com/zostay/go-rawmail/preview"
)

// Errors returned while composing.
var (
	// ErrContentAccess is returned for attachments that would have to be read
	// from the file system or fetched from the network.
	ErrContentAccess = errors.New("attachment content must be given inline")

	// ErrUnsupportedEncoding is returned for an attachment whose content is
	// encoded in a way that is not known.
	ErrUnsupportedEncoding = errors.New("unsupported attachment content encoding")
)

// Media types used by the composer.
const (
	textPlain            = "text/plain"
	textHTML             = "text/html"
	messageRFC822        = "message/rfc822"
	applicationOctets    = "application/octet-stream"
	multipartAlternative = "multipart/alternative"
	multipartRelated     = "multipart/related"
	multipartMixed       = "multipart/mixed"

	dispositionAttachment = "attachment"
	dispositionInline     = "inline"
)

// decodeContent turns attachment content into the bytes it stands for.
func decodeContent(content []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return content, nil
	case "base64":
		clean := bytes.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '\r', '\n':
				return -1
			}
			return r
		}, content)
		out := make([]byte, base64.RawStdEncoding.DecodedLen(len(clean)))
		n, err := base64.StdEncoding.Decode(out, clean)
		if err != nil {
			if n, err = base64.RawStdEncoding.Decode(out, bytes.TrimRight(clean, "=")); err != nil {
				return nil, fmt.Errorf("attachment content is not base64: %w", err)
			}
		}
		return out[:n], nil
	case "hex":
		out := make([]byte, hex.DecodedLen(len(content)))
		n, err := hex.Decode(out, bytes.TrimSpace(content))
		if err != nil {
			return nil, fmt.Errorf("attachment content is not hex: %w", err)
		}
		return out[:n], nil
	case "binary", "latin1":
		if !utf8.Valid(content) {
			return content, nil
		}
		out, err := charmap.ISO8859_1.NewEncoder().Bytes(content)
		if err != nil {
			return nil, fmt.Errorf("attachment content is not latin1: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
}

// toCRLF normalizes every line break to CRLF.
func toCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func textPart(mediaType, body string) message.Part {
	body = toCRLF(body)

	b := message.NewBuffer()
	b.SetParamValue(header.ContentType,
		param.New(mediaType, map[string]string{param.Charset: "utf-8"}))
	b.Set(header.ContentTransferEncoding, transfer.ForText([]byte(body)))
	_, _ = b.WriteString(body)
	return b.Opaque()
}

func attachmentType(a *Attachment) string {
	if a.ContentType != "" {
		return a.ContentType
	}
	if t := mime.TypeByExtension(path.Ext(a.Filename)); t != "" {
		return t
	}
	return applicationOctets
}

func attachmentDisposition(a *Attachment) string {
	if a.ContentDisposition != "" {
		return strings.ToLower(a.ContentDisposition)
	}
	return dispositionAttachment
}

// isRelated is true for inline attachments referenced from the HTML body.
func isRelated(a *Attachment) bool {
	return a.ContentID != "" && attachmentDisposition(a) == dispositionInline
}

// setAttachmentHeader writes the content type and disposition fields, with
// the file name on both.
func setAttachmentHeader(h *header.Header, a *Attachment, mediaType string) {
	ct, err := param.Parse(mediaType)
	if err != nil {
		ct = param.New(applicationOctets, nil)
	}
	cd := param.New(attachmentDisposition(a), nil)
	if a.Filename != "" {
		ct = ct.With(param.Name, a.Filename)
		cd = cd.With(param.Filename, a.Filename)
	}

	h.SetParamValue(header.ContentType, ct)
	h.SetParamValue(header.ContentDisposition, cd)
	if a.ContentID != "" {
		h.Set(header.ContentID, NormalizeMessageID(a.ContentID))
	}
}

// attachmentPart builds the MIME part of a single attachment.
func attachmentPart(a *Attachment) (message.Part, error) {
	if a.Path != "" || a.Href != "" {
		return nil, fmt.Errorf("%w: %q", ErrContentAccess, a.Filename)
	}

	if len(a.Raw) > 0 {
		p, err := message.Split(bytes.NewReader(a.Raw), message.AsSubpart())
		if err != nil {
			return nil, fmt.Errorf("unable to read raw attachment: %w", err)
		}
		return p, nil
	}

	content, err := decodeContent(a.Content, a.Encoding)
	if err != nil {
		return nil, err
	}

	mediaType := attachmentType(a)
	b := message.NewBuffer()
	setAttachmentHeader(&b.Header, a, mediaType)

	if a.Encoding != "" && strings.HasPrefix(strings.ToLower(mediaType), messageRFC822) {
		// embedded messages are inserted as they are
		cte := transfer.Bit7
		if !transfer.IsASCII(content) {
			cte = transfer.Bit8
		}
		b.Set(header.ContentTransferEncoding, cte)
		_, _ = b.Write(content)
		return b.OpaqueAlreadyEncoded(), nil
	}

	b.Set(header.ContentTransferEncoding, transfer.Base64)
	_, _ = b.Write(content)
	return b.Opaque(), nil
}

// body builds the MIME tree of the message: the text and HTML alternatives,
// inline images related to the HTML, and attachments.
func (o *options) body(req *Request, bounds *message.Boundaries) (message.Part, error) {
	var related, mixed []message.Part
	for i := range req.Attachments {
		a := &req.Attachments[i]
		p, err := attachmentPart(a)
		if err != nil {
			return nil, err
		}

		if req.HTML != "" && isRelated(a) {
			related = append(related, p)
		} else {
			mixed = append(mixed, p)
		}
	}

	var htmlPart message.Part
	if req.HTML != "" {
		html := req.HTML
		if req.PreviewText != "" {
			html = preview.Inject(html, req.PreviewText)
		}

		htmlPart = textPart(textHTML, html)
		if len(related) > 0 {
			htmlPart = message.NewMultipart(multipartRelated, bounds.Next(),
				append([]message.Part{htmlPart}, related...)...)
		}
	}

	var content message.Part
	switch {
	case req.Text != "" && htmlPart != nil:
		content = message.NewMultipart(multipartAlternative, bounds.Next(),
			textPart(textPlain, req.Text), htmlPart)
	case htmlPart != nil:
		content = htmlPart
	case req.Text != "" || len(mixed) == 0:
		content = textPart(textPlain, req.Text)
	}

	if len(mixed) == 0 {
		return content, nil
	}

	parts := mixed
	if content != nil {
		parts = append([]message.Part{content}, mixed...)
	}
	return message.NewMultipart(multipartMixed, bounds.Next(), parts...), nil
}

// compose builds a new message from the request.
func (o *options) compose(req *Request) (*Result, error) {
	rc := o.rewriteContext()
	now := rc.now()

	res := &Result{
		HasBcc:           len(req.Bcc) > 0,
		Subject:          req.Subject,
		SendAt:           req.SendAt,
		DeliveryAttempts: req.DeliveryAttempts,
		Gateway:          req.Gateway,
		TrackingEnabled:  req.TrackingEnabled,
	}
	res.track(req)

	if req.Envelope != nil {
		res.Envelope = req.Envelope.Normalize()
	} else {
		res.Envelope = envelope.Resolve(req.From, req.To, req.Cc, req.Bcc)
	}

	if req.MessageID != "" {
		res.MessageID = NormalizeMessageID(req.MessageID)
	} else {
		res.MessageID = rc.generateMessageID(res.Envelope.From)
	}

	date := req.Date
	if date.IsZero() {
		date = req.SendAt
	}
	if date.IsZero() {
		date = now
	}

	top := &header.Header{}
	top.SetBreak(header.CRLF)

	if rc.License != nil {
		m, err := rc.License.Marker(now)
		if err != nil {
			return nil, err
		}
		top.Add(header.XEeSid, m, header.AtEnd)
	}

	for _, hf := range req.Headers {
		name := header.CanonicalName(hf.Name)
		if name == "" || strings.ContainsAny(name, ": \t\r\n") {
			continue
		}
		top.Add(name, stripLineBreaks(hf.Value), header.AtEnd)
	}

	if e, ok := req.From.First(); ok {
		top.Set(header.From, e.String())
	}
	for _, af := range []addressField{
		{header.To, req.To},
		{header.Cc, req.Cc},
		{header.Bcc, req.Bcc},
		{header.ReplyTo, req.ReplyTo},
	} {
		if len(af.list) > 0 {
			top.Set(af.name, af.list.String())
		}
	}

	if req.Subject != "" {
		top.Set(header.Subject, field.EncodeWords(stripLineBreaks(req.Subject), field.DefaultWordLength))
	}
	top.Set(header.MessageID, res.MessageID)
	top.Set(header.Date, FormatDate(date))
	top.Set(header.MIMEVersion, "1.0")

	bounds := message.NewBoundaries(o.boundaryPrefix)
	root, err := o.body(req, bounds)
	if err != nil {
		return nil, err
	}

	h := root.GetHeader()
	for i, f := range top.ListFields() {
		h.InsertBeforeField(i, f.Name(), f.Body())
	}

	var buf bytes.Buffer
	if _, err := root.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("unable to write composed message: %w", err)
	}
	res.Raw = buf.Bytes()

	o.logger.Debug("composed message",
		"message_id", res.MessageID,
		"attachments", len(req.Attachments),
		"size", len(res.Raw),
	)

	return res, nil
}
