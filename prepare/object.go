package prepare

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	gomessage "github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/zostay/go-rawmail/address"
	"github.com/zostay/go-rawmail/message/header"
)

// Object is the structured form of a prepared message.
type Object struct {
	From       *address.Entry `yaml:"from,omitempty" json:"from,omitempty"`
	To         address.List   `yaml:"to,omitempty" json:"to,omitempty"`
	Cc         address.List   `yaml:"cc,omitempty" json:"cc,omitempty"`
	Bcc        address.List   `yaml:"bcc,omitempty" json:"bcc,omitempty"`
	ReplyTo    address.List   `yaml:"replyTo,omitempty" json:"replyTo,omitempty"`
	Subject    string         `yaml:"subject,omitempty" json:"subject,omitempty"`
	MessageID  string         `yaml:"messageId,omitempty" json:"messageId,omitempty"`
	InReplyTo  string         `yaml:"inReplyTo,omitempty" json:"inReplyTo,omitempty"`
	References []string       `yaml:"references,omitempty" json:"references,omitempty"`
	Date       time.Time      `yaml:"date,omitempty" json:"date,omitempty"`
	Text       string         `yaml:"text,omitempty" json:"text,omitempty"`
	HTML       string         `yaml:"html,omitempty" json:"html,omitempty"`

	Attachments []ObjectAttachment `yaml:"attachments,omitempty" json:"attachments,omitempty"`
}

// ObjectAttachment is a non-body part of a parsed message. Content is always
// base64 encoded.
type ObjectAttachment struct {
	Filename           string `yaml:"filename,omitempty" json:"filename,omitempty"`
	ContentType        string `yaml:"contentType" json:"contentType"`
	ContentDisposition string `yaml:"contentDisposition,omitempty" json:"contentDisposition,omitempty"`
	ContentID          string `yaml:"contentId,omitempty" json:"contentId,omitempty"`
	CID                string `yaml:"cid,omitempty" json:"cid,omitempty"`
	Content            string `yaml:"content" json:"content"`
	Encoding           string `yaml:"encoding" json:"encoding"`
	Size               int    `yaml:"size" json:"size"`
	IsInline           bool   `yaml:"isInline" json:"isInline"`
}

func mailAddresses(h *mail.Header, name string) address.List {
	as, err := h.AddressList(name)
	if err != nil || len(as) == 0 {
		// go-message is stricter than the rewriter, so fall back on it
		raw := h.Get(name)
		if raw == "" {
			return nil
		}
		return address.Parse(raw)
	}

	l := make(address.List, 0, len(as))
	for _, a := range as {
		l = append(l, address.Entry{Name: a.Name, Address: a.Address})
	}
	return l
}

// tolerable reports whether a go-message error still left a usable result.
func tolerable(err error) bool {
	return err == nil || gomessage.IsUnknownCharset(err) || gomessage.IsUnknownEncoding(err)
}

// ParseObject parses a raw message into its structured form.
func ParseObject(raw []byte, logger *slog.Logger) (*Object, error) {
	if logger == nil {
		logger = slog.Default()
	}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if !tolerable(err) {
		return nil, fmt.Errorf("unable to parse message: %w", err)
	}
	defer mr.Close()

	h := &mr.Header
	obj := &Object{
		To:      mailAddresses(h, header.To),
		Cc:      mailAddresses(h, header.Cc),
		Bcc:     mailAddresses(h, header.Bcc),
		ReplyTo: mailAddresses(h, header.ReplyTo),
	}

	if from, ok := mailAddresses(h, header.From).First(); ok {
		obj.From = &from
	}

	if obj.Subject, err = h.Subject(); err != nil {
		obj.Subject = h.Get(header.Subject)
	}
	if id, err := h.MessageID(); err == nil && id != "" {
		obj.MessageID = "<" + id + ">"
	}
	if ids, err := h.MsgIDList(header.InReplyTo); err == nil && len(ids) > 0 {
		obj.InReplyTo = "<" + ids[0] + ">"
	}
	if ids, err := h.MsgIDList(header.References); err == nil {
		for _, id := range ids {
			obj.References = append(obj.References, "<"+id+">")
		}
	}
	if d, err := h.Date(); err == nil {
		obj.Date = d
	}

	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if !tolerable(err) || p == nil {
			return nil, fmt.Errorf("unable to read message part: %w", err)
		}
		if err != nil {
			logger.Debug("reading part with unknown encoding", "error", err)
		}

		body, err := io.ReadAll(p.Body)
		if err != nil {
			return nil, fmt.Errorf("unable to read message part: %w", err)
		}

		switch ph := p.Header.(type) {
		case *mail.InlineHeader:
			ct, _, _ := ph.ContentType()
			switch {
			case ct == textPlain && obj.Text == "":
				obj.Text = string(body)
				continue
			case ct == textHTML && obj.HTML == "":
				obj.HTML = string(body)
				continue
			}
			obj.Attachments = append(obj.Attachments, objectAttachment(&ph.Header, "", body))
		case *mail.AttachmentHeader:
			filename, _ := ph.Filename()
			obj.Attachments = append(obj.Attachments, objectAttachment(&ph.Header, filename, body))
		}
	}

	return obj, nil
}

func objectAttachment(h *gomessage.Header, filename string, body []byte) ObjectAttachment {
	ct, params, err := h.ContentType()
	if err != nil || ct == "" {
		ct = applicationOctets
	}
	if filename == "" {
		filename = params["name"]
	}

	disp, dparams, _ := h.ContentDisposition()
	if filename == "" {
		filename = dparams["filename"]
	}

	cid := strings.TrimSpace(h.Get(header.ContentID))
	return ObjectAttachment{
		Filename:           filename,
		ContentType:        ct,
		ContentDisposition: disp,
		ContentID:          cid,
		CID:                cid,
		Content:            base64.StdEncoding.EncodeToString(body),
		Encoding:           "base64",
		Size:               len(body),
		IsInline:           disp == dispositionInline,
	}
}
