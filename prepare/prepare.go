package prepare

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zostay/go-rawmail/message"
	"github.com/zostay/go-rawmail/message/header"
	_ "github.com/zostay/go-rawmail/message/header/encoding"
)

// ErrNoRequest is returned when GetRawEmail is called without a request.
var ErrNoRequest = errors.New("no message request given")

// ErrBadRaw is returned when RawBase64 is not valid base64.
var ErrBadRaw = errors.New("raw message is not base64 encoded")

// GetRawEmail prepares a message for delivery.
//
// When the request carries a raw message, the header of that message is
// rewritten with RewriteHeader and the body is passed through untouched.
// Otherwise a new message is composed from the request.
//
// No partial result is returned on error.
func GetRawEmail(req *Request, opts ...Option) (*Result, error) {
	if req == nil {
		return nil, ErrNoRequest
	}

	o := newOptions(opts)

	raw := req.Raw
	if raw == nil && req.RawBase64 != "" {
		var err error
		raw, err = base64.StdEncoding.DecodeString(req.RawBase64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRaw, err)
		}
	}

	var (
		res *Result
		err error
	)
	if raw != nil {
		res, err = o.rewrite(req, raw)
	} else {
		res, err = o.compose(req)
	}
	if err != nil {
		return nil, err
	}

	if o.returnObject {
		res.Object, err = ParseObject(res.Raw, o.logger)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

// rewrite updates the header of a raw message.
func (o *options) rewrite(req *Request, raw []byte) (*Result, error) {
	rc := o.rewriteContext()

	var res *Result
	out, err := message.RewriteBytes(raw, func(h *header.Header) (*header.Header, error) {
		nh, r, err := RewriteHeader(h, req, rc)
		res = r
		return nh, err
	})
	if err != nil {
		o.logger.Debug("unable to rewrite message", "error", err)
		return nil, err
	}

	res.Raw = out
	return res, nil
}
