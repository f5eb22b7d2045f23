package transfer

import (
	"encoding/base64"
	"io"
)

const defaultBase64LineLength = 76

var defaultBase64LineBreak = []byte("\r\n")

// newlineWriter breaks the output into lines of at most every bytes.
type newlineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (nw *newlineWriter) Write(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if nw.acc == nw.every {
			if _, err := nw.w.Write(nw.lbr); err != nil {
				return n, err
			}
			nw.acc = 0
		}

		take := nw.every - nw.acc
		if take > len(b) {
			take = len(b)
		}

		ln, err := nw.w.Write(b[:take])
		n += ln
		nw.acc += ln
		if err != nil {
			return n, err
		}
		b = b[take:]
	}

	return n, nil
}

// Close terminates the last line.
func (nw *newlineWriter) Close() error {
	if nw.acc == 0 {
		return nil
	}
	nw.acc = 0
	_, err := nw.w.Write(nw.lbr)
	return err
}

type base64Writer struct {
	enc io.WriteCloser
	nw  *newlineWriter
}

func (bw *base64Writer) Write(p []byte) (int, error) {
	return bw.enc.Write(p)
}

func (bw *base64Writer) Close() error {
	if err := bw.enc.Close(); err != nil {
		return err
	}
	return bw.nw.Close()
}

// NewBase64Encoder will translate all bytes written to the returned
// io.WriteCloser into base64 encoding and write those to the given io.Writer
// in lines of 76 characters, each terminated by lbr. A nil lbr means CRLF.
func NewBase64Encoder(w io.Writer, lbr []byte) io.WriteCloser {
	if len(lbr) == 0 {
		lbr = defaultBase64LineBreak
	}

	nw := &newlineWriter{
		every: defaultBase64LineLength,
		lbr:   lbr,
		w:     w,
	}
	return &base64Writer{base64.NewEncoder(base64.StdEncoding, nw), nw}
}
