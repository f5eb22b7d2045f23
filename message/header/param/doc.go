// Package param handles parameterized header field bodies, such as those found
// in Content-Type and Content-Disposition, and breaks MIME types down into their
// type and subtype.
package param
