// Package prepare readies email messages for a transport. A raw message has
// its header normalized and its private delivery headers stripped, while the
// body is passed through untouched. A message described by its parts is
// composed from scratch. Either way the caller gets the message along with
// the envelope, message id, and delivery settings derived from it.
package prepare
