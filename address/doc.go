// Package address turns address header bodies into flat lists of mailboxes and
// back. Parsing prefers the strict RFC 5322 grammar of go-addr and falls back
// to something far more forgiving, so every header yields some result.
package address
