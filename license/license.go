// Package license builds the license marker written to the X-Ee-Sid header of
// outgoing messages.
package license

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Unlicensed is the marker written when license information is present but
// carries no key.
const Unlicensed = "UNLICENSED_COPY"

// NonceLength is the number of random bytes in each marker.
const NonceLength = 4

// ErrBadKey is returned when the license key is not valid hex.
var ErrBadKey = errors.New("license key is not hex encoded")

// Info is the license information a message is marked with.
type Info struct {
	// Key is the hex encoded license key.
	Key string `yaml:"key" json:"key"`
}

type marker struct {
	Nonce []byte `msgpack:"n"`
	Time  int64  `msgpack:"t"`
	Key   []byte `msgpack:"l"`
}

// Marker returns the marker for a message sent at now. Each call produces a
// different marker. The marker is a msgpack map of a random nonce, the time in
// unix milliseconds, and the raw key bytes, base64url encoded without padding.
func (i *Info) Marker(now time.Time) (string, error) {
	if i.Key == "" {
		return Unlicensed, nil
	}

	key, err := hex.DecodeString(i.Key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadKey, err)
	}

	nonce := make([]byte, NonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("unable to generate license nonce: %w", err)
	}

	b, err := msgpack.Marshal(&marker{
		Nonce: nonce,
		Time:  now.UnixMilli(),
		Key:   key,
	})
	if err != nil {
		return "", fmt.Errorf("unable to encode license marker: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode reverses Marker. It returns the nonce, the time, and the hex encoded
// key held in the marker.
func Decode(m string) (nonce []byte, t time.Time, key string, err error) {
	b, err := base64.RawURLEncoding.DecodeString(m)
	if err != nil {
		return nil, time.Time{}, "", fmt.Errorf("license marker is not base64url: %w", err)
	}

	var mk marker
	if err := msgpack.Unmarshal(b, &mk); err != nil {
		return nil, time.Time{}, "", fmt.Errorf("unable to decode license marker: %w", err)
	}

	return mk.Nonce, time.UnixMilli(mk.Time), hex.EncodeToString(mk.Key), nil
}
