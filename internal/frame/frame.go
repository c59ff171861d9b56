// Package frame splits and joins the wire frame exchanged between the fog
// and cloud tiers: encoded payload bytes, a literal "||" separator, and a
// JSON metadata object.
package frame

import (
	"bytes"
	"errors"
)

// Separator is the two-byte sequence dividing payload from metadata. It is
// not escaped: a payload that happens to contain it will split incorrectly
// on the first occurrence. This is a known, accepted limitation of the
// wire format, not a bug in the codec.
var Separator = []byte("||")

// ErrMalformed is returned when a frame has no separator.
var ErrMalformed = errors.New("frame: missing separator")

// Split divides frame into its payload and metadata-JSON halves at the
// first occurrence of Separator.
func Split(raw []byte) (payload, metadataJSON []byte, err error) {
	idx := bytes.Index(raw, Separator)
	if idx < 0 {
		return nil, nil, ErrMalformed
	}
	return raw[:idx], raw[idx+len(Separator):], nil
}

// Join concatenates payload and metadataJSON with Separator between them.
func Join(payload, metadataJSON []byte) []byte {
	out := make([]byte, 0, len(payload)+len(Separator)+len(metadataJSON))
	out = append(out, payload...)
	out = append(out, Separator...)
	out = append(out, metadataJSON...)
	return out
}
