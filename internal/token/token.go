// Package token encodes bookmark tokens: opaque strings a host hands
// back to resume paging where the previous page ended.
//
// A token carries the stable-key value of the last row served plus the
// view it was served from, msgpack-encoded, zstd-compressed and
// base64url-wrapped. Hosts must treat tokens as opaque.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel is the reserved bookmark meaning "no position": requests
// carrying it start from the beginning, responses carrying it have no
// further page.
const Sentinel = "<B/>"

// ErrInvalidBookmark reports a bookmark that is not a token this
// package produced.
var ErrInvalidBookmark = errors.New("invalid bookmark")

// payload is the token wire form.
type payload struct {
	View string `msgpack:"v"`
	Key  string `msgpack:"k"`
}

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

// Encode builds a bookmark token for a key served by a view.
func Encode(viewName, key string) (string, error) {
	raw, err := msgpack.Marshal(payload{View: viewName, Key: key})
	if err != nil {
		return "", fmt.Errorf("encode bookmark: %w", err)
	}
	// EncodeAll is goroutine-safe on a shared encoder.
	packed := encoder.EncodeAll(raw, make([]byte, 0, len(raw)))
	return base64.URLEncoding.EncodeToString(packed), nil
}

// Decode recovers the key from a bookmark token. The token must have
// been issued for the named view; a token from another view fails with
// ErrInvalidBookmark.
func Decode(viewName, bookmark string) (string, error) {
	packed, err := base64.URLEncoding.DecodeString(bookmark)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBookmark, err)
	}
	raw, err := decoder.DecodeAll(packed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBookmark, err)
	}
	var p payload
	if err := msgpack.Unmarshal(raw, &p); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBookmark, err)
	}
	if p.View != viewName {
		return "", fmt.Errorf("%w: issued for view %q", ErrInvalidBookmark, p.View)
	}
	return p.Key, nil
}
