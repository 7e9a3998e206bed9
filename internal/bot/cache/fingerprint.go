package cache

import (
	"crypto/md5"
	"encoding/hex"
)

const responsePrefix = "cached-response-"

// Fingerprint derives the cache key of a fully-qualified request URL.
func Fingerprint(url string) string {
	sum := md5.Sum([]byte(url))
	return responsePrefix + hex.EncodeToString(sum[:])
}
