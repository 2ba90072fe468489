package cache

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Key builds a cache key from a content hash, an operation name, and a
// parameter digest, per spec §3's Cache entry definition
// ("content hash + operation name + parameter digest").
func Key(contentHash uint64, operation string, params ...string) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(contentHash, 36))
	b.WriteByte(':')
	b.WriteString(operation)
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(ParamDigest(params...), 36))
	return b.String()
}

// ParamDigest hashes an ordered list of parameters into a single uint64,
// used both for cache keys and as the "universe digest" §4.5 memoizes
// fuzzy-match calls by.
func ParamDigest(params ...string) uint64 {
	h := xxhash.New()
	for _, p := range params {
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// HashBytes returns the content hash used for FileRecord.ContentHash.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// HashString is HashBytes for strings, avoiding a copy.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}
