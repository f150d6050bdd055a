package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash computes the SHA-256 content hash of data as a 64-character hex
// string. The pipeline hashes the raw source file bytes with this, so editing
// the input invalidates every derived cache entry.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a cache key of the form prefix:hash(parts...). The parts are
// JSON-marshalled before hashing, which keeps float formatting stable across
// calls with equal values.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}
