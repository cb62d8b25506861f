package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a "prefix:digest" cache key from the given components.
// Components are JSON-marshaled before hashing, so structs contribute every
// field that serializes.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Full SHA-256 digest: transpile keys must never collide, since a hit
	// is returned without recompiling.
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the SHA-256 digest of data as a 64-character hex string.
// Callers use it to fingerprint serialized circuits.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
