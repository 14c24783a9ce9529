package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// digestKey returns "kind:<hex>" where hex is the SHA-256 of the parts, each
// printed with %v and NUL-terminated so that ("1", "23") and ("12", "3")
// never collide.
func digestKey(kind string, parts ...any) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%v\x00", p)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. FileCache uses it to name entry
// files, sharding on the first two characters.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
