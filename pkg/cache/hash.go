package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// hashKey builds "prefix:sha256(json(parts))".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// keyType is the key's leading segment ("run", "artifact"), used to label
// cache hooks. Scoped prefixes are skipped.
func keyType(key string) string {
	for _, t := range []string{"run:", "artifact:"} {
		if strings.Contains(key, t) {
			return strings.TrimSuffix(t, ":")
		}
	}
	return "other"
}
