package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// FeedKey generates a deterministic cache key for a fetch against one
// endpoint. The query parameters are sorted so map iteration order cannot
// produce different keys for the same request.
//
// Format: feed:<endpointID>:<path>:<hash>
// where hash is the first 16 hex characters of SHA-256 over the sorted query.
func FeedKey(endpointID, path string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
		b.WriteByte('&')
	}

	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("feed:%s:%s:%s", endpointID, strings.Trim(path, "/"), hex.EncodeToString(hash[:8]))
}
