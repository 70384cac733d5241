package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// RequestKey derives a deterministic key for an HTTP request from its method,
// path and query. Query parameter order does not matter.
func RequestKey(method, path string, query url.Values) string {
	h := sha256.New()
	h.Write([]byte(strings.ToUpper(strings.TrimSpace(method))))
	h.Write([]byte{0})
	h.Write([]byte("/" + strings.Trim(path, "/")))
	h.Write([]byte{0})
	h.Write([]byte(query.Encode()))
	return hex.EncodeToString(h.Sum(nil))
}
