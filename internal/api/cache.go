package api

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// ProfileCache stores encoded profiles for the read operations. Implemented by
// the file and redis stores in internal/cache.
type ProfileCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// cacheScope namespaces cache keys per server so two base URLs never share
// entries.
func cacheScope(baseURL string) string {
	sum := sha1.Sum([]byte(strings.TrimSuffix(baseURL, "/")))
	return hex.EncodeToString(sum[:6])
}

func profileIDKey(scope string, role Role, userID UserID) string {
	return scope + ":" + string(role) + ":id:" + userID.String()
}

// profileEmailKey uses the email verbatim: the server matches emails exactly.
func profileEmailKey(scope string, role Role, email string) string {
	return scope + ":" + string(role) + ":email:" + email
}
