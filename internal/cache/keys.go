package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

const GlobalKeyPrefix = "wikiquiz"

// GenerateCacheKey builds a namespaced cache key for a given object type
// and identifier.
func GenerateCacheKey(objectType, identifier string) string {
	return strings.Join([]string{GlobalKeyPrefix, objectType, identifier}, ":")
}

// QuizByIDKey is the cache key for a full quiz record looked up by id.
func QuizByIDKey(id int64) string {
	return GenerateCacheKey("quiz", strconv.FormatInt(id, 10))
}

// QuizByURLKey is the cache key for a full quiz record looked up by source
// URL. The URL is hashed so arbitrary characters never leak into key space.
func QuizByURLKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return GenerateCacheKey("quiz_url", hex.EncodeToString(sum[:]))
}
