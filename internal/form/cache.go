package form

import (
	"crypto/md5"
	"encoding/hex"
)

const extensionFoldersCacheKey = "formAccessibleExtensionFolders"

// RuntimeCache is the per-request cache. It avoids re-parsing a document that
// is loaded twice within one call tree and is never shared across requests.
type RuntimeCache struct {
	entries map[string]any
}

// NewRuntimeCache 요청 단위 캐시 생성
func NewRuntimeCache() *RuntimeCache {
	return &RuntimeCache{entries: make(map[string]any)}
}

func (c *RuntimeCache) Get(key string) (any, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *RuntimeCache) Set(key string, value any) {
	c.entries[key] = value
}

func (c *RuntimeCache) Delete(key string) {
	delete(c.entries, key)
}

// Flush drops every entry
func (c *RuntimeCache) Flush() {
	c.entries = make(map[string]any)
}

func loadCacheKey(persistenceIdentifier string) string {
	sum := md5.Sum([]byte(persistenceIdentifier))
	return "formLoad" + hex.EncodeToString(sum[:])
}
