package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/msto63/lexzig/foundation/lexzig"
)

// ResultCache is a specialized cache for analysis results keyed by source
// text and the engine settings that produced them
type ResultCache struct {
	cache       *Cache[*lexzig.Result]
	fingerprint string
}

// NewResultCache creates a result cache for one engine configuration
func NewResultCache(cfg Config, opts lexzig.Options) *ResultCache {
	return &ResultCache{
		cache:       New[*lexzig.Result](cfg),
		fingerprint: Fingerprint(opts),
	}
}

// Fingerprint identifies the options that change analysis output
func Fingerprint(opts lexzig.Options) string {
	check := "on"
	if opts.DisableLiteralCheck {
		check = "off"
	}
	return "depth=" + strconv.Itoa(opts.MaxDepth) + ",literal=" + check
}

// SourceKey generates a cache key for a source text
func SourceKey(fingerprint, source string) string {
	hash := sha256.Sum256([]byte(fingerprint + "|" + source))
	return "src:" + hex.EncodeToString(hash[:16])
}

// Get retrieves the cached result for source
func (c *ResultCache) Get(source string) (*lexzig.Result, bool) {
	return c.cache.Get(SourceKey(c.fingerprint, source))
}

// Set caches the result for source
func (c *ResultCache) Set(source string, result *lexzig.Result) {
	c.cache.Set(SourceKey(c.fingerprint, source), result)
}

// Stats returns cache statistics
func (c *ResultCache) Stats() Stats {
	return c.cache.Stats()
}

// Clear clears the cache
func (c *ResultCache) Clear() {
	c.cache.Clear()
}

// Close stops background cleanup
func (c *ResultCache) Close() {
	c.cache.Close()
}
