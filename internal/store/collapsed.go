package store

import (
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// CollapsedStore persists the collapsed-group map across restarts. Keys are
// independent of task/event identity, so entries never need invalidation:
// keys for groups that no longer render are simply unused.
type CollapsedStore struct {
	d *diskv.Diskv
}

// OpenCollapsed opens (creating if needed) the collapsed-state store under
// basePath.
func OpenCollapsed(basePath string) *CollapsedStore {
	return &CollapsedStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 64 * 1024,
	})}
}

// Load reads every persisted key. Unreadable entries are skipped.
func (c *CollapsedStore) Load() map[string]bool {
	out := make(map[string]bool)
	for key := range c.d.Keys(nil) {
		val, err := c.d.Read(key)
		if err != nil {
			continue
		}
		out[decodeKey(key)] = string(val) == "1"
	}
	return out
}

// Set writes one group key through to disk. Errors are ignored: collapse
// state is a convenience, not data.
func (c *CollapsedStore) Set(key string, collapsed bool) {
	val := "0"
	if collapsed {
		val = "1"
	}
	_ = c.d.Write(encodeKey(key), []byte(val))
}

// Group keys contain slashes (file paths, slot timestamps); diskv keys
// must not.
func encodeKey(key string) string { return strings.ReplaceAll(key, "/", "\x01") }
func decodeKey(key string) string { return strings.ReplaceAll(key, "\x01", "/") }
