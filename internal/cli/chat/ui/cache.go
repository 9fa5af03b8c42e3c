package ui

import (
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// renderCache memoizes styled turn blocks. Turns are append-only and
// immutable, so a block only re-renders when the width or theme changes.
type renderCache struct {
	entries sync.Map
	size    atomic.Int64
	maxSize int64
}

func newRenderCache(maxSize int64) *renderCache {
	return &renderCache{maxSize: maxSize}
}

// computeKey hashes the key parts with a NUL separator so adjacent
// parts can't collide by concatenation.
func computeKey(parts ...string) uint64 {
	h := xxh3.New()
	for _, p := range parts {
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

func (rc *renderCache) get(key uint64) (string, bool) {
	if val, ok := rc.entries.Load(key); ok {
		return val.(string), true
	}
	return "", false
}

func (rc *renderCache) set(key uint64, content string) {
	// Overwriting an existing key must not count against the bound, or
	// re-rendering the same turns would trigger early eviction.
	if _, exists := rc.entries.Load(key); exists {
		rc.entries.Store(key, content)
		return
	}
	if rc.size.Add(1) > rc.maxSize {
		rc.clear()
		rc.size.Store(1)
	}
	rc.entries.Store(key, content)
}

func (rc *renderCache) clear() {
	rc.entries.Range(func(key, _ any) bool {
		rc.entries.Delete(key)
		return true
	})
	rc.size.Store(0)
}

// getOrCompute returns the cached block or renders and stores it.
func (rc *renderCache) getOrCompute(key uint64, render func() string) string {
	if content, ok := rc.get(key); ok {
		return content
	}
	content := render()
	rc.set(key, content)
	return content
}
