package submit

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// ReleaseCache maps a release asset's id to its resolved remote identifier
// for the lifetime of the process. It is shared across all assets in a
// batch (and across batches against the same marketplace) so a release is
// never looked up or uploaded twice.
//
// Entries are write-once: the first successful resolution wins and later
// lookups are served from the cache. Although batch processing is
// single-threaded, the cache is safe for concurrent use and joins
// concurrent resolution attempts for the same key via singleflight, so a
// parallelized caller still cannot double-upload.
type ReleaseCache struct {
	mu      sync.RWMutex
	entries map[string]ResolvedRelease
	group   singleflight.Group
}

// NewReleaseCache creates an empty release cache.
func NewReleaseCache() *ReleaseCache {
	return &ReleaseCache{
		entries: make(map[string]ResolvedRelease),
	}
}

// Get returns the cached resolution for a release asset id, if present.
func (c *ReleaseCache) Get(releaseAssetID string) (ResolvedRelease, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resolved, ok := c.entries[releaseAssetID]
	return resolved, ok
}

// Resolve returns the cached resolution for the key or runs resolve to
// produce one. Concurrent callers for the same key share a single resolve
// invocation; a failed resolution is not cached and may be retried.
func (c *ReleaseCache) Resolve(releaseAssetID string, resolve func() (ResolvedRelease, error)) (ResolvedRelease, error) {
	if resolved, ok := c.Get(releaseAssetID); ok {
		return resolved, nil
	}

	result, err, _ := c.group.Do(releaseAssetID, func() (interface{}, error) {
		// Double-check after winning the flight: a previous flight may have
		// stored the entry between our Get and Do.
		if resolved, ok := c.Get(releaseAssetID); ok {
			return resolved, nil
		}

		resolved, err := resolve()
		if err != nil {
			return ResolvedRelease{}, err
		}

		c.mu.Lock()
		c.entries[releaseAssetID] = resolved
		c.mu.Unlock()

		return resolved, nil
	})
	if err != nil {
		return ResolvedRelease{}, err
	}
	return result.(ResolvedRelease), nil
}

// Len returns the number of cached resolutions.
func (c *ReleaseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
