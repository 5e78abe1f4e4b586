package submit

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseCache_WriteOnce(t *testing.T) {
	cache := NewReleaseCache()

	var calls int
	first, err := cache.Resolve("rel-1", func() (ResolvedRelease, error) {
		calls++
		return ResolvedRelease{RemoteID: "100"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "100", first.RemoteID)

	// The second resolution for the same key is served from the cache and
	// the resolver must not run again.
	second, err := cache.Resolve("rel-1", func() (ResolvedRelease, error) {
		calls++
		return ResolvedRelease{RemoteID: "999"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "100", second.RemoteID)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestReleaseCache_FailureNotCached(t *testing.T) {
	cache := NewReleaseCache()

	_, err := cache.Resolve("rel-1", func() (ResolvedRelease, error) {
		return ResolvedRelease{}, errors.New("upload failed")
	})
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	// A later attempt may retry and succeed.
	resolved, err := cache.Resolve("rel-1", func() (ResolvedRelease, error) {
		return ResolvedRelease{RemoteID: "7"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "7", resolved.RemoteID)
}

// TestReleaseCache_ResolveOrJoin verifies that concurrent resolution
// attempts for the same release id share a single resolver invocation, so
// a parallelized pipeline cannot double-upload a release.
func TestReleaseCache_ResolveOrJoin(t *testing.T) {
	cache := NewReleaseCache()

	var invocations int32
	gate := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]ResolvedRelease, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			resolved, err := cache.Resolve("rel-shared", func() (ResolvedRelease, error) {
				atomic.AddInt32(&invocations, 1)
				<-gate
				return ResolvedRelease{RemoteID: "42"}, nil
			})
			assert.NoError(t, err)
			results[idx] = resolved
		}(i)
	}

	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), invocations)
	for _, resolved := range results {
		assert.Equal(t, "42", resolved.RemoteID)
	}
}

func TestReleaseCache_Get(t *testing.T) {
	cache := NewReleaseCache()
	_, ok := cache.Get("missing")
	assert.False(t, ok)

	_, err := cache.Resolve("rel-1", func() (ResolvedRelease, error) {
		return ResolvedRelease{RemoteID: "5", Kind: "model"}, nil
	})
	require.NoError(t, err)

	resolved, ok := cache.Get("rel-1")
	assert.True(t, ok)
	assert.Equal(t, "5", resolved.RemoteID)
}
