package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedFetcher_ReusesFreshEntry(t *testing.T) {
	var calls atomic.Int32
	f := NewCachedFetcher(nil, time.Minute)
	now := time.Unix(1000, 0)
	f.now = func() time.Time { return now }
	f.fetch = func(_ context.Context, u string, _ *Options) (*Page, error) {
		calls.Add(1)
		return &Page{URL: u, Text: "posting"}, nil
	}

	p1, err := f.Posting(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	p2, err := f.Posting(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.Equal(t, int32(1), calls.Load())

	now = now.Add(2 * time.Minute)
	_, err = f.Posting(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "expired entries are refetched")

	f.Invalidate("https://example.com/a")
	_, err = f.Posting(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCachedFetcher_CollapsesConcurrentFetches(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	f := NewCachedFetcher(nil, time.Minute)
	f.fetch = func(_ context.Context, u string, _ *Options) (*Page, error) {
		calls.Add(1)
		<-release
		return &Page{URL: u}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.Posting(context.Background(), "https://example.com/b")
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestCachedFetcher_ErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	f := NewCachedFetcher(nil, time.Minute)
	f.fetch = func(_ context.Context, u string, _ *Options) (*Page, error) {
		calls.Add(1)
		return nil, &Error{URL: u, Message: "HTTP status 500"}
	}

	_, err := f.Posting(context.Background(), "https://example.com/c")
	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	_, _ = f.Posting(context.Background(), "https://example.com/c")
	assert.Equal(t, int32(2), calls.Load())
}

func TestCachedFetcher_SweepsExpiredOnInsert(t *testing.T) {
	f := NewCachedFetcher(nil, time.Minute)
	now := time.Unix(1000, 0)
	f.now = func() time.Time { return now }
	f.fetch = func(_ context.Context, u string, _ *Options) (*Page, error) {
		return &Page{URL: u}, nil
	}

	for _, u := range []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"} {
		_, err := f.Posting(context.Background(), u)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.Len())

	now = now.Add(2 * time.Minute)
	_, err := f.Posting(context.Background(), "https://example.com/4")
	require.NoError(t, err)
	assert.Equal(t, 1, f.Len(), "expired postings are dropped when a new one is stored")
}

func TestCachedFetcher_EvictsWhenFull(t *testing.T) {
	var calls atomic.Int32
	f := NewCachedFetcher(nil, time.Minute)
	f.maxEntries = 2
	now := time.Unix(1000, 0)
	f.now = func() time.Time { return now }
	f.fetch = func(_ context.Context, u string, _ *Options) (*Page, error) {
		calls.Add(1)
		return &Page{URL: u}, nil
	}

	for _, u := range []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"} {
		_, err := f.Posting(context.Background(), u)
		require.NoError(t, err)
		now = now.Add(time.Second)
	}
	assert.Equal(t, 2, f.Len())

	// The oldest entry was evicted; the newest is still cached.
	_, err := f.Posting(context.Background(), "https://example.com/c")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	_, err = f.Posting(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, int32(4), calls.Load())
}
