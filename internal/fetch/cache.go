package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a fetched posting is reused.
const DefaultCacheTTL = 15 * time.Minute

// MaxCacheEntries bounds how many postings are held at once.
const MaxCacheEntries = 256

// PostingFunc fetches a posting. Posting satisfies it.
type PostingFunc func(ctx context.Context, urlStr string, opts *Options) (*Page, error)

// CachedFetcher remembers recent postings and collapses concurrent fetches of
// the same URL into one request.
type CachedFetcher struct {
	options *Options
	ttl     time.Duration
	fetch   PostingFunc
	now     func() time.Time

	group      singleflight.Group
	mu         sync.Mutex
	entries    map[string]cacheEntry
	maxEntries int
}

type cacheEntry struct {
	page    *Page
	expires time.Time
}

// NewCachedFetcher creates a cached fetcher. A zero ttl uses DefaultCacheTTL.
func NewCachedFetcher(opts *Options, ttl time.Duration) *CachedFetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedFetcher{
		options:    opts,
		ttl:        ttl,
		fetch:      Posting,
		now:        time.Now,
		entries:    make(map[string]cacheEntry),
		maxEntries: MaxCacheEntries,
	}
}

// Posting returns the posting at urlStr from cache when fresh.
func (f *CachedFetcher) Posting(ctx context.Context, urlStr string) (*Page, error) {
	if page := f.lookup(urlStr); page != nil {
		return page, nil
	}

	v, err, _ := f.group.Do(urlStr, func() (any, error) {
		// Detach so one caller's cancellation does not fail the others.
		page, err := f.fetch(context.WithoutCancel(ctx), urlStr, f.options)
		if err != nil {
			return nil, err
		}
		f.store(urlStr, page)
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Page), nil
}

// Invalidate drops a cached posting.
func (f *CachedFetcher) Invalidate(urlStr string) {
	f.mu.Lock()
	delete(f.entries, urlStr)
	f.mu.Unlock()
}

func (f *CachedFetcher) lookup(urlStr string) *Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[urlStr]
	if !ok {
		return nil
	}
	if f.now().After(e.expires) {
		delete(f.entries, urlStr)
		return nil
	}
	return e.page
}

// store inserts a posting, first dropping expired entries and, when still
// full, the entry closest to expiry.
func (f *CachedFetcher) store(urlStr string, page *Page) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	for k, e := range f.entries {
		if now.After(e.expires) {
			delete(f.entries, k)
		}
	}
	for f.maxEntries > 0 && len(f.entries) >= f.maxEntries {
		var oldest string
		var oldestExp time.Time
		for k, e := range f.entries {
			if oldest == "" || e.expires.Before(oldestExp) {
				oldest, oldestExp = k, e.expires
			}
		}
		delete(f.entries, oldest)
	}
	f.entries[urlStr] = cacheEntry{page: page, expires: now.Add(f.ttl)}
}

// Len reports how many postings are cached.
func (f *CachedFetcher) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
