// Package querycache memoizes CMS query results for the lifetime of the process.
//
// A result is fetched at most once per cache key unless a caller asks for a
// refresh. Entries are never evicted.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"church-site/internal/logger"
)

// defaultFetchTimeout stays under the web page timeout.
const defaultFetchTimeout = 8 * time.Second

// ErrUnmounted is returned by Handle.Wait when the handle was closed before
// its fetch settled.
var ErrUnmounted = errors.New("querycache: handle unmounted before fetch settled")

// Fetcher runs a query against the content backend.
type Fetcher interface {
	Fetch(ctx context.Context, query string, params map[string]any) (json.RawMessage, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, query string, params map[string]any) (json.RawMessage, error)

func (f FetcherFunc) Fetch(ctx context.Context, query string, params map[string]any) (json.RawMessage, error) {
	return f(ctx, query, params)
}

// Observer receives cache events, typically to export metrics.
type Observer interface {
	Hit()
	Miss()
	FetchError()
	Entries(n int)
}

type nopObserver struct{}

func (nopObserver) Hit()        {}
func (nopObserver) Miss()       {}
func (nopObserver) FetchError() {}
func (nopObserver) Entries(int) {}

// Cache is a process-wide query result cache.
type Cache struct {
	fetcher  Fetcher
	timeout  time.Duration
	observer Observer
	log      logger.Logger

	mu      sync.RWMutex
	entries map[string]json.RawMessage
	group   singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithObserver reports cache events to o.
func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// WithFetchTimeout bounds each backend fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) { c.timeout = d }
}

// New creates a cache backed by f. A nil f means no backend is configured:
// every request settles immediately with empty data and no error.
func New(f Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher:  f,
		timeout:  defaultFetchTimeout,
		observer: nopObserver{},
		log:      logger.NewNop(),
		entries:  make(map[string]json.RawMessage),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a backend fetcher is present.
func (c *Cache) Configured() bool {
	return c.fetcher != nil
}

// Key builds the cache key for a query: the query text followed by the
// JSON encoding of params. Nil params encode as {}.
func Key(query string, params map[string]any) (string, error) {
	if params == nil {
		return query + "{}", nil
	}
	encoded, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encoding query params: %w", err)
	}
	return query + string(encoded), nil
}

type useOptions struct {
	refresh bool
}

// UseOption configures a single request.
type UseOption func(*useOptions)

// WithRefresh re-fetches even when an entry is cached and replaces it on success.
func WithRefresh() UseOption {
	return func(o *useOptions) { o.refresh = true }
}

// Use requests the result for query and params and returns a handle whose
// state follows the request. Cancelling ctx unmounts the handle: the fetch
// still completes and fills the cache, but the handle is no longer updated.
func (c *Cache) Use(ctx context.Context, query string, params map[string]any, opts ...UseOption) *Handle {
	var o useOptions
	for _, opt := range opts {
		opt(&o)
	}

	h := newHandle()

	if c.fetcher == nil {
		h.settle(State{})
		return h
	}

	key, err := Key(query, params)
	if err != nil {
		h.settle(State{Err: err})
		return h
	}
	h.key = key

	cached, ok := c.lookup(key)
	if ok && !o.refresh {
		c.observer.Hit()
		h.settle(State{Data: cached})
		return h
	}
	c.observer.Miss()

	h.begin(State{Data: cached, IsLoading: true})
	h.stop = context.AfterFunc(ctx, h.Close)

	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetch(ctx, key, query, params, o.refresh)
	})
	go func() {
		res := <-ch
		if res.Err != nil {
			h.settle(State{Data: cached, Err: res.Err})
			return
		}
		h.settle(State{Data: res.Val.(json.RawMessage)})
	}()

	return h
}

// Get is the blocking form of Use.
func (c *Cache) Get(ctx context.Context, query string, params map[string]any, opts ...UseOption) (json.RawMessage, error) {
	st, err := c.Use(ctx, query, params, opts...).Wait(ctx)
	if err != nil {
		return nil, err
	}
	return st.Data, st.Err
}

// Peek returns the cached entry for query and params without fetching.
func (c *Cache) Peek(query string, params map[string]any) (json.RawMessage, bool) {
	key, err := Key(query, params)
	if err != nil {
		return nil, false
	}
	return c.lookup(key)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) fetch(ctx context.Context, key, query string, params map[string]any, refresh bool) (json.RawMessage, error) {
	// A concurrent request may have filled the entry between lookup and
	// joining the flight group.
	if !refresh {
		if data, ok := c.lookup(key); ok {
			return data, nil
		}
	}

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	start := time.Now()
	data, err := c.fetcher.Fetch(fctx, query, params)
	if err != nil {
		c.observer.FetchError()
		c.log.Warn("Query fetch failed",
			logger.String("key", key),
			logger.Duration("duration", time.Since(start)),
			logger.Err(err))
		return nil, err
	}

	c.set(key, data)
	c.log.Debug("Query fetched",
		logger.String("key", key),
		logger.Duration("duration", time.Since(start)),
		logger.Int("bytes", len(data)))
	return data, nil
}

func (c *Cache) lookup(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[key]
	return data, ok
}

func (c *Cache) set(key string, data json.RawMessage) {
	c.mu.Lock()
	c.entries[key] = data
	n := len(c.entries)
	c.mu.Unlock()
	c.observer.Entries(n)
}
