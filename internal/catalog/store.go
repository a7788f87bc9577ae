package catalog

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// StoreOptions controls where the Store reads and refreshes the catalog.
type StoreOptions struct {
	// Path is the cache file.
	Path string
	// URL is the remote document used by Refresh. Defaults to DefaultURL.
	URL string
	// Timeout for the remote fetch. Default 30s.
	Timeout time.Duration
	// Client overrides the HTTP client (tests).
	Client *http.Client
	Log    zerolog.Logger
}

// Store owns the current catalog snapshot for one cache file. Refresh
// calls that overlap share a single download, so the cache file never has
// two concurrent writers.
type Store struct {
	opts    StoreOptions
	group   singleflight.Group
	mu      sync.RWMutex
	current *Catalog
}

// NewStore returns a Store; call Open before reading the catalog.
func NewStore(opts StoreOptions) *Store {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	return &Store{opts: opts}
}

// Path returns the cache file location.
func (s *Store) Path() string { return s.opts.Path }

// URL returns the remote catalog location.
func (s *Store) URL() string { return s.opts.URL }

// Open seeds the cache from the embedded copy if needed and loads it.
func (s *Store) Open(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seeded, err := EnsureCache(s.opts.Path)
	if err != nil {
		return nil, err
	}
	if seeded {
		s.opts.Log.Info().Str("path", s.opts.Path).Msg("seeded catalog cache from bundled copy")
	}
	c, err := Load(s.opts.Path)
	if err != nil {
		return nil, err
	}
	s.set(c)
	s.opts.Log.Debug().Int("recipes", c.Len()).Str("path", s.opts.Path).Msg("catalog loaded")
	return c, nil
}

// Refresh downloads the remote catalog, rewrites the cache file and swaps
// the in-memory snapshot. Callers that arrive while a refresh is running
// receive its result instead of starting another download.
func (s *Store) Refresh(ctx context.Context) (*Catalog, error) {
	v, err, shared := s.group.Do("refresh", func() (any, error) {
		s.opts.Log.Info().Str("url", s.opts.URL).Msg("refreshing catalog")
		return Refresh(ctx, s.opts.Client, s.opts.URL, s.opts.Path)
	})
	if err != nil {
		s.opts.Log.Error().Err(err).Str("url", s.opts.URL).Msg("catalog refresh failed")
		return nil, err
	}
	c := v.(*Catalog)
	s.set(c)
	if !shared {
		s.opts.Log.Info().Int("recipes", c.Len()).Msg("catalog updated")
	}
	return c, nil
}

// Catalog returns the current snapshot, or nil before Open.
func (s *Store) Catalog() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) set(c *Catalog) {
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
}
