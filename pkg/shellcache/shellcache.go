// Package shellcache serves the register's web shell through a network-first
// caching proxy so the terminal keeps loading when the origin is unreachable.
package shellcache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"sync"
)

type entry struct {
	status int
	header http.Header
	body   []byte
}

// Record is one cached response as kept by a Backend.
type Record struct {
	Version string
	Key     string
	Header  http.Header
	Body    []byte
	Status  int
}

// Backend persists cache entries so they survive a restart.
type Backend interface {
	LoadAll(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
	DeleteVersions(ctx context.Context, versions []string) error
}

// Store holds named cache versions, each mapping request URIs to responses.
type Store struct {
	backend Backend
	caches  map[string]map[string]entry
	mu      sync.RWMutex
}

// NewStore creates a store that lives in memory only.
func NewStore() *Store {
	return &Store{caches: make(map[string]map[string]entry)}
}

// OpenStore creates a store backed by b and loads every persisted entry.
func OpenStore(ctx context.Context, b Backend) (*Store, error) {
	records, err := b.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shell cache: %w", err)
	}
	s := NewStore()
	s.backend = b
	for _, r := range records {
		s.putLocked(r.Version, r.Key, entry{status: r.Status, header: r.Header, body: r.Body})
	}
	return s, nil
}

// save persists entries first and only then makes them visible, so a failed
// write leaves the store unchanged.
func (s *Store) save(ctx context.Context, version string, entries map[string]entry) error {
	if s.backend != nil {
		records := make([]Record, 0, len(entries))
		for key, e := range entries {
			records = append(records, Record{Version: version, Key: key, Status: e.status, Header: e.header, Body: e.body})
		}
		if err := s.backend.Save(ctx, records); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range entries {
		s.putLocked(version, key, e)
	}
	return nil
}

func (s *Store) putLocked(version, key string, e entry) {
	c, ok := s.caches[version]
	if !ok {
		c = make(map[string]entry)
		s.caches[version] = c
	}
	c[key] = e
}

// match looks in preferred first, then in any other version.
func (s *Store) match(preferred, key string) (entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.caches[preferred][key]; ok {
		return e, true
	}
	for _, name := range s.versionsLocked() {
		if e, ok := s.caches[name][key]; ok {
			return e, true
		}
	}
	return entry{}, false
}

// Versions lists the cache names, sorted.
func (s *Store) Versions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versionsLocked()
}

func (s *Store) versionsLocked() []string {
	names := make([]string, 0, len(s.caches))
	for name := range s.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) deleteExcept(ctx context.Context, keep string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stale []string
	for name := range s.caches {
		if name != keep {
			stale = append(stale, name)
		}
	}
	if len(stale) == 0 {
		return nil, nil
	}
	sort.Strings(stale)

	if s.backend != nil {
		if err := s.backend.DeleteVersions(ctx, stale); err != nil {
			return nil, fmt.Errorf("delete shell caches: %w", err)
		}
	}
	for _, name := range stale {
		delete(s.caches, name)
	}
	return stale, nil
}

// Cache proxies requests to the shell origin and caches successful responses.
type Cache struct {
	version  string
	origin   *url.URL
	precache []string
	client   *http.Client
	store    *Store
	proxy    *httputil.ReverseProxy
}

// New creates a cache for origin under version. A nil client uses http.DefaultClient.
func New(origin, version string, precache []string, client *http.Client, store *Store) (*Cache, error) {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid shell origin %q", origin)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if store == nil {
		store = NewStore()
	}

	c := &Cache{
		version:  version,
		origin:   u,
		precache: precache,
		client:   client,
		store:    store,
	}

	c.proxy = httputil.NewSingleHostReverseProxy(u)
	c.proxy.Transport = client.Transport
	c.proxy.ModifyResponse = c.keep
	c.proxy.ErrorHandler = c.fallback
	return c, nil
}

func (c *Cache) Version() string { return c.version }

// Install fetches every precache path into the current version. It fails
// without partial effect if any fetch fails.
func (c *Cache) Install(ctx context.Context) error {
	fetched := make(map[string]entry, len(c.precache))
	for _, p := range c.precache {
		target := c.origin.JoinPath(p)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
		if err != nil {
			return err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("precache %s: %w", p, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("precache %s: %w", p, err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("precache %s: status %d", p, resp.StatusCode)
		}
		fetched[target.RequestURI()] = entry{status: resp.StatusCode, header: resp.Header.Clone(), body: body}
	}

	if err := c.store.save(ctx, c.version, fetched); err != nil {
		return fmt.Errorf("precache %s: %w", c.version, err)
	}
	slog.Info("shell cache installed", "version", c.version, "entries", len(fetched))
	return nil
}

// Activate deletes every cache whose version differs from the current one,
// including versions persisted by an earlier run.
func (c *Cache) Activate(ctx context.Context) ([]string, error) {
	deleted, err := c.store.deleteExcept(ctx, c.version)
	if err != nil {
		return nil, err
	}
	if len(deleted) > 0 {
		slog.Info("shell caches removed", "versions", deleted)
	}
	return deleted, nil
}

func (c *Cache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.proxy.ServeHTTP(w, r)
}

// keep stores a copy of same-origin GET 200 responses.
func (c *Cache) keep(resp *http.Response) error {
	req := resp.Request
	if req == nil || req.Method != http.MethodGet || resp.StatusCode != http.StatusOK {
		return nil
	}
	if req.URL.Host != c.origin.Host {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	key := req.URL.RequestURI()
	err = c.store.save(req.Context(), c.version, map[string]entry{key: {
		status: resp.StatusCode,
		header: resp.Header.Clone(),
		body:   body,
	}})
	if err != nil {
		slog.Warn("shell response not cached", "path", key, "error", err)
	}
	return nil
}

// fallback serves the cached copy when the origin cannot be reached.
func (c *Cache) fallback(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := c.store.match(c.version, r.URL.RequestURI())
	if !ok || r.Method != http.MethodGet {
		slog.Warn("shell unavailable", "path", r.URL.Path, "error", err)
		http.Error(w, "offline", http.StatusServiceUnavailable)
		return
	}

	for k, vs := range e.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(e.status)
	w.Write(e.body)
}
