// Package offline serves the app shell through a cache-first GET proxy so
// it keeps loading without a network connection.
package offline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultGeneration names the current cache generation. Bumping it and
	// activating evicts every previous generation in one hard cutover.
	DefaultGeneration = "temperance-cache-v1"

	fetchTimeout = 15 * time.Second
	maxBodySize  = 16 << 20 // 16 MB per cached resource
	rootPath     = "/"
)

// PrewarmPaths are fetched and cached at activation so the shell and
// manifest are available offline from the first visit.
var PrewarmPaths = []string{rootPath, "/manifest.webmanifest"}

// Cache is a generation-scoped resource cache fronting a single upstream
// origin. It intercepts only same-origin GET requests; everything else
// passes straight through.
type Cache struct {
	root       string
	generation string
	upstream   *url.URL
	client     *http.Client
}

// entryMeta is stored beside each cached body.
type entryMeta struct {
	Path   string      `json:"path"`
	Status int         `json:"status"`
	Header http.Header `json:"header"`
}

// New creates a cache rooted at dir for the named generation, proxying the
// given upstream origin.
func New(dir, generation, upstream string) (*Cache, error) {
	u, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("offline: parsing upstream %q: %w", upstream, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("offline: upstream %q must be an absolute origin", upstream)
	}
	if generation == "" {
		generation = DefaultGeneration
	}
	return &Cache{
		root:       dir,
		generation: generation,
		upstream:   u,
		client:     &http.Client{Timeout: fetchTimeout},
	}, nil
}

// Activate creates the current generation directory and deletes every other
// generation. There is no dual-serving period: after activation only the
// current generation exists.
func (c *Cache) Activate() error {
	if err := os.MkdirAll(c.dir(), 0o750); err != nil {
		return fmt.Errorf("offline: creating cache dir: %w", err)
	}

	entries, err := os.ReadDir(c.root)
	if err != nil {
		return fmt.Errorf("offline: listing generations: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == c.generation {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return fmt.Errorf("offline: evicting generation %s: %w", e.Name(), err)
		}
		slog.Info("evicted stale cache generation", "generation", e.Name())
	}
	return nil
}

// Prewarm fetches and caches the offline-critical paths.
func (c *Cache) Prewarm(ctx context.Context) error {
	for _, path := range PrewarmPaths {
		if _, _, err := c.fetchAndStore(ctx, path); err != nil {
			return fmt.Errorf("offline: prewarming %s: %w", path, err)
		}
	}
	return nil
}

// ServeHTTP implements the cache-first policy: cached copy if present,
// otherwise fetch from the upstream and keep a copy. When the network fails
// and nothing is cached for the request, the cached root document is the
// last resort so the shell still loads offline.
func (c *Cache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || c.crossOrigin(r) {
		c.passThrough(w, r)
		return
	}

	key := cacheKey(r.URL)
	if meta, body, err := c.load(key); err == nil {
		writeResponse(w, meta, body)
		return
	}

	meta, body, err := c.fetchAndStore(r.Context(), r.URL.RequestURI())
	if err == nil {
		writeResponse(w, meta, body)
		return
	}

	if meta, body, fallbackErr := c.load(cacheKey(&url.URL{Path: rootPath})); fallbackErr == nil {
		slog.Warn("network fetch failed, serving cached root", "path", r.URL.Path, "error", err)
		writeResponse(w, meta, body)
		return
	}

	http.Error(w, fmt.Sprintf("fetch failed: %v", err), http.StatusBadGateway)
}

// crossOrigin reports whether the request targets a different origin than
// the one this cache fronts.
func (c *Cache) crossOrigin(r *http.Request) bool {
	return r.URL.Host != "" && r.URL.Host != r.Host && r.URL.Host != c.upstream.Host
}

// passThrough forwards a request unmodified and uncached. Origin-form
// requests go to the upstream; absolute-form requests keep their own origin.
func (c *Cache) passThrough(w http.ResponseWriter, r *http.Request) {
	target := *c.upstream
	if r.URL.IsAbs() {
		target = *r.URL
	} else {
		target.Path = r.URL.Path
		target.RawQuery = r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	req.Header = r.Header.Clone()

	resp, err := c.client.Do(req)
	if err != nil {
		http.Error(w, fmt.Sprintf("fetch failed: %v", err), http.StatusBadGateway)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

// fetchAndStore fetches path from the upstream and stores a copy in the
// current generation, returning the response for immediate serving.
func (c *Cache) fetchAndStore(ctx context.Context, path string) (entryMeta, []byte, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return entryMeta{}, nil, err
	}
	target := c.upstream.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return entryMeta{}, nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return entryMeta{}, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return entryMeta{}, nil, err
	}

	meta := entryMeta{Path: rel.RequestURI(), Status: resp.StatusCode, Header: resp.Header}
	if err := c.save(cacheKey(rel), meta, body); err != nil {
		// Caching is opportunistic; serving the live response still works.
		slog.Warn("failed to cache resource", "path", path, "error", err)
	}
	return meta, body, nil
}

func (c *Cache) dir() string {
	return filepath.Join(c.root, c.generation)
}

func (c *Cache) save(key string, meta entryMeta, body []byte) error {
	if err := os.MkdirAll(c.dir(), 0o750); err != nil {
		return err
	}
	metaData, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(c.dir(), key+".meta"), metaData, 0o600); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir(), key+".body"), body, 0o600)
}

func (c *Cache) load(key string) (entryMeta, []byte, error) {
	metaData, err := os.ReadFile(filepath.Join(c.dir(), key+".meta"))
	if err != nil {
		return entryMeta{}, nil, err
	}
	var meta entryMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return entryMeta{}, nil, err
	}
	body, err := os.ReadFile(filepath.Join(c.dir(), key+".body"))
	if err != nil {
		return entryMeta{}, nil, err
	}
	return meta, body, nil
}

// cacheKey derives a stable filename from the request path and query.
func cacheKey(u *url.URL) string {
	sum := sha256.Sum256([]byte(u.RequestURI()))
	return hex.EncodeToString(sum[:])
}

func writeResponse(w http.ResponseWriter, meta entryMeta, body []byte) {
	copyHeader(w.Header(), meta.Header)
	status := meta.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func copyHeader(dst, src http.Header) {
	for k, values := range src {
		for _, v := range values {
			dst.Add(k, v)
		}
	}
}
