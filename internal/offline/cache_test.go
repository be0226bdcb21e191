package offline

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func newTestUpstream() (*httptest.Server, *atomic.Int64) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/":
			_, _ = io.WriteString(w, "app shell")
		case "/manifest.webmanifest":
			w.Header().Set("Content-Type", "application/manifest+json")
			_, _ = io.WriteString(w, `{"name":"temperance"}`)
		case "/app.js":
			_, _ = io.WriteString(w, "console.log('hi')")
		default:
			http.NotFound(w, r)
		}
	}))
	return server, &hits
}

func newTestCache(t *testing.T, upstream string) *Cache {
	t.Helper()
	c, err := New(t.TempDir(), "", upstream)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	return c
}

func get(t *testing.T, c *Cache, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, req)
	return rec
}

func TestServeHTTP_CacheFirst(t *testing.T) {
	upstream, hits := newTestUpstream()
	defer upstream.Close()
	c := newTestCache(t, upstream.URL)

	first := get(t, c, "/app.js")
	if first.Code != http.StatusOK || first.Body.String() != "console.log('hi')" {
		t.Fatalf("first fetch: code=%d body=%q", first.Code, first.Body.String())
	}

	second := get(t, c, "/app.js")
	if second.Body.String() != first.Body.String() {
		t.Fatal("cached body differs from original")
	}
	if hits.Load() != 1 {
		t.Fatalf("upstream hit %d times, want 1 (second request served from cache)", hits.Load())
	}
}

func TestServeHTTP_NonGetPassesThrough(t *testing.T) {
	upstream, hits := newTestUpstream()
	defer upstream.Close()
	c := newTestCache(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/app.js", strings.NewReader("data"))
	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, req)
	before := hits.Load()

	rec = httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/app.js", strings.NewReader("data")))
	if hits.Load() != before+1 {
		t.Fatal("POST requests must never be served from cache")
	}
}

func TestServeHTTP_CrossOriginKeepsItsOwnHost(t *testing.T) {
	upstream, upstreamHits := newTestUpstream()
	defer upstream.Close()

	var otherHits atomic.Int64
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		otherHits.Add(1)
		_, _ = io.WriteString(w, "other origin")
	}))
	defer other.Close()

	c := newTestCache(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, other.URL+"/asset.js", nil)
	req.Host = "proxy.local"
	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, req)

	if otherHits.Load() != 1 {
		t.Fatalf("other origin hit %d times, want 1", otherHits.Load())
	}
	if upstreamHits.Load() != 0 {
		t.Fatal("cross-origin request must not be rewritten onto the upstream")
	}
	if rec.Body.String() != "other origin" {
		t.Fatalf("body = %q, want the other origin's response", rec.Body.String())
	}
}

func TestServeHTTP_RootFallbackWhenOffline(t *testing.T) {
	upstream, _ := newTestUpstream()
	c := newTestCache(t, upstream.URL)

	if err := c.Prewarm(context.Background()); err != nil {
		t.Fatalf("Prewarm: %v", err)
	}

	// Kill the network.
	upstream.Close()

	rec := get(t, c, "/never-fetched.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200 via root fallback", rec.Code)
	}
	if rec.Body.String() != "app shell" {
		t.Fatalf("body = %q, want cached root document", rec.Body.String())
	}
}

func TestServeHTTP_ErrorWhenNoFallback(t *testing.T) {
	upstream, _ := newTestUpstream()
	c := newTestCache(t, upstream.URL)

	// No prewarm, upstream down: nothing cached at all.
	upstream.Close()

	rec := get(t, c, "/app.js")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("code = %d, want 502 when neither entry nor root fallback exists", rec.Code)
	}
}

func TestPrewarm_CachesShellAndManifest(t *testing.T) {
	upstream, hits := newTestUpstream()
	defer upstream.Close()
	c := newTestCache(t, upstream.URL)

	if err := c.Prewarm(context.Background()); err != nil {
		t.Fatalf("Prewarm: %v", err)
	}
	warmed := hits.Load()

	rec := get(t, c, "/")
	if rec.Body.String() != "app shell" {
		t.Fatalf("root body = %q", rec.Body.String())
	}
	rec = get(t, c, "/manifest.webmanifest")
	if got := rec.Header().Get("Content-Type"); got != "application/manifest+json" {
		t.Fatalf("manifest content-type = %q, cached headers should survive", got)
	}

	if hits.Load() != warmed {
		t.Fatalf("upstream hit %d extra times after prewarm, want 0", hits.Load()-warmed)
	}
}

func TestActivate_EvictsOldGenerations(t *testing.T) {
	root := t.TempDir()
	for _, old := range []string{"temperance-cache-v0", "temperance-cache-v0.9"} {
		if err := os.MkdirAll(filepath.Join(root, old), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	c, err := New(root, "temperance-cache-v1", "http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "temperance-cache-v1" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("generations after activate = %v, want only temperance-cache-v1", names)
	}
}
