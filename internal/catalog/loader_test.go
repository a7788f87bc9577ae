package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/conan-io/conan-panel/internal/errors"
)

const sampleDoc = `{
  "date": 1700000000,
  "libraries": {
    "zlib": {"cmake_file_name": "ZLIB", "cmake_target_name": "ZLIB::ZLIB", "description": "compression", "license": ["Zlib"], "v2": true, "versions": ["1.3.1", "1.2.13"]},
    "fmt": {"cmake_file_name": "fmt", "cmake_target_name": "fmt::fmt", "description": null, "license": ["MIT"], "v2": true, "versions": ["10.0.0"]},
    "boost": {"cmake_file_name": "Boost", "cmake_target_name": "Boost::boost", "license": ["BSL-1.0"], "versions": ["1.84.0"],
              "components": {"system": {"cmake_target_name": "Boost::system"}}},
    "zlib-ng": {"cmake_file_name": "zlib-ng", "cmake_target_name": "zlib-ng::zlib", "versions": ["2.1.6"]}
  }
}`

func writeCache(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ── Parse / Load ─────────────────────────────────────────────────────────────

// TestEmbeddedCatalog verifies the bundled catalog parses and is non-empty.
func TestEmbeddedCatalog(t *testing.T) {
	c, err := Parse(embeddedCatalog)
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 0)
	assert.False(t, c.FetchedAt.IsZero())

	e, ok := c.Lookup("zlib")
	require.True(t, ok, "bundled catalog should contain zlib")
	assert.NotEmpty(t, e.Versions)
}

// TestParseFields verifies every JSON field maps onto Entry.
func TestParseFields(t *testing.T) {
	c, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, time.Unix(1700000000, 0).UTC(), c.FetchedAt.Time.UTC())

	zlib, ok := c.Lookup("zlib")
	require.True(t, ok)
	assert.Equal(t, "zlib", zlib.Name)
	assert.Equal(t, "ZLIB", zlib.FileName)
	assert.Equal(t, "ZLIB::ZLIB", zlib.TargetName)
	assert.Equal(t, "compression", zlib.Description)
	assert.Equal(t, []string{"Zlib"}, zlib.Licenses)
	assert.Equal(t, []string{"1.3.1", "1.2.13"}, zlib.Versions)
	assert.True(t, zlib.V2)

	fmtEntry, _ := c.Lookup("fmt")
	assert.Empty(t, fmtEntry.Description, "null description decodes to empty")

	boost, _ := c.Lookup("boost")
	assert.Equal(t, Component{TargetName: "Boost::system"}, boost.Components["system"])
}

// TestParsePreservesOrder verifies names keep the source document order.
func TestParsePreservesOrder(t *testing.T) {
	c, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	assert.Equal(t, []string{"zlib", "fmt", "boost", "zlib-ng"}, c.Filter(""))
}

// TestParseRepeatedLibrariesKey verifies a second "libraries" object
// replaces the first, so every listed name can be looked up.
func TestParseRepeatedLibrariesKey(t *testing.T) {
	c, err := Parse([]byte(`{"libraries":{"a":{},"b":{}},"libraries":{"c":{}}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, c.Filter(""))
	for _, name := range c.Filter("") {
		_, ok := c.Lookup(name)
		assert.True(t, ok, "listed name %q must resolve", name)
	}
	_, ok := c.Lookup("a")
	assert.False(t, ok)
}

// TestParseNullLibraries verifies a document without recipes is an empty catalog.
func TestParseNullLibraries(t *testing.T) {
	for _, doc := range []string{`{"date": 1}`, `{"date": 1, "libraries": null}`, `{"libraries": {}}`} {
		c, err := Parse([]byte(doc))
		require.NoError(t, err, doc)
		assert.Equal(t, 0, c.Len())
		_, ok := c.Lookup("zlib")
		assert.False(t, ok)
	}
}

// TestParseInvalidJSON verifies malformed documents return a ParseError.
func TestParseInvalidJSON(t *testing.T) {
	for _, doc := range []string{`{not valid json`, `{"libraries": []}`, `{"libraries": {"zlib": {"versions": 3}}}`} {
		_, err := Parse([]byte(doc))
		require.Error(t, err, doc)
		assert.True(t, perrors.IsParse(err), "%s: %v", doc, err)
	}
}

// TestLoadMissing verifies an absent cache file is NotFound.
func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
	assert.True(t, perrors.IsNotFound(err))
}

// TestLoadInvalidJSON verifies the parse error names the cache file.
func TestLoadInvalidJSON(t *testing.T) {
	path := writeCache(t, "{broken")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, perrors.IsParse(err))
	assert.Contains(t, err.Error(), path)
}

// ── Lookup / Filter ──────────────────────────────────────────────────────────

// TestLookupAbsent verifies unknown names are absent, not errors.
func TestLookupAbsent(t *testing.T) {
	c, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	e, ok := c.Lookup("does-not-exist")
	assert.False(t, ok)
	assert.Nil(t, e)

	var nilCatalog *Catalog
	_, ok = nilCatalog.Lookup("zlib")
	assert.False(t, ok)
}

// TestFilterSubstring verifies case-sensitive substring matching in order.
func TestFilterSubstring(t *testing.T) {
	c, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"zlib", "zlib-ng"}, c.Filter("zlib"))
	assert.Equal(t, []string{"zlib", "zlib-ng"}, c.Filter("lib"))
	assert.Empty(t, c.Filter("ZLIB"), "matching is case-sensitive")
	assert.Len(t, c.Filter(""), c.Len(), "empty filter matches everything")
}

// ── EnsureCache ──────────────────────────────────────────────────────────────

// TestEnsureCacheSeeds verifies a missing cache is created from the bundled
// copy, including its directory.
func TestEnsureCacheSeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".conan-vs-extension", FileName)

	wrote, err := EnsureCache(path)
	require.NoError(t, err)
	assert.True(t, wrote)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, embeddedCatalog, got)
}

// TestEnsureCacheKeepsExisting verifies an existing cache is never overwritten.
func TestEnsureCacheKeepsExisting(t *testing.T) {
	path := writeCache(t, sampleDoc)

	wrote, err := EnsureCache(path)
	require.NoError(t, err)
	assert.False(t, wrote)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(got))
}

// ── Refresh ──────────────────────────────────────────────────────────────────

// TestRefreshReplacesCache verifies a successful fetch rewrites the cache.
func TestRefreshReplacesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	path := writeCache(t, `{"date": 1, "libraries": {}}`)

	c, err := Refresh(context.Background(), srv.Client(), srv.URL, path)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(got))
}

// TestRefreshHTTPErrorKeepsCache verifies a non-2xx response is a
// NetworkError and leaves the cache untouched.
func TestRefreshHTTPErrorKeepsCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	path := writeCache(t, sampleDoc)

	_, err := Refresh(context.Background(), srv.Client(), srv.URL, path)
	require.Error(t, err)
	assert.True(t, perrors.IsNetwork(err))

	got, _ := os.ReadFile(path)
	assert.Equal(t, sampleDoc, string(got))
}

// TestRefreshUnreachable verifies transport failures are NetworkErrors.
func TestRefreshUnreachable(t *testing.T) {
	path := writeCache(t, sampleDoc)
	client := &http.Client{Timeout: 200 * time.Millisecond}

	_, err := Refresh(context.Background(), client, "http://127.0.0.1:0/targets-data.json", path)
	require.Error(t, err)
	assert.True(t, perrors.IsNetwork(err))
}

// TestRefreshInvalidBodyKeepsCache verifies a malformed download does not
// replace a good cache.
func TestRefreshInvalidBodyKeepsCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	path := writeCache(t, sampleDoc)

	_, err := Refresh(context.Background(), srv.Client(), srv.URL, path)
	require.Error(t, err)
	assert.True(t, perrors.IsParse(err))

	got, _ := os.ReadFile(path)
	assert.Equal(t, sampleDoc, string(got))
}

// ── Store ────────────────────────────────────────────────────────────────────

// TestStoreOpenSeedsAndLoads verifies Open works on a fresh data directory.
func TestStoreOpenSeedsAndLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", FileName)
	s := NewStore(StoreOptions{Path: path})
	assert.Nil(t, s.Catalog())

	c, err := s.Open(context.Background())
	require.NoError(t, err)
	assert.Same(t, c, s.Catalog())
	assert.FileExists(t, path)
}

// TestStoreOpenInvalidCache verifies a corrupt cache is fatal for Open.
func TestStoreOpenInvalidCache(t *testing.T) {
	s := NewStore(StoreOptions{Path: writeCache(t, "{broken")})
	_, err := s.Open(context.Background())
	require.Error(t, err)
	assert.True(t, perrors.IsParse(err))
	assert.Nil(t, s.Catalog())
}

// TestStoreRefreshSwapsSnapshot verifies the new catalog replaces the old
// one and a failed refresh keeps the previous snapshot.
func TestStoreRefreshSwapsSnapshot(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	s := NewStore(StoreOptions{Path: writeCache(t, `{"libraries": {}}`), URL: srv.URL, Client: srv.Client()})
	before, err := s.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, before.Len())

	after, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, after.Len())
	assert.Same(t, after, s.Catalog())

	fail.Store(true)
	_, err = s.Refresh(context.Background())
	require.Error(t, err)
	assert.Same(t, after, s.Catalog())
}

// TestStoreRefreshCoalesces verifies overlapping refreshes share one download.
func TestStoreRefreshCoalesces(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	s := NewStore(StoreOptions{Path: writeCache(t, sampleDoc), URL: srv.URL, Client: srv.Client()})

	const callers = 5
	var started, wg sync.WaitGroup
	started.Add(callers)
	wg.Add(callers)
	errs := make(chan error, callers)
	for range callers {
		go func() {
			defer wg.Done()
			started.Done()
			_, err := s.Refresh(context.Background())
			errs <- err
		}()
	}
	started.Wait()
	// Give every goroutine time to join the in-flight call before releasing it.
	require.Eventually(t, func() bool { return hits.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())
}
