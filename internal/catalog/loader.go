// Package catalog loads the Conan Center recipe catalog. The catalog lives
// in a local cache file that is seeded from an embedded copy on first use
// and can be replaced from a remote URL on demand.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/agentstation/utc"

	perrors "github.com/conan-io/conan-panel/internal/errors"
	"github.com/conan-io/conan-panel/internal/fileutil"
)

// DefaultURL is the upstream location of the catalog data file.
const DefaultURL = "https://raw.githubusercontent.com/conan-io/conan-clion-plugin/develop2/src/main/resources/conan/targets-data.json"

// FileName is the cache file name inside the data directory.
const FileName = "targets-data.json"

//go:embed targets-data.json
var embeddedCatalog []byte

// document mirrors the JSON layout of targets-data.json.
type document struct {
	Libraries orderedLibraries `json:"libraries"`
	Date      int64            `json:"date"`
}

// orderedLibraries decodes the libraries object keeping key order.
type orderedLibraries struct {
	byName map[string]*Entry
	names  []string
}

func (o *orderedLibraries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil // "libraries": null
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("libraries: expected object, got %v", tok)
	}

	// A repeated "libraries" key replaces the earlier object entirely.
	o.byName = make(map[string]*Entry)
	o.names = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("libraries: expected key, got %v", keyTok)
		}
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("library %q: %w", name, err)
		}
		e.Name = name
		// Duplicate keys: last value wins, first position is kept.
		if _, seen := o.byName[name]; !seen {
			o.names = append(o.names, name)
		}
		o.byName[name] = &e
	}
	_, err = dec.Token() // closing '}'
	return err
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, perrors.NewParseError("json", "", err)
	}
	entries := doc.Libraries.byName
	if entries == nil {
		entries = map[string]*Entry{}
	}
	return &Catalog{
		FetchedAt: utc.Time{Time: time.Unix(doc.Date, 0).UTC()},
		entries:   entries,
		order:     doc.Libraries.names,
	}, nil
}

// Load reads and parses the catalog cache file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.NewNotFoundError("catalog", path)
		}
		return nil, perrors.NewIOError("read", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		var pe *perrors.ParseError
		if perrors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return c, nil
}

// EnsureCache seeds path with the embedded catalog when it does not exist.
// It reports whether a file was written.
func EnsureCache(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, perrors.NewIOError("stat", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, perrors.NewIOError("mkdir", filepath.Dir(path), err)
	}
	if err := fileutil.WriteFile(path, embeddedCatalog, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// Refresh downloads the catalog from url, validates it, and replaces the
// cache file at path. On any failure the cache file is left untouched.
func Refresh(ctx context.Context, client *http.Client, url, path string) (*Catalog, error) {
	data, err := fetch(ctx, client, url)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fetched catalog from %s: %w", url, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, perrors.NewIOError("mkdir", filepath.Dir(path), err)
	}
	if err := fileutil.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}
	return c, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, perrors.NewNetworkError(url, 0, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, perrors.NewNetworkError(url, 0, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, perrors.NewNetworkError(url, resp.StatusCode, nil)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, perrors.NewNetworkError(url, 0, err)
	}
	return data, nil
}
