package conan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/conan-io/conan-panel/internal/errors"
)

func stubLookPath(t *testing.T, path string, err error) {
	t.Helper()
	orig := lookPath
	lookPath = func(string) (string, error) { return path, err }
	t.Cleanup(func() { lookPath = orig })
}

// TestResolveConfigured verifies an existing configured file wins over PATH.
func TestResolveConfigured(t *testing.T) {
	exe := filepath.Join(t.TempDir(), "conan.exe")
	require.NoError(t, os.WriteFile(exe, []byte("x"), 0o755))
	stubLookPath(t, "/usr/bin/conan", nil)

	got, err := Resolve(exe)
	require.NoError(t, err)
	assert.Equal(t, exe, got)
}

// TestResolveFallsBackToPath verifies a missing configured file falls back to PATH.
func TestResolveFallsBackToPath(t *testing.T) {
	stubLookPath(t, "/usr/bin/conan", nil)

	got, err := Resolve(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/conan", got)
}

// TestResolveDirectoryIsNotExecutable verifies a directory is not accepted.
func TestResolveDirectoryIsNotExecutable(t *testing.T) {
	stubLookPath(t, "", errors.New("not found"))

	_, err := Resolve(t.TempDir())
	require.Error(t, err)
}

// TestResolveNothing verifies NotFound when neither source works.
func TestResolveNothing(t *testing.T) {
	stubLookPath(t, "", errors.New("not found"))

	_, err := Resolve("")
	require.Error(t, err)
	assert.True(t, perrors.IsNotFound(err))
}
