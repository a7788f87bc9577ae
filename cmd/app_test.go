package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conan-io/conan-panel/internal/catalog"
	"github.com/conan-io/conan-panel/internal/project"
)

// TestNewAppWithoutConan verifies editing is disabled when conan cannot be
// found and that the catalog cache lives in the data dir.
func TestNewAppWithoutConan(t *testing.T) {
	t.Setenv("PATH", "")
	t.Setenv("CONAN_PANEL_CONAN_EXECUTABLE", "")
	dataDir := t.TempDir()

	a, err := newApp(appOptions{DataDir: dataDir, NoLogFile: true})
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.enabled)
	assert.False(t, a.controller("").Enabled)
	assert.Equal(t, filepath.Join(dataDir, catalog.FileName), a.store.Path())
	assert.Equal(t, "", a.log.LogPath())
}

// TestNewAppWritesLogFile verifies a log file is created unless disabled.
func TestNewAppWritesLogFile(t *testing.T) {
	dataDir := t.TempDir()
	a, err := newApp(appOptions{DataDir: dataDir})
	require.NoError(t, err)
	defer a.Close()

	assert.FileExists(t, a.log.LogPath())
	assert.Equal(t, filepath.Join(dataDir, "logs"), filepath.Dir(a.log.LogPath()))
}

// TestLocatorPrecedence verifies an explicit argument beats --project.
func TestLocatorPrecedence(t *testing.T) {
	a := &app{project: "/from/flag"}
	assert.Equal(t, project.DirLocator{Path: "/from/flag"}, a.locator(""))
	assert.Equal(t, project.DirLocator{Path: "/from/arg"}, a.locator("/from/arg"))
}
