package guard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conandata.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLinesIsTwoLineSentinel verifies the sentinel is exactly two comment lines.
func TestLinesIsTwoLineSentinel(t *testing.T) {
	lines := Lines()
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "# This file is managed by the Conan Visual Studio Extension"))
	assert.True(t, strings.HasPrefix(lines[1], "# To keep your changes, remove these comment lines"))
}

// TestIsGuardedMissingFile verifies an absent file is not guarded.
func TestIsGuardedMissingFile(t *testing.T) {
	assert.False(t, IsGuarded(filepath.Join(t.TempDir(), "nope.yml")))
}

// TestIsGuardedSentinelOnly verifies that a file holding exactly the two
// sentinel lines is not guarded yet.
func TestIsGuardedSentinelOnly(t *testing.T) {
	assert.False(t, IsGuarded(writeFile(t, Sentinel)))
	assert.False(t, IsGuarded(writeFile(t, Sentinel+"\n")))
}

// TestIsGuardedWithContent verifies sentinel plus one more line is guarded.
func TestIsGuardedWithContent(t *testing.T) {
	assert.True(t, IsGuarded(writeFile(t, Sentinel+"\nrequirements:\n")))
	assert.True(t, IsGuarded(writeFile(t, Sentinel+"\n\n")), "an empty trailing line still counts")
}

// TestIsGuardedCRLF verifies Windows line endings are accepted.
func TestIsGuardedCRLF(t *testing.T) {
	content := strings.ReplaceAll(Sentinel, "\n", "\r\n") + "\r\nrequirements:\r\n"
	assert.True(t, IsGuarded(writeFile(t, content)))
}

// TestIsGuardedForeignContent verifies user-owned files are not guarded.
func TestIsGuardedForeignContent(t *testing.T) {
	assert.False(t, IsGuarded(writeFile(t, "requirements:\n- zlib/1.3.1\n")))

	// Sentinel present but not at the head of the file.
	assert.False(t, IsGuarded(writeFile(t, "# mine\n"+Sentinel+"\nrequirements:\n")))

	// First line matches, second was edited.
	lines := Lines()
	assert.False(t, IsGuarded(writeFile(t, lines[0]+"\n# edited\nrequirements:\n")))
}

// TestWriteFilePrefixesSentinel verifies WriteFile emits the sentinel and
// that the result is guarded.
func TestWriteFilePrefixesSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conandata.yml")

	require.NoError(t, WriteFile(path, "requirements:\n"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Sentinel+"\nrequirements:\n", string(got))
	assert.True(t, IsGuarded(path))
}

// TestClaimable verifies which files a template may replace.
func TestClaimable(t *testing.T) {
	assert.True(t, Claimable(filepath.Join(t.TempDir(), "absent.yml")))
	assert.True(t, Claimable(writeFile(t, "")))
	assert.True(t, Claimable(writeFile(t, "\n  \n")))
	assert.True(t, Claimable(writeFile(t, Sentinel)))
	assert.True(t, Claimable(writeFile(t, Sentinel+"\nrequirements:\n")))
	assert.False(t, Claimable(writeFile(t, "requirements:\n- zlib/1.3.1\n")))
	assert.False(t, Claimable(writeFile(t, Lines()[0]+"\n")), "half a sentinel is not ours")
}
