// Package guard decides whether a project file is owned by conan-panel.
// A file is owned when it starts with the two-line sentinel comment and has
// at least one more line after it. Only owned (or absent) files are ever
// written, so hand-edited manifests are never clobbered.
package guard

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/conan-io/conan-panel/internal/fileutil"
)

// Sentinel is the header written at the top of every managed file.
const Sentinel = "# This file is managed by the Conan Visual Studio Extension, contents will be overwritten.\n" +
	"# To keep your changes, remove these comment lines, but the plugin won't be able to modify your requirements"

// Lines returns the sentinel split into its individual lines.
func Lines() []string {
	return strings.Split(Sentinel, "\n")
}

// IsGuarded reports whether the file at path exists, starts with the
// sentinel, and has strictly more lines than the sentinel itself.
// A file holding only the sentinel is not guarded yet.
func IsGuarded(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return IsGuardedContent(data)
}

// IsGuardedContent applies the IsGuarded rule to in-memory content.
func IsGuardedContent(data []byte) bool {
	lines := splitLines(data)
	return len(lines) > len(Lines()) && hasSentinel(lines)
}

// Claimable reports whether path may be (re)created from a template: the
// file is absent, empty, or already starts with the sentinel (including a
// sentinel-only file that IsGuarded does not accept yet). A file with any
// other content belongs to the user.
func Claimable(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return os.IsNotExist(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return true
	}
	return hasSentinel(splitLines(data))
}

// WriteFile writes the sentinel followed by body to path. The content goes
// to a temporary file in the same directory first and is renamed over the
// target, so readers never observe a half-written manifest.
func WriteFile(path, body string) error {
	return fileutil.WriteFile(path, []byte(Sentinel+"\n"+body), 0o644)
}

// hasSentinel reports whether lines begin with the sentinel lines.
func hasSentinel(lines []string) bool {
	want := Lines()
	if len(lines) < len(want) {
		return false
	}
	for i, line := range want {
		if lines[i] != line {
			return false
		}
	}
	return true
}

// splitLines splits on line endings the way a line reader does: "\r\n" and
// "\n" both end a line and a trailing terminator adds no empty line.
func splitLines(data []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}
