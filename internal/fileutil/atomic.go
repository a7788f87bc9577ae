// Package fileutil holds the temp-file-then-rename write shared by the
// catalog cache and the managed project files.
package fileutil

import (
	"os"
	"path/filepath"

	perrors "github.com/conan-io/conan-panel/internal/errors"
)

// WriteFile writes data to a temporary file next to path and renames it
// over path, so readers see either the old content or the new content.
// It gives no crash-durability guarantee beyond what rename provides.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return perrors.NewIOError("create", path, err)
	}
	tmpName := tmp.Name()
	// After a successful rename the temp name no longer exists.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return perrors.NewIOError("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return perrors.NewIOError("write", path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return perrors.NewIOError("write", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return perrors.NewIOError("rename", path, err)
	}
	return nil
}
