// Package conan locates the Conan executable. conan-panel never runs Conan
// itself; a resolvable executable only gates whether the panel lets the
// user edit project requirements, since the generated files are useless
// without it.
package conan

import (
	"os"
	"os/exec"

	perrors "github.com/conan-io/conan-panel/internal/errors"
)

// Binary is the executable name looked up on PATH.
const Binary = "conan"

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Resolve returns the executable to use: the configured path when it names
// an existing regular file, otherwise conan from PATH.
func Resolve(configured string) (string, error) {
	if configured != "" {
		info, err := os.Stat(configured)
		if err == nil && info.Mode().IsRegular() {
			return configured, nil
		}
	}
	if p, err := lookPath(Binary); err == nil {
		return p, nil
	}
	where := configured
	if where == "" {
		where = "PATH"
	}
	return "", perrors.NewNotFoundError("conan executable", where)
}
