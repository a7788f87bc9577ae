// Package project finds the project a command or the panel operates on.
package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	perrors "github.com/conan-io/conan-panel/internal/errors"
)

// Ext is the Visual C++ project file extension.
const Ext = ".vcxproj"

// Project is the active project. Dir is where conanfile.py and
// conandata.yml live.
type Project struct {
	FullPath string // project file, or Dir when there is none
	Dir      string
	Name     string
}

// Locator returns the project that edits apply to.
type Locator interface {
	Active() (*Project, error)
}

// DirLocator resolves a project from a path on disk. Path may name a
// .vcxproj file or a directory; an empty Path means the working directory.
type DirLocator struct {
	Path string
}

// Active implements Locator. A directory with several project files
// resolves to the first in lexical order; Candidates lists all of them.
func (l DirLocator) Active() (*Project, error) {
	path, err := l.abs()
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.NewNotFoundError("project", path)
		}
		return nil, perrors.NewIOError("stat", path, err)
	}

	if !info.IsDir() {
		if !strings.EqualFold(filepath.Ext(path), Ext) {
			return nil, perrors.NewNotFoundError("project", path)
		}
		return fromFile(path), nil
	}

	files, err := Candidates(path)
	if err != nil {
		return nil, err
	}
	if len(files) > 0 {
		return fromFile(files[0]), nil
	}
	return &Project{FullPath: path, Dir: path, Name: filepath.Base(path)}, nil
}

// Candidates returns the project files directly inside dir, sorted.
func Candidates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, perrors.NewIOError("read dir", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func (l DirLocator) abs() (string, error) {
	p := l.Path
	if p == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", perrors.NewIOError("getwd", "", err)
		}
		return wd, nil
	}
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", perrors.NewIOError("resolve", p, err)
	}
	return abs, nil
}

func fromFile(path string) *Project {
	base := filepath.Base(path)
	return &Project{
		FullPath: path,
		Dir:      filepath.Dir(path),
		Name:     strings.TrimSuffix(base, filepath.Ext(base)),
	}
}
