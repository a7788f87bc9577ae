// Package installer writes a project's Conan manifests: conanfile.py, which
// tells Conan how to resolve and generate MSBuild dependencies, and
// conandata.yml, which lists the requirements. Both files carry the guard
// sentinel; files without it belong to the user and are never rewritten.
package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conan-io/conan-panel/internal/conandata"
	perrors "github.com/conan-io/conan-panel/internal/errors"
	"github.com/conan-io/conan-panel/internal/guard"
	"github.com/conan-io/conan-panel/internal/logger"
)

const (
	// ConanfileName is the package-definition file.
	ConanfileName = "conanfile.py"
	// ConandataName is the requirement-data file.
	ConandataName = "conandata.yml"
)

// conanfileTemplate follows the sentinel in a fresh conanfile.py.
const conanfileTemplate = `
from conan import ConanFile
from conan.tools.microsoft import vs_layout, MSBuildDeps
class ConanApplication(ConanFile):
    package_type = "application"
    settings = "os", "compiler", "build_type", "arch"

    def layout(self):
        vs_layout(self)

    def generate(self):
        deps = MSBuildDeps(self)
        deps.generate()

    def requirements(self):
        requirements = self.conan_data.get('requirements', [])
        for requirement in requirements:
            self.requires(requirement)
`

// conandataTemplate follows the sentinel in a fresh conandata.yml.
const conandataTemplate = "requirements:\n"

// Outcome is the result of a requirement edit.
type Outcome int

const (
	// Applied means the file was rewritten.
	Applied Outcome = iota
	// Unchanged means the edit was a no-op (already present / absent).
	Unchanged
	// Refused means conandata.yml is not managed by conan-panel and was
	// left alone.
	Refused
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Unchanged:
		return "unchanged"
	case Refused:
		return "refused"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// BootstrapResult reports what EnsureBootstrap did with each file.
type BootstrapResult struct {
	Conanfile Outcome
	Conandata Outcome
}

// Writer edits the manifests of one project directory at a time. Every
// call re-reads the files; nothing is cached between calls.
type Writer struct {
	Log    *logger.Logger
	OnStep func(step, total int, label string) // called at each named stage
}

// New returns a Writer logging to log. A nil log discards output.
func New(log *logger.Logger) *Writer {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Writer{Log: log}
}

// ConanfilePath returns the conanfile.py path for dir.
func ConanfilePath(dir string) string { return filepath.Join(dir, ConanfileName) }

// ConandataPath returns the conandata.yml path for dir.
func ConandataPath(dir string) string { return filepath.Join(dir, ConandataName) }

// EnsureBootstrap creates conanfile.py and conandata.yml from their
// templates when they are not guarded. Each file is handled on its own and
// guarded files are left untouched, so a second call changes nothing.
// A file holding someone else's content is never replaced; its outcome is
// Refused and later edits to it are refused as well.
func (w *Writer) EnsureBootstrap(dir string) (BootstrapResult, error) {
	var res BootstrapResult
	var err error

	w.step(1, 2, "Checking "+ConanfileName)
	if res.Conanfile, err = w.bootstrap(ConanfilePath(dir), conanfileTemplate); err != nil {
		return res, err
	}

	w.step(2, 2, "Checking "+ConandataName)
	if res.Conandata, err = w.bootstrap(ConandataPath(dir), conandataTemplate); err != nil {
		return res, err
	}
	return res, nil
}

func (w *Writer) bootstrap(path, template string) (Outcome, error) {
	if guard.IsGuarded(path) {
		return Unchanged, nil
	}
	if !guard.Claimable(path) {
		w.log().Warn().Str("path", path).Msg("not managed by conan-panel, leaving it alone")
		return Refused, nil
	}
	if err := guard.WriteFile(path, template); err != nil {
		return Unchanged, fmt.Errorf("bootstrap %s: %w", filepath.Base(path), err)
	}
	w.log().Info().Str("path", path).Msg("wrote managed file")
	return Applied, nil
}

// Requirements reads the requirement list of dir. A missing or unguarded
// conandata.yml yields an empty list, and so does one that fails to parse.
func (w *Writer) Requirements(dir string) (conandata.List, error) {
	path := ConandataPath(dir)
	if !guard.IsGuarded(path) {
		return conandata.List{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.NewIOError("read", path, err)
	}
	l, err := conandata.Decode(string(data))
	if err != nil {
		w.log().Warn().Err(err).Str("path", path).Msg("unreadable requirements, treating as empty")
		return conandata.List{}, nil
	}
	return l, nil
}

// Add appends req to dir's requirement list. It returns Refused without
// touching anything when conandata.yml is not guarded, and Unchanged when
// req is already listed.
func (w *Writer) Add(dir string, req conandata.Requirement) (Outcome, error) {
	return w.edit(dir, req, "add", func(l conandata.List) (conandata.List, bool) {
		if l.Contains(req) {
			return l, false
		}
		return l.Append(req), true
	})
}

// Remove deletes every occurrence of req from dir's requirement list with
// the same guard precondition as Add.
func (w *Writer) Remove(dir string, req conandata.Requirement) (Outcome, error) {
	return w.edit(dir, req, "remove", func(l conandata.List) (conandata.List, bool) {
		if !l.Contains(req) {
			return l, false
		}
		return l.Remove(req), true
	})
}

func (w *Writer) edit(dir string, req conandata.Requirement, op string, apply func(conandata.List) (conandata.List, bool)) (Outcome, error) {
	path := ConandataPath(dir)
	if !guard.IsGuarded(path) {
		w.log().Warn().Str("path", path).Str("requirement", string(req)).
			Msgf("%s refused: %v", op, perrors.NewGuardViolationError(path))
		return Refused, nil
	}

	current, err := w.Requirements(dir)
	if err != nil {
		return Unchanged, err
	}
	next, changed := apply(current)
	if !changed {
		return Unchanged, nil
	}

	body, err := conandata.Encode(next)
	if err != nil {
		return Unchanged, err
	}
	if err := guard.WriteFile(path, body); err != nil {
		return Unchanged, fmt.Errorf("%s %s: %w", op, req, err)
	}
	w.log().Info().Str("path", path).Str("requirement", string(req)).Msgf("%s requirement", op)
	return Applied, nil
}

func (w *Writer) step(n, total int, label string) {
	w.log().Printf("[%d/%d] %s", n, total, label)
	if w.OnStep != nil {
		w.OnStep(n, total, label)
	}
}

func (w *Writer) log() *logger.Logger {
	if w.Log == nil {
		w.Log = logger.NewDiscard()
	}
	return w.Log
}
