// Package conandata reads and writes the requirement list stored in a
// project's conandata.yml. The only key this package understands is
// `requirements`, an ordered list of "name/version" references.
package conandata

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	perrors "github.com/conan-io/conan-panel/internal/errors"
)

// Requirement is a Conan reference of the form "name/version".
type Requirement string

// NewRequirement joins name and version into a Requirement.
func NewRequirement(name, version string) Requirement {
	return Requirement(name + "/" + version)
}

// Name returns the part before the first "/".
func (r Requirement) Name() string {
	name, _, _ := strings.Cut(string(r), "/")
	return name
}

// Version returns the part after the first "/", or "" if there is none.
func (r Requirement) Version() string {
	_, version, _ := strings.Cut(string(r), "/")
	return version
}

// List is an ordered requirement list. Entries are unique by exact string.
type List []Requirement

// Contains reports whether r is present.
func (l List) Contains(r Requirement) bool {
	for _, e := range l {
		if e == r {
			return true
		}
	}
	return false
}

// Append returns l with r added at the end, or l unchanged if r is
// already present.
func (l List) Append(r Requirement) List {
	if l.Contains(r) {
		return l
	}
	out := make(List, 0, len(l)+1)
	out = append(out, l...)
	return append(out, r)
}

// Remove returns l without any entry equal to r. The order of the
// remaining entries is preserved.
func (l List) Remove(r Requirement) List {
	out := make(List, 0, len(l))
	for _, e := range l {
		if e != r {
			out = append(out, e)
		}
	}
	return out
}

// Installed returns the versions of every entry for package name, in list
// order. Several versions of one package may coexist.
func (l List) Installed(name string) []string {
	var versions []string
	prefix := name + "/"
	for _, e := range l {
		if strings.HasPrefix(string(e), prefix) {
			versions = append(versions, strings.TrimPrefix(string(e), prefix))
		}
	}
	return versions
}

type document struct {
	Requirements []string `yaml:"requirements"`
}

// Decode parses conandata.yml content. A missing or null `requirements`
// key and an empty document both yield an empty list.
func Decode(text string) (List, error) {
	var doc document
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return List{}, perrors.NewParseError("yaml", "", err)
	}
	l := make(List, 0, len(doc.Requirements))
	for _, r := range doc.Requirements {
		l = append(l, Requirement(r))
	}
	return l, nil
}

// Encode renders l as a block sequence under `requirements:`, one entry
// per line. Scalars are rendered by yaml.v3 so values that need quoting
// are quoted.
func Encode(l List) (string, error) {
	var b strings.Builder
	b.WriteString("requirements:\n")
	for _, r := range l {
		scalar, err := yaml.Marshal(string(r))
		if err != nil {
			return "", fmt.Errorf("encode %q: %w", r, err)
		}
		b.WriteString("- ")
		b.Write(scalar) // yaml.Marshal terminates the scalar with a newline
	}
	return b.String(), nil
}
