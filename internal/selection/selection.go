// Package selection backs the detail view of one catalog entry: what the
// recipe is, which versions exist, and whether the active project already
// requires it.
package selection

import (
	"fmt"
	"strings"

	"github.com/conan-io/conan-panel/internal/catalog"
	"github.com/conan-io/conan-panel/internal/conandata"
	perrors "github.com/conan-io/conan-panel/internal/errors"
	"github.com/conan-io/conan-panel/internal/installer"
	"github.com/conan-io/conan-panel/internal/project"
)

const (
	noDescription = "No description available."
	noLicense     = "No license information."

	centerURL = "https://conan.io/center/recipes/"
	recipeURL = "https://github.com/conan-io/conan-center-index/tree/master/recipes/"
)

// ErrDisabled is returned by mutating calls until Conan is configured.
var ErrDisabled = perrors.New("conan is not configured, run `conan-panel configure` first")

// View is everything the detail pane shows for one entry.
type View struct {
	Name              string
	Description       string
	License           string
	Versions          []string
	Version           string // preselected version
	InstalledVersions []string
	CanInstall        bool
	CanRemove         bool
	CenterURL         string
	RecipeURL         string
	Project           *project.Project
}

// Installed reports whether any version of the entry is required.
func (v *View) Installed() bool { return len(v.InstalledVersions) > 0 }

// Controller ties the catalog, the active project and the manifest writer
// together. Catalog is read on every call so a refresh is picked up
// without rebuilding the controller.
type Controller struct {
	Catalog func() *catalog.Catalog
	Locator project.Locator
	Writer  *installer.Writer
	Enabled bool
}

// Select builds the View for name. An unknown name returns nil, nil.
func (c *Controller) Select(name string) (*View, error) {
	entry, ok := c.catalog().Lookup(name)
	if !ok {
		return nil, nil
	}

	v := &View{
		Name:        name,
		Description: entry.Description,
		License:     strings.Join(entry.Licenses, ", "),
		Versions:    append([]string(nil), entry.Versions...),
		CenterURL:   centerURL + name,
		RecipeURL:   recipeURL + name,
	}
	if strings.TrimSpace(v.Description) == "" {
		v.Description = noDescription
	}
	if v.License == "" {
		v.License = noLicense
	}

	p, err := c.Locator.Active()
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", name, err)
	}
	v.Project = p
	reqs, err := c.Writer.Requirements(p.Dir)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", name, err)
	}
	v.InstalledVersions = reqs.Installed(name)

	v.CanInstall = !v.Installed()
	v.CanRemove = v.Installed()
	switch {
	case v.Installed():
		v.Version = v.InstalledVersions[0]
	case len(v.Versions) > 0:
		v.Version = v.Versions[0]
	}
	return v, nil
}

// Install bootstraps the project manifests if needed and adds
// name/version to the requirement list.
func (c *Controller) Install(name, version string) (installer.Outcome, error) {
	p, err := c.mutable(name, version)
	if err != nil {
		return installer.Unchanged, err
	}
	if _, err := c.Writer.EnsureBootstrap(p.Dir); err != nil {
		return installer.Unchanged, err
	}
	return c.Writer.Add(p.Dir, conandata.NewRequirement(name, version))
}

// Remove drops name/version from the requirement list.
func (c *Controller) Remove(name, version string) (installer.Outcome, error) {
	p, err := c.mutable(name, version)
	if err != nil {
		return installer.Unchanged, err
	}
	return c.Writer.Remove(p.Dir, conandata.NewRequirement(name, version))
}

// Filter returns the catalog names containing substr.
func (c *Controller) Filter(substr string) []string {
	names := c.catalog().Filter(substr)
	if names == nil {
		return []string{}
	}
	return names
}

func (c *Controller) mutable(name, version string) (*project.Project, error) {
	if !c.Enabled {
		return nil, ErrDisabled
	}
	if name == "" || version == "" {
		return nil, fmt.Errorf("a package name and version are required")
	}
	return c.Locator.Active()
}

func (c *Controller) catalog() *catalog.Catalog {
	if c.Catalog == nil {
		return nil
	}
	return c.Catalog()
}
