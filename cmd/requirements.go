package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/conan-io/conan-panel/internal/conandata"
	"github.com/conan-io/conan-panel/internal/guard"
	"github.com/conan-io/conan-panel/internal/installer"
	"github.com/conan-io/conan-panel/internal/selection"
)

var installCmd = &cobra.Command{
	Use:   "install <name>[/<version>]",
	Short: "Add a requirement to the project",
	Long: `Adds name/version to the project's conandata.yml, creating conanfile.py
and conandata.yml first when needed. Without a version the newest catalog
version is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>[/<version>]",
	Short: "Remove a requirement from the project",
	Long: `Removes name/version from the project's conandata.yml. Without a
version every required version of name is removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the project's requirements",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create conanfile.py and conandata.yml in the project",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(installCmd, removeCmd, listCmd, initCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	a := current
	if _, err := a.store.Open(cmd.Context()); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	ctl := a.controller("")
	ref := conandata.Requirement(args[0])
	name, version := ref.Name(), ref.Version()

	v, err := ctl.Select(name)
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("no recipe named %q in the catalog", name)
	}
	if !v.CanInstall {
		fmt.Printf("  %s %s is already required (%s), remove it first\n",
			warnStyle.Render("!"), name, v.InstalledVersions[0])
		return nil
	}
	switch {
	case version == "" && v.Version == "":
		return fmt.Errorf("%s has no versions in the catalog", name)
	case version == "":
		version = v.Version
	case !slices.Contains(v.Versions, version):
		return fmt.Errorf("%s has no version %s in the catalog (available: %v)", name, version, v.Versions)
	}

	a.writer.OnStep = printStep
	out, err := ctl.Install(name, version)
	if err != nil {
		return err
	}
	printOutcome(out, "Added", conandata.NewRequirement(name, version))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	a := current
	ctl := a.controller("")
	ref := conandata.Requirement(args[0])
	name := ref.Name()

	p, err := ctl.Locator.Active()
	if err != nil {
		return err
	}
	versions := []string{ref.Version()}
	if ref.Version() == "" {
		reqs, err := a.writer.Requirements(p.Dir)
		if err != nil {
			return err
		}
		versions = reqs.Installed(name)
		if len(versions) == 0 {
			fmt.Printf("  %s %s is not required by %s\n", dimStyle.Render("·"), name, p.Name)
			return nil
		}
	}

	for _, version := range versions {
		out, err := ctl.Remove(name, version)
		if err != nil {
			return err
		}
		printOutcome(out, "Removed", conandata.NewRequirement(name, version))
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	a := current
	p, err := a.locator("").Active()
	if err != nil {
		return err
	}
	path := installer.ConandataPath(p.Dir)

	fmt.Println()
	fmt.Printf("  %s %s\n\n", labelStyle.Render("Project:"), valStyle.Render(p.FullPath))
	if !guard.IsGuarded(path) {
		if guard.Claimable(path) {
			fmt.Printf("  %s\n\n", dimStyle.Render("no requirements yet, run `conan-panel install <name>`"))
		} else {
			fmt.Printf("  %s %s is not managed by conan-panel\n\n", warnStyle.Render("!"), installer.ConandataName)
		}
		return nil
	}

	reqs, err := a.writer.Requirements(p.Dir)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		fmt.Printf("  %s\n\n", dimStyle.Render("no requirements"))
		return nil
	}
	for _, r := range reqs {
		fmt.Printf("    %s %s  %s\n", okStyle.Render("●"), r.Name(), dimStyle.Render(r.Version()))
	}
	fmt.Println()
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	a := current
	if !a.enabled {
		return selection.ErrDisabled
	}
	p, err := a.locator("").Active()
	if err != nil {
		return err
	}

	a.writer.OnStep = printStep
	res, err := a.writer.EnsureBootstrap(p.Dir)
	if err != nil {
		return err
	}
	printBootstrap(installer.ConanfileName, res.Conanfile)
	printBootstrap(installer.ConandataName, res.Conandata)
	return nil
}

// ── output ────────────────────────────────────────────────────────────────────

func printStep(step, total int, label string) {
	fmt.Println(dimStyle.Render(fmt.Sprintf("  [%d/%d] %s", step, total, label)))
}

func printOutcome(out installer.Outcome, verb string, req conandata.Requirement) {
	switch out {
	case installer.Applied:
		fmt.Printf("  %s %s %s\n", okStyle.Render("✓"), verb, valStyle.Render(string(req)))
	case installer.Unchanged:
		fmt.Printf("  %s %s: nothing to do\n", dimStyle.Render("·"), req)
	case installer.Refused:
		fmt.Printf("  %s %s was edited by hand, leaving it unchanged\n", warnStyle.Render("!"), installer.ConandataName)
		fmt.Printf("    %s\n", dimStyle.Render("restore the two header comment lines to let conan-panel manage it"))
	}
}

func printBootstrap(file string, out installer.Outcome) {
	switch out {
	case installer.Applied:
		fmt.Printf("  %s created %s\n", okStyle.Render("✓"), file)
	case installer.Unchanged:
		fmt.Printf("  %s %s already managed\n", dimStyle.Render("·"), file)
	case installer.Refused:
		fmt.Printf("  %s %s exists and is not managed by conan-panel, left alone\n", warnStyle.Render("!"), file)
	}
}
