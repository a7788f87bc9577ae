package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conan-io/conan-panel/internal/catalog"
	"github.com/conan-io/conan-panel/internal/config"
	"github.com/conan-io/conan-panel/internal/guard"
	"github.com/conan-io/conan-panel/internal/installer"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Conan, catalog and project status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := current

	fmt.Println()
	fmt.Printf("  %s %s\n", labelStyle.Render("Data dir:"), valStyle.Render(a.dataDir))
	fmt.Printf("  %s %s\n", labelStyle.Render("Settings:"), dimStr(config.ConfigPath(a.dataDir)))
	if a.enabled {
		fmt.Printf("  %s %s %s\n\n", labelStyle.Render("Conan:   "), okStyle.Render("●"), a.conanPath)
	} else {
		fmt.Printf("  %s %s %s\n\n", labelStyle.Render("Conan:   "), badStyle.Render("●"), dimStr("not configured, run `conan-panel configure --conan <path>`"))
	}

	// catalog
	path := a.store.Path()
	fmt.Printf("  %s %s\n", labelStyle.Render("Catalog: "), valStyle.Render(path))
	if cat, err := catalog.Load(path); err == nil {
		fmt.Printf("  %s %d recipes, published %s\n\n", labelStyle.Render("         "), cat.Len(), cat.FetchedAt.Format("2006-01-02"))
	} else {
		fmt.Printf("  %s %s\n\n", labelStyle.Render("         "), dimStr("not cached yet, run `conan-panel refresh`"))
	}

	// project
	p, err := a.locator("").Active()
	if err != nil {
		fmt.Printf("  %s %s\n\n", labelStyle.Render("Project: "), badStyle.Render(err.Error()))
		return nil
	}
	fmt.Printf("  %s %s\n", labelStyle.Render("Project: "), valStyle.Render(p.FullPath))
	for _, f := range []string{installer.ConanfilePath(p.Dir), installer.ConandataPath(p.Dir)} {
		fmt.Printf("    %s\n", fileState(f))
	}
	if reqs, err := a.writer.Requirements(p.Dir); err == nil && len(reqs) > 0 {
		fmt.Printf("\n  %s\n", labelStyle.Render("Requirements:"))
		for _, r := range reqs {
			fmt.Printf("    %s %s\n", okStyle.Render("●"), r)
		}
	}
	fmt.Println()
	return nil
}

func fileState(path string) string {
	name := dimStr(path)
	switch {
	case guard.IsGuarded(path):
		return okStyle.Render("●") + " managed    " + name
	case fileMissing(path):
		return dimStr("○") + " missing    " + name
	case guard.Claimable(path):
		return warnStyle.Render("●") + " incomplete " + name
	default:
		return warnStyle.Render("●") + " user-owned " + name
	}
}

func fileMissing(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

func dimStr(s string) string {
	return dimStyle.Render(s)
}
