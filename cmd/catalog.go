package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "List catalog recipes whose name contains text",
	Long: `List catalog recipes whose name contains text (case-sensitive), in
catalog order. Without text every recipe is listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a recipe and whether the project requires it",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download the latest recipe catalog",
	Long: `Downloads the catalog from the configured URL and replaces the local
cache. On any failure the existing cache is kept.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

var flagDescribe bool

func init() {
	rootCmd.AddCommand(searchCmd, showCmd, refreshCmd)
	searchCmd.Flags().BoolVarP(&flagDescribe, "describe", "d", false, "print each recipe's description")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a := current
	if _, err := a.store.Open(cmd.Context()); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	names := a.controller("").Filter(query)
	if len(names) == 0 {
		fmt.Println(dimStyle.Render("  no matching recipes"))
		return nil
	}

	cat := a.store.Catalog()
	width := 0
	for _, n := range names {
		width = max(width, len(n))
	}
	for _, n := range names {
		e, _ := cat.Lookup(n)
		latest := ""
		if len(e.Versions) > 0 {
			latest = e.Versions[0]
		}
		line := fmt.Sprintf("  %-*s  %s", width, n, valStyle.Render(latest))
		if flagDescribe && e.Description != "" {
			line += "  " + dimStyle.Render(e.Description)
		}
		fmt.Println(line)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	a := current
	if _, err := a.store.Open(cmd.Context()); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	v, err := a.controller("").Select(args[0])
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("no recipe named %q in the catalog", args[0])
	}

	fmt.Println()
	fmt.Printf("  %s\n", boldOK.Render(v.Name))
	fmt.Printf("  %s\n\n", v.Description)
	fmt.Printf("  %s %s\n", labelStyle.Render("License: "), v.License)
	fmt.Printf("  %s %s\n", labelStyle.Render("Versions:"), strings.Join(v.Versions, ", "))
	if v.Installed() {
		fmt.Printf("  %s %s\n", labelStyle.Render("Required:"), okStyle.Render(strings.Join(v.InstalledVersions, ", ")))
	} else {
		fmt.Printf("  %s %s\n", labelStyle.Render("Required:"), dimStyle.Render("no"))
	}
	fmt.Printf("  %s %s\n\n", labelStyle.Render("Project: "), valStyle.Render(v.Project.FullPath))
	fmt.Printf("  %s\n  %s\n\n", dimStyle.Render(v.CenterURL), dimStyle.Render(v.RecipeURL))
	return nil
}

func runRefresh(cmd *cobra.Command, args []string) error {
	a := current
	sp := newSpinner("Downloading " + a.store.URL())
	sp.start()
	cat, err := a.store.Refresh(cmd.Context())
	if err != nil {
		sp.setLabel("Catalog refresh failed, keeping the cached copy")
		sp.stop(err)
		return err
	}
	sp.setLabel("Catalog updated")
	sp.stop(nil)

	fmt.Printf("  %s %d recipes, published %s\n", labelStyle.Render("Catalog:"),
		cat.Len(), cat.FetchedAt.Format("2006-01-02"))
	fmt.Printf("  %s %s\n", labelStyle.Render("Cache:  "), valStyle.Render(a.store.Path()))
	return nil
}
