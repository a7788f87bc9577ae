package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conan-io/conan-panel/internal/conan"
	"github.com/conan-io/conan-panel/internal/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Show or change settings",
	Long: `Without flags, prints the effective settings. With flags, updates them
in <data-dir>/config.yaml. CONAN_PANEL_* environment variables override
the file at runtime.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

var (
	flagConan       string
	flagCatalogURL  string
	flagCatalogFile string
	flagTimeout     time.Duration
)

func init() {
	rootCmd.AddCommand(configureCmd)
	f := configureCmd.Flags()
	f.StringVar(&flagConan, "conan", "", "path to the conan executable")
	f.StringVar(&flagCatalogURL, "catalog-url", "", "URL of the recipe catalog (targets-data.json)")
	f.StringVar(&flagCatalogFile, "catalog-file", "", "location of the catalog cache file")
	f.DurationVar(&flagTimeout, "timeout", 0, "catalog download timeout")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	a := current
	f := cmd.Flags()

	changed := false
	apply := func(s *config.Settings) {
		if f.Changed("conan") {
			s.ConanExecutable, changed = flagConan, true
		}
		if f.Changed("catalog-url") {
			s.CatalogURL, changed = flagCatalogURL, true
		}
		if f.Changed("catalog-file") {
			s.CatalogFile, changed = flagCatalogFile, true
		}
		if f.Changed("timeout") {
			s.Timeout, changed = flagTimeout, true
		}
	}
	// Effective settings: what this run resolved plus the new flags.
	s := *a.settings
	apply(&s)

	if changed {
		// Start from the file alone so environment overrides stay out of it.
		base, err := config.ReadFile(a.dataDir)
		if err != nil {
			return err
		}
		apply(base)
		if err := config.Write(a.dataDir, base); err != nil {
			return err
		}
		a.log.Info().Str("path", config.ConfigPath(a.dataDir)).Msg("settings saved")
		fmt.Printf("  %s saved %s\n", okStyle.Render("✓"), valStyle.Render(config.ConfigPath(a.dataDir)))
	}
	printSettings(a.dataDir, &s)
	return nil
}

func printSettings(dataDir string, s *config.Settings) {
	fmt.Println()
	conanLine := dimStyle.Render("(not set, using PATH)")
	if s.ConanExecutable != "" {
		conanLine = valStyle.Render(s.ConanExecutable)
	}
	fmt.Printf("  %s %s\n", labelStyle.Render("conan_executable:"), conanLine)
	if p, err := conan.Resolve(s.ConanExecutable); err == nil {
		fmt.Printf("  %s %s %s\n", labelStyle.Render("                 "), okStyle.Render("✓"), dimStyle.Render(p))
	} else {
		fmt.Printf("  %s %s %s\n", labelStyle.Render("                 "), badStyle.Render("✗"), dimStyle.Render("conan not found, editing is disabled"))
	}
	fmt.Printf("  %s %s\n", labelStyle.Render("catalog_url:     "), valStyle.Render(s.CatalogURL))
	fmt.Printf("  %s %s\n", labelStyle.Render("catalog_file:    "), valStyle.Render(s.CatalogPath(dataDir)))
	fmt.Printf("  %s %s\n\n", labelStyle.Render("timeout:         "), s.Timeout)
}
