// Package cmd implements the conan-panel CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// SetVersionInfo is called from main.go with values injected at build time via -ldflags.
// It must be called before Execute().
func SetVersionInfo(version, commit, date string) {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"conan-panel %s (commit %s, built %s)\n", version, commit, date,
	))
	rootCmd.Version = version
}

var rootCmd = &cobra.Command{
	Use:   "conan-panel [project]",
	Short: "Browse Conan Center and manage a project's requirements",
	Long: `conan-panel browses the Conan Center recipe catalog and edits the
conanfile.py / conandata.yml pair of a Visual Studio project.

[project] is a .vcxproj file or a directory (default: current directory).

Examples:
  conan-panel                      interactive panel for the current directory
  conan-panel App.vcxproj          interactive panel for one project
  conan-panel search json          list recipes whose name contains "json"
  conan-panel install fmt          require the newest fmt
  conan-panel remove fmt/10.2.1    drop a requirement
  conan-panel refresh              download the latest catalog`,
	RunE:         runPanel,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
}

var (
	flagDataDir string
	flagVerbose bool
	flagProject string
)

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	if current != nil {
		_ = current.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory for settings, catalog cache and logs (default ~/.conan-vs-extension)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "project file or directory (default: current directory)")
}

// setup loads .env files and builds the shared app before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	loadEnvFiles()
	a, err := newApp(appOptions{
		DataDir:   flagDataDir,
		Project:   flagProject,
		Verbose:   flagVerbose,
		Console:   cmd != rootCmd, // the panel owns the terminal
		NoLogFile: cmd == logsCmd,
	})
	if err != nil {
		return err
	}
	current = a
	return nil
}

// loadEnvFiles loads environment variables from .env files. godotenv never
// overrides a variable that is already set, so .env.local goes first.
func loadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err == nil && flagVerbose {
			fmt.Fprintf(os.Stderr, "Loaded %s\n", name)
		}
	}
}
