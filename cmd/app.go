package cmd

import (
	"github.com/conan-io/conan-panel/internal/catalog"
	"github.com/conan-io/conan-panel/internal/conan"
	"github.com/conan-io/conan-panel/internal/config"
	"github.com/conan-io/conan-panel/internal/installer"
	"github.com/conan-io/conan-panel/internal/logger"
	"github.com/conan-io/conan-panel/internal/project"
	"github.com/conan-io/conan-panel/internal/selection"
)

type appOptions struct {
	DataDir string
	Project string
	Verbose bool
	Console bool
	// NoLogFile skips creating a log file (the logs command reads them).
	NoLogFile bool
}

// app holds what every command shares: resolved settings, the logger, the
// catalog store and the manifest writer.
type app struct {
	dataDir   string
	project   string
	settings  *config.Settings
	log       *logger.Logger
	store     *catalog.Store
	writer    *installer.Writer
	conanPath string
	enabled   bool
}

// current is set by the root PersistentPreRunE.
var current *app

func newApp(opts appOptions) (*app, error) {
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}

	settings, err := config.Read(dataDir)
	if err != nil {
		return nil, err
	}

	level := ""
	if opts.Verbose {
		level = "debug"
	}
	log := logger.NewDiscard()
	if !opts.NoLogFile {
		log, err = logger.New(dataDir, logger.Options{Level: level, Stderr: opts.Console && opts.Verbose})
		if err != nil {
			return nil, err
		}
	}

	a := &app{
		dataDir:  dataDir,
		project:  opts.Project,
		settings: settings,
		log:      log,
		writer:   installer.New(log),
		store: catalog.NewStore(catalog.StoreOptions{
			Path:    settings.CatalogPath(dataDir),
			URL:     settings.CatalogURL,
			Timeout: settings.Timeout,
			Log:     log.Logger,
		}),
	}

	if p, err := conan.Resolve(settings.ConanExecutable); err == nil {
		a.conanPath, a.enabled = p, true
		log.Debug().Str("conan", p).Msg("conan executable found")
	} else {
		log.Warn().Err(err).Msg("conan is not configured, editing is disabled")
	}
	return a, nil
}

// locator returns the project locator for an explicit path argument, the
// --project flag, or the working directory, in that order.
func (a *app) locator(arg string) project.Locator {
	if arg == "" {
		arg = a.project
	}
	return project.DirLocator{Path: arg}
}

func (a *app) controller(arg string) *selection.Controller {
	return &selection.Controller{
		Catalog: a.store.Catalog,
		Locator: a.locator(arg),
		Writer:  a.writer,
		Enabled: a.enabled,
	}
}

func (a *app) Close() error {
	return a.log.Close()
}
