// Package panel implements the interactive Bubble Tea package browser.
// The panel has a search box, the filtered recipe list, and a detail pane
// for the highlighted recipe with a version picker and install/remove
// actions. All disk and network work runs in tea.Cmds and comes back as
// messages, so the model only changes on the event loop.
package panel

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/conan-io/conan-panel/internal/catalog"
	perrors "github.com/conan-io/conan-panel/internal/errors"
	"github.com/conan-io/conan-panel/internal/logger"
	"github.com/conan-io/conan-panel/internal/selection"
)

// Options wires the panel to its collaborators.
type Options struct {
	Store      *catalog.Store
	Controller *selection.Controller
	// Log receives file-only events; the alt screen owns the terminal.
	Log *logger.Logger
	// Query pre-fills the search box.
	Query string
}

// Run shows the panel until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	m := newModel(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil && perrors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// ── styles ────────────────────────────────────────────────────────────────────

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	helpStyle     = dimStyle

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)
