package panel

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/conan-io/conan-panel/internal/catalog"
	"github.com/conan-io/conan-panel/internal/installer"
	"github.com/conan-io/conan-panel/internal/selection"
)

// ── messages ─────────────────────────────────────────────────────────────────

type catalogLoadedMsg struct {
	cat *catalog.Catalog
	err error
}

type refreshDoneMsg struct {
	cat *catalog.Catalog
	err error
}

type selectionMsg struct {
	view *selection.View
	err  error
	name string
}

type actionDoneMsg struct {
	err     error
	op      string
	name    string
	version string
	outcome installer.Outcome
}

// ── commands ─────────────────────────────────────────────────────────────────

func openCmd(ctx context.Context, store *catalog.Store) tea.Cmd {
	return func() tea.Msg {
		cat, err := store.Open(ctx)
		return catalogLoadedMsg{cat: cat, err: err}
	}
}

func refreshCmd(ctx context.Context, store *catalog.Store) tea.Cmd {
	return func() tea.Msg {
		cat, err := store.Refresh(ctx)
		return refreshDoneMsg{cat: cat, err: err}
	}
}

func selectCmd(ctl *selection.Controller, name string) tea.Cmd {
	return func() tea.Msg {
		v, err := ctl.Select(name)
		return selectionMsg{name: name, view: v, err: err}
	}
}

func installCmd(ctl *selection.Controller, name, version string) tea.Cmd {
	return func() tea.Msg {
		out, err := ctl.Install(name, version)
		return actionDoneMsg{op: "install", name: name, version: version, outcome: out, err: err}
	}
}

func removeCmd(ctl *selection.Controller, name, version string) tea.Cmd {
	return func() tea.Msg {
		out, err := ctl.Remove(name, version)
		return actionDoneMsg{op: "remove", name: name, version: version, outcome: out, err: err}
	}
}
