package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/conan-io/conan-panel/internal/catalog"
	"github.com/conan-io/conan-panel/internal/installer"
	"github.com/conan-io/conan-panel/internal/logger"
	"github.com/conan-io/conan-panel/internal/selection"
)

type focus int

const (
	focusList   focus = iota // moving through recipes
	focusSearch              // typing a filter
)

type panelModel struct {
	ctx   context.Context
	store *catalog.Store
	ctl   *selection.Controller
	log   *logger.Logger

	search  textinput.Model
	spinner spinner.Model
	focus   focus

	cat        *catalog.Catalog
	view       *selection.View
	names      []string
	cursor     int
	offset     int
	versionIdx int

	status    string
	statusErr bool

	width  int
	height int

	loading    bool // initial catalog load
	refreshing bool // remote refresh in flight
	busy       bool // install or remove in flight
}

func newModel(ctx context.Context, opts Options) panelModel {
	if opts.Log == nil {
		opts.Log = logger.NewDiscard()
	}
	ctl := opts.Controller
	if ctl == nil {
		ctl = &selection.Controller{}
	}

	si := textinput.New()
	si.Placeholder = "filter recipes"
	si.Prompt = "/ "
	si.Width = 30
	si.SetValue(opts.Query)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = focusStyle

	return panelModel{
		ctx:     ctx,
		store:   opts.Store,
		ctl:     ctl,
		log:     opts.Log,
		search:  si,
		spinner: sp,
		loading: opts.Store != nil,
	}
}

// ── tea.Model interface ───────────────────────────────────────────────────────

func (m panelModel) Init() tea.Cmd {
	if m.store == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, openCmd(m.ctx, m.store))
}

func (m panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.clampOffset()
		return m, nil

	case spinner.TickMsg:
		if !m.spinning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case catalogLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("catalog load failed")
			m.setStatus("catalog: "+msg.err.Error(), true)
			return m, nil
		}
		m.cat = msg.cat
		return m, m.applyFilter(true)

	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			m.setStatus("refresh failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.cat = msg.cat
		m.setStatus(fmt.Sprintf("catalog updated: %d recipes", msg.cat.Len()), false)
		return m, m.applyFilter(true)

	case selectionMsg:
		if msg.name != m.selected() {
			return m, nil // cursor moved on
		}
		if msg.err != nil {
			m.view = nil
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.view = msg.view
		m.versionIdx = 0
		if msg.view != nil {
			for i, v := range msg.view.Versions {
				if v == msg.view.Version {
					m.versionIdx = i
					break
				}
			}
		}
		return m, nil

	case actionDoneMsg:
		m.busy = false
		m.reportAction(msg)
		if msg.name == m.selected() {
			return m, selectCmd(m.ctl, msg.name)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// ── keys ─────────────────────────────────────────────────────────────────────

func (m panelModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.focus == focusSearch {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	}
	if !m.ctl.Enabled {
		return m, nil
	}

	switch msg.String() {
	case "/", "tab":
		m.focus = focusSearch
		return m, m.search.Focus()
	case "up", "k":
		return m, m.moveCursor(-1)
	case "down", "j":
		return m, m.moveCursor(1)
	case "pgup":
		return m, m.moveCursor(-m.listHeight())
	case "pgdown":
		return m, m.moveCursor(m.listHeight())
	case "left", "h":
		m.moveVersion(-1)
	case "right", "l":
		m.moveVersion(1)
	case "i":
		return m.install()
	case "r":
		return m.remove()
	case "u":
		return m.refresh()
	}
	return m, nil
}

func (m panelModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "tab", "down":
		m.focus = focusList
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		return m, tea.Batch(cmd, m.applyFilter(false))
	}
	return m, cmd
}

// ── actions ──────────────────────────────────────────────────────────────────

func (m panelModel) install() (tea.Model, tea.Cmd) {
	if m.busy || m.view == nil {
		return m, nil
	}
	if !m.view.CanInstall {
		m.setStatus(m.view.Name+" is already required, remove it first", false)
		return m, nil
	}
	version := m.currentVersion()
	if version == "" {
		m.setStatus(m.view.Name+" has no versions to install", true)
		return m, nil
	}
	tick := m.startSpinner()
	m.busy = true
	m.setStatus(fmt.Sprintf("adding %s/%s...", m.view.Name, version), false)
	return m, tea.Batch(tick, installCmd(m.ctl, m.view.Name, version))
}

func (m panelModel) remove() (tea.Model, tea.Cmd) {
	if m.busy || m.view == nil {
		return m, nil
	}
	if !m.view.CanRemove {
		m.setStatus(m.view.Name+" is not required by this project", false)
		return m, nil
	}
	version := m.currentVersion()
	tick := m.startSpinner()
	m.busy = true
	m.setStatus(fmt.Sprintf("removing %s/%s...", m.view.Name, version), false)
	return m, tea.Batch(tick, removeCmd(m.ctl, m.view.Name, version))
}

func (m panelModel) refresh() (tea.Model, tea.Cmd) {
	if m.refreshing || m.store == nil {
		return m, nil
	}
	tick := m.startSpinner()
	m.refreshing = true
	m.setStatus("refreshing catalog...", false)
	return m, tea.Batch(tick, refreshCmd(m.ctx, m.store))
}

func (m *panelModel) reportAction(msg actionDoneMsg) {
	ref := msg.name + "/" + msg.version
	if msg.err != nil {
		m.log.Error().Err(msg.err).Str("requirement", ref).Msg(msg.op + " failed")
		m.setStatus(fmt.Sprintf("%s %s: %v", msg.op, ref, msg.err), true)
		return
	}
	switch msg.outcome {
	case installer.Refused:
		m.setStatus(installer.ConandataName+" was edited by hand, leaving it unchanged", false)
	case installer.Unchanged:
		if msg.op == "install" {
			m.setStatus(ref+" is already required", false)
		} else {
			m.setStatus(ref+" was not required", false)
		}
	case installer.Applied:
		if msg.op == "install" {
			m.setStatus("added "+ref, false)
		} else {
			m.setStatus("removed "+ref, false)
		}
	}
}

// ── list state ───────────────────────────────────────────────────────────────

// applyFilter recomputes the visible names and keeps the cursor on the
// same recipe when it is still listed. It returns the selection command
// when the highlighted recipe changed, or always when force is set.
func (m *panelModel) applyFilter(force bool) tea.Cmd {
	prev := m.selected()
	m.names = m.ctl.Filter(m.search.Value())
	m.cursor = 0
	for i, n := range m.names {
		if n == prev {
			m.cursor = i
			break
		}
	}
	m.clampOffset()
	cur := m.selected()
	if cur == "" {
		m.view = nil
		return nil
	}
	if cur == prev && !force {
		return nil
	}
	m.view = nil
	return selectCmd(m.ctl, cur)
}

func (m *panelModel) moveCursor(delta int) tea.Cmd {
	if len(m.names) == 0 {
		return nil
	}
	next := max(0, min(len(m.names)-1, m.cursor+delta))
	if next == m.cursor {
		return nil
	}
	m.cursor = next
	m.clampOffset()
	m.view = nil
	return selectCmd(m.ctl, m.selected())
}

func (m *panelModel) moveVersion(delta int) {
	if m.view == nil || len(m.view.Versions) == 0 {
		return
	}
	n := len(m.view.Versions)
	m.versionIdx = (m.versionIdx + delta + n) % n
}

func (m panelModel) currentVersion() string {
	if m.view == nil {
		return ""
	}
	if m.versionIdx < len(m.view.Versions) {
		return m.view.Versions[m.versionIdx]
	}
	return m.view.Version
}

func (m panelModel) selected() string {
	if m.cursor < 0 || m.cursor >= len(m.names) {
		return ""
	}
	return m.names[m.cursor]
}

func (m *panelModel) clampOffset() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m panelModel) listHeight() int {
	if m.height <= 0 {
		return 15
	}
	return max(3, m.height-8)
}

// ── status & spinner ─────────────────────────────────────────────────────────

func (m *panelModel) setStatus(text string, isErr bool) {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if maxW := m.width - 4; maxW > 3 && lipgloss.Width(text) > maxW {
		text = ansi.Truncate(text, maxW, "...")
	}
	m.status = text
	m.statusErr = isErr
}

func (m panelModel) spinning() bool {
	return m.loading || m.refreshing || m.busy
}

// startSpinner returns a tick only when the spinner is idle, so one tick
// loop runs at a time.
func (m panelModel) startSpinner() tea.Cmd {
	if m.spinning() {
		return nil
	}
	return m.spinner.Tick
}
