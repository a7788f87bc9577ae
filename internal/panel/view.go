package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m panelModel) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader() + "\n\n")

	if !m.ctl.Enabled {
		b.WriteString("  " + warnStyle.Render("Conan is not configured.") + "\n")
		b.WriteString(dimStyle.Render("  Run `conan-panel configure --conan <path>` or put conan on PATH, then reopen the panel.") + "\n\n")
	}

	b.WriteString("  " + m.search.View() + "\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.viewList(), "  ", m.viewDetail()))
	b.WriteString("\n\n")
	b.WriteString(m.viewStatus() + "\n")
	b.WriteString(m.viewHelp())
	return b.String()
}

func (m panelModel) viewHeader() string {
	h := titleStyle.Render("  conan-panel")
	switch {
	case m.loading:
		return h + "  " + m.spinner.View() + " loading catalog..."
	case m.cat != nil:
		h += "  " + dimStyle.Render(fmt.Sprintf("%d recipes · %s", m.cat.Len(), m.cat.FetchedAt.Format("2006-01-02")))
	}
	if m.view != nil && m.view.Project != nil {
		h += "  " + sectionStyle.Render("project ") + focusStyle.Render(m.view.Project.Name)
	}
	return h
}

func (m panelModel) viewList() string {
	var b strings.Builder
	if len(m.names) == 0 {
		if m.cat != nil {
			b.WriteString(dimStyle.Render("  no matching recipes"))
		}
		return b.String()
	}

	end := min(len(m.names), m.offset+m.listHeight())
	width := 0
	for _, n := range m.names {
		width = max(width, len(n))
	}
	for i := m.offset; i < end; i++ {
		cursor := "  "
		style := normalStyle
		if !m.ctl.Enabled {
			style = dimStyle
		} else if i == m.cursor {
			cursor = focusStyle.Render(" ▶")
			style = selectedStyle
		}
		b.WriteString(fmt.Sprintf("%s %s\n", cursor, style.Render(fmt.Sprintf("%-*s", width, m.names[i]))))
	}
	if len(m.names) > end-m.offset {
		b.WriteString(dimStyle.Render(fmt.Sprintf("   %d/%d", m.cursor+1, len(m.names))))
	}
	return b.String()
}

func (m panelModel) viewDetail() string {
	v := m.view
	if v == nil {
		return ""
	}
	width := 56
	if m.width > 0 {
		width = max(30, m.width-30)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Name) + "\n")
	b.WriteString(lipgloss.NewStyle().Width(width-4).Render(v.Description) + "\n\n")
	b.WriteString(sectionStyle.Render("License   ") + v.License + "\n")

	b.WriteString(sectionStyle.Render("Version   "))
	if version := m.currentVersion(); version != "" {
		b.WriteString(focusStyle.Render("‹ "+version+" ›"))
		if n := len(v.Versions); n > 1 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d", m.versionIdx+1, n)))
		}
	} else {
		b.WriteString(dimStyle.Render("none"))
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Required  "))
	if v.Installed() {
		b.WriteString(selectedStyle.Render(strings.Join(v.InstalledVersions, ", ")))
	} else {
		b.WriteString(dimStyle.Render("no"))
	}
	b.WriteString("\n\n")

	b.WriteString(actionLabel("i install", v.CanInstall && m.ctl.Enabled) + "   " +
		actionLabel("r remove", v.CanRemove && m.ctl.Enabled) + "\n\n")
	b.WriteString(dimStyle.Render(v.CenterURL) + "\n")
	b.WriteString(dimStyle.Render(v.RecipeURL))

	return detailStyle.Width(width).Render(b.String())
}

func actionLabel(label string, enabled bool) string {
	if enabled {
		return selectedStyle.Render("[" + label + "]")
	}
	return dimStyle.Render("[" + label + "]")
}

func (m panelModel) viewStatus() string {
	if m.status == "" {
		return ""
	}
	prefix := "  "
	if m.refreshing || m.busy {
		prefix = "  " + m.spinner.View() + " "
	}
	if m.statusErr {
		return prefix + errorStyle.Render("✖ "+m.status)
	}
	return prefix + normalStyle.Render(m.status)
}

func (m panelModel) viewHelp() string {
	if m.focus == focusSearch {
		return helpStyle.Render("  type to filter · enter/esc back to list")
	}
	if !m.ctl.Enabled {
		return helpStyle.Render("  q quit")
	}
	refresh := "u refresh"
	if m.refreshing {
		refresh = "refreshing"
	}
	return helpStyle.Render("  ↑↓ move · ←→ version · / search · i install · r remove · " + refresh + " · q quit")
}
