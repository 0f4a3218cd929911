package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazystage/internal/models"
	"github.com/chmouel/lazystage/internal/status"
	"github.com/muesli/reflow/truncate"
)

const (
	// bodyTop is the screen row of the first entry: header and tab bar come first.
	bodyTop = 2
	// chromeLines counts header, tab bar, notice line and footer.
	chromeLines = 4
	ellipsis    = "…"
)

// View renders the active screen for the Bubble Tea program.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	// Wait for window size before rendering full UI
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch {
	case m.confirm != nil:
		return m.overlay(m.renderConfirm())
	case m.showHelp:
		return m.overlay(m.renderHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		m.renderBody(),
		m.renderNotice(),
		m.renderFooter(),
	)
}

func (m *Model) bodyHeight() int {
	return max(m.height-chromeLines, 1)
}

// ensureCursorVisible scrolls the active view so the selected row is on screen.
func (m *Model) ensureCursorVisible() {
	view := m.controller.Active()
	entries, cursor, selected := m.controller.ActiveEntries()
	height := m.bodyHeight()
	offset := m.offsets[view]

	if selected {
		if cursor < offset {
			offset = cursor
		}
		if cursor >= offset+height {
			offset = cursor - height + 1
		}
	}
	offset = min(offset, max(len(entries)-height, 0))
	m.offsets[view] = max(offset, 0)
}

func (m *Model) renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(m.theme.TextFg).
		Bold(true).
		Padding(0, 1)
	branchStyle := lipgloss.NewStyle().Foreground(m.theme.SuccessFg)
	mutedStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)

	content := "lazystage " + mutedStyle.Render(filepath.Base(m.repo.Root()))
	if m.branch != "" {
		content = fmt.Sprintf("%s %s", content, branchStyle.Render(m.branch))
	}
	return truncate.StringWithTail(headerStyle.Render(content), uint(max(m.width, 0)), ellipsis)
}

func (m *Model) renderTabs() string {
	active := lipgloss.NewStyle().
		Foreground(m.theme.AccentFg).
		Background(m.theme.Accent).
		Bold(true).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Foreground(m.theme.MutedFg).
		Padding(0, 1)

	tab := func(v status.View, title string, count int) string {
		label := fmt.Sprintf("%s (%d)", title, count)
		if m.controller.Active() == v {
			return active.Render(label)
		}
		return inactive.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		tab(status.ViewUnstaged, "Unstaged", m.controller.Unstaged().Len()),
		" ",
		tab(status.ViewStaged, "Staged", m.controller.Staged().Len()),
	)
}

func (m *Model) renderBody() string {
	entries, cursor, selected := m.controller.ActiveEntries()
	height := m.bodyHeight()
	offset := m.offsets[m.controller.Active()]

	lines := make([]string, 0, height)
	if len(entries) == 0 {
		empty := "nothing to stage"
		if m.controller.Active() == status.ViewStaged {
			empty = "nothing staged"
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.MutedFg).Padding(0, 1).Render(empty))
	}
	for i := offset; i < len(entries) && len(lines) < height; i++ {
		lines = append(lines, m.renderEntry(entries[i], selected && i == cursor))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderEntry draws one row: optional file icon, then the display text,
// coloured by change kind and truncated to the window width.
func (m *Model) renderEntry(e status.Entry, highlighted bool) string {
	text := e.DisplayText()
	if m.config.ShowIcons {
		text = iconWithSpace(deviconForName(filepath.Base(e.NewPath), false)) + text
	}
	width := max(m.width-2, 1)
	text = truncate.StringWithTail(text, uint(width), ellipsis)

	style := lipgloss.NewStyle().
		Foreground(e.Kind.Color()).
		Padding(0, 1)
	if highlighted {
		style = style.
			Background(m.theme.Highlight).
			Bold(true).
			Width(m.width)
	}
	return style.Render(text)
}

func (m *Model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(m.theme.SuccessFg).Padding(0, 1)
	if m.noticeIsError {
		style = style.Foreground(m.theme.ErrorFg)
	}
	return style.Render(truncate.StringWithTail(m.notice, uint(max(m.width-2, 1)), ellipsis))
}

func (m *Model) renderFooter() string {
	footerStyle := lipgloss.NewStyle().Padding(0, 1)
	return footerStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m *Model) renderConfirm() string {
	path := m.confirm.NewPath
	question := fmt.Sprintf("Discard changes to %s?", path)
	if m.confirm.Kind == models.Untracked {
		question = fmt.Sprintf("Delete untracked file %s?", path)
	}
	hint := lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("[y]es / [n]o")
	return m.boxStyle(m.theme.WarnFg).Render(question + "\n\n" + hint)
}

func (m *Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	title := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Accent).Render("Keys")
	return m.boxStyle(m.theme.Border).Render(title + "\n\n" + h.FullHelpView(m.keys.FullHelp()))
}

func (m *Model) boxStyle(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(m.theme.TextFg).
		Padding(1, 2)
}

// overlay centres content over the screen.
func (m *Model) overlay(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
