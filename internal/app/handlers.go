package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/git"
	log "github.com/chmouel/lazystage/internal/log"
	"github.com/chmouel/lazystage/internal/status"
)

func (m *Model) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	if m.showHelp {
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		// any key closes the overlay
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Next):
		m.dispatch(status.ActionNext)
	case key.Matches(msg, m.keys.Previous):
		m.dispatch(status.ActionPrevious)
	case key.Matches(msg, m.keys.Clear):
		m.dispatch(status.ActionClearSelection)
	case key.Matches(msg, m.keys.Switch):
		m.dispatch(status.ActionSwitchView)
	case key.Matches(msg, m.keys.Stage):
		m.dispatch(status.ActionStage)
	case key.Matches(msg, m.keys.Unstage):
		m.dispatch(status.ActionUnstage)
	case key.Matches(msg, m.keys.Discard):
		m.requestDiscard()
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.stopGitWatcher()
	return m, tea.Quit
}

var doneVerbs = map[status.Action]string{
	status.ActionStage:   "staged",
	status.ActionUnstage: "unstaged",
	status.ActionDiscard: "discarded",
}

// dispatch runs one controller action and reports its outcome.
func (m *Model) dispatch(a status.Action) {
	entry, selected := m.controller.ActiveEntry()
	allowed := m.controller.Allowed(a)

	err := m.controller.Dispatch(m.ctx, a)
	m.syncKeys()
	m.ensureCursorVisible()

	if err != nil {
		m.showError(err)
		return
	}
	if a == status.ActionSwitchView {
		m.clearNotice()
		return
	}
	if verb, ok := doneVerbs[a]; ok && allowed && selected {
		m.showInfo(fmt.Sprintf("%s %s", verb, entry.NewPath))
	}
}

func (m *Model) requestDiscard() {
	if !m.controller.Allowed(status.ActionDiscard) {
		return
	}
	entry, ok := m.controller.ActiveEntry()
	if !ok {
		return
	}
	if !m.config.ConfirmDiscard {
		m.dispatch(status.ActionDiscard)
		return
	}
	m.confirm = &entry
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		pending := *m.confirm
		m.confirm = nil
		current, ok := m.controller.ActiveEntry()
		if !ok || current != pending {
			// the list was refreshed underneath the prompt
			m.showInfo("selection changed, discard cancelled")
			return m, nil
		}
		m.dispatch(status.ActionDiscard)
	case key.Matches(msg, m.keys.Cancel), msg.String() == "ctrl+c":
		m.confirm = nil
	}
	return m, nil
}

func (m *Model) refresh() {
	err := m.controller.Refresh(m.ctx)
	m.branch = m.repo.CurrentBranch(m.ctx)
	m.ensureCursorVisible()
	if err != nil {
		m.showError(err)
		return
	}
	m.showInfo("refreshed")
}

func (m *Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil || m.showHelp {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.dispatch(status.ActionPrevious)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.dispatch(status.ActionNext)
		return m, nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
	default:
		return m, nil
	}

	row := msg.Y - bodyTop
	if row < 0 || row >= m.bodyHeight() {
		return m, nil
	}
	m.controller.Select(m.offsets[m.controller.Active()] + row)
	return m, nil
}

func (m *Model) showInfo(message string) {
	m.notice = message
	m.noticeIsError = false
}

func (m *Model) clearNotice() {
	m.notice = ""
	m.noticeIsError = false
}

func (m *Model) showError(err error) {
	m.debugf("app: %v", err)
	m.notice = describeError(err)
	m.noticeIsError = true
}

// describeError picks the notification text for a failed action.
func describeError(err error) string {
	var (
		execErr *git.ExecutionError
		fsErr   *git.FilesystemError
		repoErr *git.RepositoryError
	)
	switch {
	case errors.As(err, &fsErr):
		return fmt.Sprintf("could not delete %s: %v", fsErr.Path, fsErr.Err)
	case errors.As(err, &execErr):
		return execErr.Error()
	case errors.As(err, &repoErr):
		return fmt.Sprintf("could not read repository: %v", repoErr.Err)
	default:
		return err.Error()
	}
}
