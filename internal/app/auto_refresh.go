package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/app/services"
)

func (m *Model) startGitWatcher() tea.Cmd {
	if !m.config.AutoRefresh {
		return nil
	}
	if m.watch != nil && m.watch.Started {
		return nil
	}
	if m.watch == nil {
		m.watch = services.NewGitWatchService(m.repo.GitDir(m.ctx), m.debugf)
	}
	started, err := m.watch.Start()
	if err != nil {
		m.showError(err)
		return nil
	}
	if !started {
		return nil
	}
	return m.waitForGitWatchEvent()
}

func (m *Model) stopGitWatcher() {
	if m.watch == nil || !m.watch.Started {
		return
	}
	m.watch.Stop()
}

func (m *Model) waitForGitWatchEvent() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	events := m.watch.NextEvent()
	if events == nil {
		return nil
	}
	done := m.watch.Done
	return func() tea.Msg {
		select {
		case _, ok := <-events:
			if !ok {
				return nil
			}
			return gitDirChangedMsg{}
		case <-done:
			return nil
		}
	}
}

func (m *Model) shouldRefreshGitEvent(now time.Time) bool {
	if m.watch == nil {
		return true
	}
	return m.watch.ShouldRefresh(now)
}

// handleGitDirChanged refreshes the active list, or schedules one trailing
// refresh when the event lands inside the debounce window.
func (m *Model) handleGitDirChanged() (tea.Model, tea.Cmd) {
	if m.watch != nil {
		m.watch.ResetWaiting()
	}
	cmds := []tea.Cmd{m.waitForGitWatchEvent()}

	switch {
	case m.shouldRefreshGitEvent(time.Now()):
		m.refreshFromDisk()
	case !m.pendingRefresh:
		m.pendingRefresh = true
		cmds = append(cmds, tea.Tick(services.GitWatchDebounce, func(time.Time) tea.Msg {
			return debouncedRefreshMsg{}
		}))
	}
	return m, tea.Batch(cmds...)
}

// refreshFromDisk reloads the active list after an outside change.
// Success is silent so it does not hide the last action's notice.
func (m *Model) refreshFromDisk() {
	err := m.controller.Refresh(m.ctx)
	m.branch = m.repo.CurrentBranch(m.ctx)
	m.ensureCursorVisible()
	if err != nil {
		m.showError(err)
	}
}
