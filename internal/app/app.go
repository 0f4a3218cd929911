// Package app implements the lazystage terminal UI on top of Bubble Tea.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/app/services"
	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/status"
	"github.com/chmouel/lazystage/internal/theme"
)

// Repository is what the model needs from git: the status collaborators
// plus a few facts for the header and the watcher.
type Repository interface {
	status.Repository
	status.Mutator
	Root() string
	CurrentBranch(ctx context.Context) string
	GitDir(ctx context.Context) string
}

// Model is the Bubble Tea model for lazystage. The controller is only ever
// touched from Update, so each mutation and its refresh finish before the
// next message is handled.
type Model struct {
	ctx        context.Context
	config     *config.AppConfig
	theme      *theme.Theme
	repo       Repository
	controller *status.Controller
	keys       keyMap
	help       help.Model
	watch      *services.GitWatchService

	branch string
	width  int
	height int
	// offsets keeps the first visible row of each view.
	offsets map[status.View]int

	notice         string
	noticeIsError  bool
	showHelp       bool
	confirm        *status.Entry
	pendingRefresh bool
	quitting       bool
}

// NewModel loads both status lists and builds the model. An error means
// the repository could not be read and the program should not start.
func NewModel(ctx context.Context, cfg *config.AppConfig, repo Repository) (*Model, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	controller, err := status.NewController(ctx, repo, repo)
	if err != nil {
		return nil, err
	}

	h := help.New()
	th := theme.GetTheme(cfg.Theme)
	h.Styles.ShortKey = h.Styles.ShortKey.Foreground(th.Accent)
	h.Styles.ShortDesc = h.Styles.ShortDesc.Foreground(th.MutedFg)
	h.Styles.FullKey = h.Styles.FullKey.Foreground(th.Accent)
	h.Styles.FullDesc = h.Styles.FullDesc.Foreground(th.TextFg)

	m := &Model{
		ctx:        ctx,
		config:     cfg,
		theme:      th,
		repo:       repo,
		controller: controller,
		keys:       newKeyMap(cfg.Keys),
		help:       h,
		branch:     repo.CurrentBranch(ctx),
		offsets:    map[status.View]int{},
	}
	m.syncKeys()
	return m, nil
}

// Init starts the git directory watcher when auto refresh is enabled.
func (m *Model) Init() tea.Cmd {
	return m.startGitWatcher()
}

// Update handles every incoming message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = max(msg.Width-2, 0)
		m.ensureCursorVisible()
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	case gitDirChangedMsg:
		return m.handleGitDirChanged()
	case debouncedRefreshMsg:
		m.pendingRefresh = false
		m.refreshFromDisk()
		return m, nil
	}
	return m, nil
}

// Controller exposes the view controller, mainly for tests.
func (m *Model) Controller() *status.Controller {
	return m.controller
}

// Close stops background work. It is safe to call more than once.
func (m *Model) Close() {
	m.stopGitWatcher()
}
