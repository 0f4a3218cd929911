package status

import (
	"context"
	"errors"

	log "github.com/chmouel/lazystage/internal/log"
	"github.com/chmouel/lazystage/internal/models"
)

// View identifies which list is active.
type View int

// Views.
const (
	ViewUnstaged View = iota
	ViewStaged
)

// String returns a human-readable name for the view.
func (v View) String() string {
	switch v {
	case ViewUnstaged:
		return "unstaged"
	case ViewStaged:
		return "staged"
	default:
		return "unknown"
	}
}

// Comparison returns the comparison that feeds the view's list.
func (v View) Comparison() models.Comparison {
	if v == ViewStaged {
		return models.IndexVsHead
	}
	return models.WorkdirVsIndex
}

// Other returns the view that is not v.
func (v View) Other() View {
	if v == ViewStaged {
		return ViewUnstaged
	}
	return ViewStaged
}

// Action is a user request handled by the controller.
type Action int

// Actions.
const (
	ActionNext Action = iota
	ActionPrevious
	ActionClearSelection
	ActionSwitchView
	ActionStage
	ActionDiscard
	ActionUnstage
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionClearSelection:
		return "clear-selection"
	case ActionSwitchView:
		return "switch-view"
	case ActionStage:
		return "stage"
	case ActionDiscard:
		return "discard"
	case ActionUnstage:
		return "unstage"
	default:
		return "unknown"
	}
}

// Controller is the two-view navigation state machine. It is not safe for
// concurrent use: callers run every method from a single loop so that a
// mutation and the refresh that follows it are never interleaved with input.
type Controller struct {
	repo     Repository
	mutator  Mutator
	active   View
	unstaged *UnstagedList
	staged   *StagedList
}

// NewController loads both lists and starts in the unstaged view.
func NewController(ctx context.Context, repo Repository, mutator Mutator) (*Controller, error) {
	unstaged, err := repo.Changes(ctx, models.WorkdirVsIndex)
	if err != nil {
		return nil, err
	}
	staged, err := repo.Changes(ctx, models.IndexVsHead)
	if err != nil {
		return nil, err
	}
	return &Controller{
		repo:     repo,
		mutator:  mutator,
		active:   ViewUnstaged,
		unstaged: NewList(NewUnstagedEntries(unstaged)),
		staged:   NewList(NewStagedEntries(staged)),
	}, nil
}

// Active returns the active view.
func (c *Controller) Active() View {
	return c.active
}

// Unstaged returns the working-tree list.
func (c *Controller) Unstaged() *UnstagedList {
	return c.unstaged
}

// Staged returns the index list.
func (c *Controller) Staged() *StagedList {
	return c.staged
}

// ActiveEntries returns the entry data of the active list and its cursor.
func (c *Controller) ActiveEntries() (entries []Entry, cursor int, selected bool) {
	if c.active == ViewStaged {
		cursor, selected = c.staged.Cursor()
		return entryData(c.staged), cursor, selected
	}
	cursor, selected = c.unstaged.Cursor()
	return entryData(c.unstaged), cursor, selected
}

// Select moves the active list's cursor to index i.
func (c *Controller) Select(i int) {
	c.activeList().Select(i)
}

// ActiveEntry returns the selected entry data of the active list.
func (c *Controller) ActiveEntry() (Entry, bool) {
	if c.active == ViewStaged {
		e, ok := c.staged.Current()
		return e.Entry, ok
	}
	e, ok := c.unstaged.Current()
	return e.Entry, ok
}

// Allowed reports whether the action does anything in the active view.
func (c *Controller) Allowed(a Action) bool {
	switch a {
	case ActionStage, ActionDiscard:
		return c.active == ViewUnstaged
	case ActionUnstage:
		return c.active == ViewStaged
	case ActionNext, ActionPrevious, ActionClearSelection, ActionSwitchView:
		return true
	default:
		return false
	}
}

// SwitchTo activates view v after refreshing its list. Switching to the
// active view does nothing. When the refresh fails the view still changes
// and its list keeps its previous entries.
func (c *Controller) SwitchTo(ctx context.Context, v View) error {
	if v == c.active {
		return nil
	}
	err := c.refreshView(ctx, v)
	c.active = v
	return err
}

// Refresh re-queries the active list.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refreshView(ctx, c.active)
}

// Dispatch applies an action to the active view. Actions that are not valid
// in the active view, or that need a selection when none exists, are no-ops.
// After a mutation the active list is refreshed whether or not it succeeded.
func (c *Controller) Dispatch(ctx context.Context, a Action) error {
	switch a {
	case ActionNext:
		c.activeList().Next()
		return nil
	case ActionPrevious:
		c.activeList().Previous()
		return nil
	case ActionClearSelection:
		c.activeList().ClearSelection()
		return nil
	case ActionSwitchView:
		return c.SwitchTo(ctx, c.active.Other())
	}

	if !c.Allowed(a) {
		log.Printf("status: %s rejected in %s view", a, c.active)
		return nil
	}

	var mutErr error
	switch a {
	case ActionStage:
		e, ok := c.unstaged.Current()
		if !ok {
			return nil
		}
		log.Printf("status: stage %s", e.DisplayText())
		mutErr = e.Stage(ctx, c.mutator)
	case ActionDiscard:
		e, ok := c.unstaged.Current()
		if !ok {
			return nil
		}
		log.Printf("status: discard %s", e.DisplayText())
		mutErr = e.Discard(ctx, c.mutator)
	case ActionUnstage:
		e, ok := c.staged.Current()
		if !ok {
			return nil
		}
		log.Printf("status: unstage %s", e.DisplayText())
		mutErr = e.Unstage(ctx, c.mutator)
	default:
		return nil
	}

	return errors.Join(mutErr, c.Refresh(ctx))
}

type cursorMover interface {
	Next()
	Previous()
	Select(i int)
	ClearSelection()
}

func (c *Controller) activeList() cursorMover {
	if c.active == ViewStaged {
		return c.staged
	}
	return c.unstaged
}

func (c *Controller) refreshView(ctx context.Context, v View) error {
	raw, err := c.repo.Changes(ctx, v.Comparison())
	if err != nil {
		log.Printf("status: refresh %s failed: %v", v, err)
		return err
	}
	if v == ViewStaged {
		c.staged.Refresh(NewStagedEntries(raw))
	} else {
		c.unstaged.Refresh(NewUnstagedEntries(raw))
	}
	return nil
}

func entryData[E interface{ data() Entry }](l *List[E]) []Entry {
	entries := make([]Entry, 0, l.Len())
	for _, e := range l.Items() {
		entries = append(entries, e.data())
	}
	return entries
}
