// Package status models the two change lists (unstaged and staged) and the
// navigation state machine that applies stage, unstage and discard to them.
package status

import (
	"context"
	"fmt"

	"github.com/chmouel/lazystage/internal/models"
)

// Repository reports the changes between two trees.
type Repository interface {
	Changes(ctx context.Context, mode models.Comparison) ([]models.RawChange, error)
}

// Executor runs the version-control verbs used to mutate the index and working tree.
type Executor interface {
	// Add stages the given paths.
	Add(ctx context.Context, paths ...string) error
	// Checkout restores a path's working-tree content from the index.
	Checkout(ctx context.Context, path string) error
	// RestoreStaged restores a path's index entry from HEAD, undoing a staged deletion.
	RestoreStaged(ctx context.Context, path string) error
	// ResetPath moves a path's index entry back to HEAD without touching the working tree.
	ResetPath(ctx context.Context, path string) error
}

// Remover deletes files from the working tree.
type Remover interface {
	Remove(path string) error
}

// Mutator is everything a discard may need.
type Mutator interface {
	Executor
	Remover
}

// Entry holds the data shared by unstaged and staged entries.
// OldPath is only set for renames and copies.
type Entry struct {
	OldPath string
	NewPath string
	Kind    models.ChangeKind
}

// DisplayText renders the entry as a single line.
func (e Entry) DisplayText() string {
	if e.Kind == models.Renamed {
		return fmt.Sprintf("%c %s -> %s", e.Kind.Glyph(), e.OldPath, e.NewPath)
	}
	return fmt.Sprintf("%c %s", e.Kind.Glyph(), e.NewPath)
}

func (e Entry) data() Entry {
	return e
}

func newEntry(raw models.RawChange) Entry {
	e := Entry{
		OldPath: raw.OldPath,
		NewPath: raw.NewPath,
		Kind:    models.ParseChangeKind(raw.Kind),
	}
	if e.NewPath == "" {
		e.NewPath = e.OldPath
	}
	if e.Kind != models.Renamed && e.Kind != models.Copied {
		e.OldPath = ""
	}
	return e
}

// UnstagedEntry is a change between the working tree and the index.
type UnstagedEntry struct {
	Entry
}

// NewUnstagedEntries normalises raw working-tree changes.
func NewUnstagedEntries(raw []models.RawChange) []UnstagedEntry {
	entries := make([]UnstagedEntry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, UnstagedEntry{Entry: newEntry(r)})
	}
	return entries
}

// Origin reports the comparison that produced the entry.
func (UnstagedEntry) Origin() models.Comparison {
	return models.WorkdirVsIndex
}

// Stage adds the change to the index. A rename was reported as delete-old
// plus add-new, so both paths are staged together.
func (e UnstagedEntry) Stage(ctx context.Context, x Executor) error {
	if e.Kind == models.Renamed {
		return x.Add(ctx, e.OldPath, e.NewPath)
	}
	return x.Add(ctx, e.NewPath)
}

// Discard reverts the working-tree change. Untracked files are deleted
// without backup. A rename deletes the new path and then restores the old
// one; if the restore fails the new file is already gone.
func (e UnstagedEntry) Discard(ctx context.Context, m Mutator) error {
	switch e.Kind {
	case models.Untracked:
		return m.Remove(e.NewPath)
	case models.Renamed:
		if err := m.Remove(e.NewPath); err != nil {
			return err
		}
		return m.Checkout(ctx, e.OldPath)
	default:
		return m.Checkout(ctx, e.NewPath)
	}
}

// StagedEntry is a change between the index and HEAD.
type StagedEntry struct {
	Entry
}

// NewStagedEntries normalises raw index changes.
func NewStagedEntries(raw []models.RawChange) []StagedEntry {
	entries := make([]StagedEntry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, StagedEntry{Entry: newEntry(r)})
	}
	return entries
}

// Origin reports the comparison that produced the entry.
func (StagedEntry) Origin() models.Comparison {
	return models.IndexVsHead
}

// Unstage moves the change back out of the index. A staged deletion is
// pulled back from HEAD instead of being reset.
func (e StagedEntry) Unstage(ctx context.Context, x Executor) error {
	if e.Kind == models.Deleted {
		return x.RestoreStaged(ctx, e.NewPath)
	}
	return x.ResetPath(ctx, e.NewPath)
}
