package models

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ChangeKind classifies how a file differs between two trees.
type ChangeKind int

// Change kinds reported by the repository.
const (
	Unmodified ChangeKind = iota
	Added
	Deleted
	Modified
	Renamed
	Copied
	Ignored
	Untracked
	Conflicted
	TypeChanged
	Unreadable
)

// Comparison identifies which pair of trees produced a change.
type Comparison int

// Comparison modes.
const (
	// WorkdirVsIndex lists unstaged changes.
	WorkdirVsIndex Comparison = iota
	// IndexVsHead lists staged changes.
	IndexVsHead
)

// String returns a human-readable name for the comparison.
func (c Comparison) String() string {
	switch c {
	case WorkdirVsIndex:
		return "workdir-vs-index"
	case IndexVsHead:
		return "index-vs-head"
	default:
		return "unknown"
	}
}

// RawChange is a change record as reported by the repository, before normalisation.
type RawChange struct {
	OldPath string
	NewPath string
	Kind    string // native change letter (e.g., "M", "R087", "?")
}

var kindNames = [...]string{
	Unmodified:  "unmodified",
	Added:       "added",
	Deleted:     "deleted",
	Modified:    "modified",
	Renamed:     "renamed",
	Copied:      "copied",
	Ignored:     "ignored",
	Untracked:   "untracked",
	Conflicted:  "conflicted",
	TypeChanged: "typechange",
	Unreadable:  "unreadable",
}

var kindGlyphs = [...]rune{
	Unmodified:  ' ',
	Added:       'A',
	Deleted:     'D',
	Modified:    'M',
	Renamed:     'R',
	Copied:      'C',
	Ignored:     '!',
	Untracked:   'U',
	Conflicted:  'X',
	TypeChanged: 'T',
	Unreadable:  '?',
}

// ANSI palette indices, so the colours follow the terminal's own scheme.
var kindColors = [...]lipgloss.Color{
	Unmodified:  lipgloss.Color("15"), // white
	Added:       lipgloss.Color("10"), // bright green
	Deleted:     lipgloss.Color("1"),  // red
	Modified:    lipgloss.Color("3"),  // yellow
	Renamed:     lipgloss.Color("6"),  // cyan
	Copied:      lipgloss.Color("12"), // bright blue
	Ignored:     lipgloss.Color("7"),  // grey
	Untracked:   lipgloss.Color("2"),  // green
	Conflicted:  lipgloss.Color("9"),  // bright red
	TypeChanged: lipgloss.Color("8"),
	Unreadable:  lipgloss.Color("8"),
}

func (k ChangeKind) valid() bool {
	return k >= Unmodified && k <= Unreadable
}

// String returns the lower-case name of the kind.
func (k ChangeKind) String() string {
	if !k.valid() {
		return kindNames[Unreadable]
	}
	return kindNames[k]
}

// Glyph returns the one-character marker shown in front of an entry.
func (k ChangeKind) Glyph() rune {
	if !k.valid() {
		return kindGlyphs[Unreadable]
	}
	return kindGlyphs[k]
}

// Color returns the foreground colour used to render an entry of this kind.
func (k ChangeKind) Color() lipgloss.Color {
	if !k.valid() {
		return kindColors[Unreadable]
	}
	return kindColors[k]
}

// ParseChangeKind maps a git change letter to a ChangeKind.
// Rename and copy similarity scores (e.g., "R087") are accepted.
// Unknown letters map to Unreadable.
func ParseChangeKind(native string) ChangeKind {
	native = strings.TrimRight(native, "\r\n\t")
	if native == "" {
		return Unreadable
	}
	switch native[0] {
	case ' ', '.':
		return Unmodified
	case 'A':
		return Added
	case 'D':
		return Deleted
	case 'M':
		return Modified
	case 'R':
		return Renamed
	case 'C':
		return Copied
	case '!':
		return Ignored
	case '?':
		return Untracked
	case 'U':
		return Conflicted
	case 'T':
		return TypeChanged
	default:
		return Unreadable
	}
}
