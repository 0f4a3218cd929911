package models

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestParseChangeKind(t *testing.T) {
	tests := []struct {
		native   string
		expected ChangeKind
	}{
		{" ", Unmodified},
		{".", Unmodified},
		{"A", Added},
		{"D", Deleted},
		{"M", Modified},
		{"R", Renamed},
		{"R087", Renamed},
		{"C100", Copied},
		{"!", Ignored},
		{"?", Untracked},
		{"U", Conflicted},
		{"T", TypeChanged},
		{"X", Unreadable},
		{"B", Unreadable},
		{"", Unreadable},
		{"M\n", Modified},
	}

	for _, tt := range tests {
		t.Run(tt.native, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseChangeKind(tt.native))
		})
	}
}

func TestGlyphs(t *testing.T) {
	expected := map[ChangeKind]rune{
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
	for kind, glyph := range expected {
		assert.Equal(t, glyph, kind.Glyph(), kind.String())
	}
}

func TestEveryKindHasDisplayAttributes(t *testing.T) {
	for k := Unmodified; k <= Unreadable; k++ {
		assert.NotEmpty(t, k.String())
		assert.NotEqual(t, lipgloss.Color(""), k.Color(), k.String())
	}
}

func TestOutOfRangeKindFallsBackToUnreadable(t *testing.T) {
	k := ChangeKind(42)
	assert.Equal(t, '?', k.Glyph())
	assert.Equal(t, "unreadable", k.String())
	assert.Equal(t, Unreadable.Color(), k.Color())
}

func TestComparisonString(t *testing.T) {
	assert.Equal(t, "workdir-vs-index", WorkdirVsIndex.String())
	assert.Equal(t, "index-vs-head", IndexVsHead.String())
}
