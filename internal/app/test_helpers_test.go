package app

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/models"
	"github.com/chmouel/lazystage/internal/theme"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory repository recording every collaborator call.
type fakeRepo struct {
	changes map[models.Comparison][]models.RawChange
	readErr error
	failing map[string]error
	calls   []string
	branch  string
	gitDir  string
}

func newFakeRepo(unstaged, staged []models.RawChange) *fakeRepo {
	return &fakeRepo{
		changes: map[models.Comparison][]models.RawChange{
			models.WorkdirVsIndex: unstaged,
			models.IndexVsHead:    staged,
		},
		failing: map[string]error{},
		branch:  "main",
	}
}

func (f *fakeRepo) Changes(_ context.Context, mode models.Comparison) ([]models.RawChange, error) {
	f.calls = append(f.calls, "changes "+mode.String())
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.changes[mode], nil
}

func (f *fakeRepo) record(verb string, paths ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(verb+" "+strings.Join(paths, " ")))
	if err, ok := f.failing[verb]; ok {
		return err
	}
	return nil
}

func (f *fakeRepo) Add(_ context.Context, paths ...string) error {
	return f.record("add", paths...)
}

func (f *fakeRepo) Checkout(_ context.Context, path string) error {
	return f.record("checkout", path)
}

func (f *fakeRepo) RestoreStaged(_ context.Context, path string) error {
	return f.record("restore-staged", path)
}

func (f *fakeRepo) ResetPath(_ context.Context, path string) error {
	return f.record("reset", path)
}

func (f *fakeRepo) Remove(path string) error {
	return f.record("remove", path)
}

func (f *fakeRepo) Root() string { return "/work/project" }

func (f *fakeRepo) CurrentBranch(context.Context) string { return f.branch }

func (f *fakeRepo) GitDir(context.Context) string { return f.gitDir }

// mutations returns recorded calls other than list reads.
func (f *fakeRepo) mutations() []string {
	var out []string
	for _, c := range f.calls {
		if !strings.HasPrefix(c, "changes ") {
			out = append(out, c)
		}
	}
	return out
}

func change(kind, path string) models.RawChange {
	return models.RawChange{NewPath: path, Kind: kind}
}

func testConfig() *config.AppConfig {
	cfg := config.DefaultConfig()
	cfg.Theme = theme.ClassicName
	cfg.AutoRefresh = false
	return cfg
}

func newTestModel(t *testing.T, cfg *config.AppConfig, repo *fakeRepo) *Model {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	m, err := NewModel(context.Background(), cfg, repo)
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	repo.calls = nil
	return m
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func numbered(kind string, n int) []models.RawChange {
	out := make([]models.RawChange, n)
	for i := range out {
		out[i] = change(kind, fmt.Sprintf("file%02d.txt", i))
	}
	return out
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}
