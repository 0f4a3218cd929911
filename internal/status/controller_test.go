package status

import (
	"context"
	"errors"
	"testing"

	"github.com/chmouel/lazystage/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, unstaged, staged []models.RawChange) (*Controller, *fakeRepo, *fakeMutator, *[]string) {
	t.Helper()
	calls := []string{}
	repo := newFakeRepo(&calls)
	repo.changes[models.WorkdirVsIndex] = unstaged
	repo.changes[models.IndexVsHead] = staged
	mut := newFakeMutator(&calls)

	c, err := NewController(context.Background(), repo, mut)
	require.NoError(t, err)
	calls = calls[:0]
	repo.queries = nil
	return c, repo, mut, &calls
}

func TestNewControllerLoadsBothLists(t *testing.T) {
	calls := []string{}
	repo := newFakeRepo(&calls)
	repo.changes[models.WorkdirVsIndex] = []models.RawChange{raw("M", "", "a.txt")}
	repo.changes[models.IndexVsHead] = []models.RawChange{raw("A", "", "b.txt"), raw("D", "", "c.txt")}

	c, err := NewController(context.Background(), repo, newFakeMutator(&calls))
	require.NoError(t, err)

	assert.Equal(t, ViewUnstaged, c.Active())
	assert.Equal(t, 1, c.Unstaged().Len())
	assert.Equal(t, 2, c.Staged().Len())
	assert.Equal(t, []models.Comparison{models.WorkdirVsIndex, models.IndexVsHead}, repo.queries)
}

func TestNewControllerFailsOnRepositoryError(t *testing.T) {
	calls := []string{}
	repo := newFakeRepo(&calls)
	notRepo := errors.New("not a git repository")
	repo.errs[models.WorkdirVsIndex] = notRepo

	c, err := NewController(context.Background(), repo, newFakeMutator(&calls))
	require.ErrorIs(t, err, notRepo)
	assert.Nil(t, c)
}

func TestStageRenamedThenRefresh(t *testing.T) {
	unstaged := []models.RawChange{
		raw("M", "", "a.txt"),
		raw("R", "b.txt", "c.txt"),
	}
	c, _, _, calls := newTestController(t, unstaged, nil)
	c.Unstaged().Select(1)

	require.NoError(t, c.Dispatch(context.Background(), ActionStage))

	assert.Equal(t, []string{"add b.txt c.txt", "changes workdir-vs-index"}, *calls)
}

func TestDiscardOnEmptyListIsNoop(t *testing.T) {
	c, repo, _, calls := newTestController(t, nil, nil)

	require.NoError(t, c.Dispatch(context.Background(), ActionDiscard))

	assert.Empty(t, *calls)
	assert.Empty(t, repo.queries)
	assert.Equal(t, ViewUnstaged, c.Active())
}

func TestActionsWithoutSelectionAreNoops(t *testing.T) {
	c, _, _, calls := newTestController(t, []models.RawChange{raw("M", "", "a.txt")}, []models.RawChange{raw("M", "", "b.txt")})
	c.Unstaged().ClearSelection()

	require.NoError(t, c.Dispatch(context.Background(), ActionStage))
	require.NoError(t, c.Dispatch(context.Background(), ActionDiscard))
	assert.Empty(t, *calls)
}

func TestRejectedActionsPerView(t *testing.T) {
	unstaged := []models.RawChange{raw("M", "", "a.txt")}
	staged := []models.RawChange{raw("M", "", "b.txt")}
	c, _, _, calls := newTestController(t, unstaged, staged)

	assert.False(t, c.Allowed(ActionUnstage))
	require.NoError(t, c.Dispatch(context.Background(), ActionUnstage))
	assert.Empty(t, *calls, "unstage is not valid in the unstaged view")

	require.NoError(t, c.Dispatch(context.Background(), ActionSwitchView))
	*calls = (*calls)[:0]

	assert.False(t, c.Allowed(ActionStage))
	assert.False(t, c.Allowed(ActionDiscard))
	require.NoError(t, c.Dispatch(context.Background(), ActionStage))
	require.NoError(t, c.Dispatch(context.Background(), ActionDiscard))
	assert.Empty(t, *calls, "stage and discard are not valid in the staged view")
}

func TestUnstageInStagedView(t *testing.T) {
	staged := []models.RawChange{raw("M", "", "a.txt"), raw("D", "", "gone.txt")}
	c, _, _, calls := newTestController(t, nil, staged)
	require.NoError(t, c.SwitchTo(context.Background(), ViewStaged))
	c.Staged().Select(1)
	*calls = (*calls)[:0]

	require.NoError(t, c.Dispatch(context.Background(), ActionUnstage))

	assert.Equal(t, []string{"restore-staged gone.txt", "changes index-vs-head"}, *calls)
}

func TestDiscardUntrackedThenRefresh(t *testing.T) {
	c, _, _, calls := newTestController(t, []models.RawChange{raw("?", "", "junk.log")}, nil)

	require.NoError(t, c.Dispatch(context.Background(), ActionDiscard))

	assert.Equal(t, []string{"remove junk.log", "changes workdir-vs-index"}, *calls)
}

func TestSwitchViewRefreshesEnteredList(t *testing.T) {
	c, repo, _, _ := newTestController(t, nil, []models.RawChange{raw("M", "", "a.txt")})
	repo.changes[models.IndexVsHead] = []models.RawChange{raw("M", "", "a.txt"), raw("A", "", "b.txt")}

	require.NoError(t, c.Dispatch(context.Background(), ActionSwitchView))

	assert.Equal(t, ViewStaged, c.Active())
	assert.Equal(t, []models.Comparison{models.IndexVsHead}, repo.queries, "only the entered list is refreshed")
	assert.Equal(t, 2, c.Staged().Len())

	require.NoError(t, c.Dispatch(context.Background(), ActionSwitchView))
	assert.Equal(t, ViewUnstaged, c.Active())
	assert.Equal(t, []models.Comparison{models.IndexVsHead, models.WorkdirVsIndex}, repo.queries)
}

func TestSwitchToActiveViewIsNoop(t *testing.T) {
	c, repo, _, _ := newTestController(t, nil, nil)

	require.NoError(t, c.SwitchTo(context.Background(), ViewUnstaged))

	assert.Equal(t, ViewUnstaged, c.Active())
	assert.Empty(t, repo.queries)
}

func TestSwitchBackClampsUnstagedCursor(t *testing.T) {
	unstaged := []models.RawChange{raw("M", "", "a"), raw("M", "", "b"), raw("M", "", "c")}
	c, repo, _, _ := newTestController(t, unstaged, nil)
	c.Unstaged().Select(2)

	require.NoError(t, c.Dispatch(context.Background(), ActionSwitchView))
	repo.changes[models.WorkdirVsIndex] = []models.RawChange{raw("M", "", "a")}
	require.NoError(t, c.Dispatch(context.Background(), ActionSwitchView))

	i, ok := c.Unstaged().Cursor()
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestSwitchViewWithFailedRefreshKeepsStaleList(t *testing.T) {
	c, repo, _, _ := newTestController(t, nil, []models.RawChange{raw("M", "", "a.txt")})
	readErr := errors.New("cannot read index")
	repo.errs[models.IndexVsHead] = readErr

	err := c.Dispatch(context.Background(), ActionSwitchView)

	require.ErrorIs(t, err, readErr)
	assert.Equal(t, ViewStaged, c.Active())
	assert.Equal(t, 1, c.Staged().Len())
}

func TestMutationFailureStillRefreshes(t *testing.T) {
	c, repo, mut, calls := newTestController(t, []models.RawChange{raw("M", "", "a.txt"), raw("M", "", "b.txt")}, nil)
	c.Unstaged().Select(1)
	lockErr := errors.New("index.lock exists")
	mut.failing["add"] = lockErr
	repo.changes[models.WorkdirVsIndex] = []models.RawChange{raw("M", "", "a.txt"), raw("M", "", "b.txt")}

	err := c.Dispatch(context.Background(), ActionStage)

	require.ErrorIs(t, err, lockErr)
	assert.Equal(t, []string{"add b.txt", "changes workdir-vs-index"}, *calls)
	i, ok := c.Unstaged().Cursor()
	require.True(t, ok)
	assert.Equal(t, 1, i, "entry that failed stays selected")
}

func TestMutationAndRefreshErrorsAreJoined(t *testing.T) {
	c, repo, mut, _ := newTestController(t, []models.RawChange{raw("M", "", "a.txt")}, nil)
	lockErr := errors.New("index.lock exists")
	readErr := errors.New("cannot read index")
	mut.failing["checkout"] = lockErr
	repo.errs[models.WorkdirVsIndex] = readErr

	err := c.Dispatch(context.Background(), ActionDiscard)

	require.ErrorIs(t, err, lockErr)
	require.ErrorIs(t, err, readErr)
	assert.Equal(t, 1, c.Unstaged().Len(), "stale list is kept")
}

func TestMovementDelegatesToActiveList(t *testing.T) {
	unstaged := []models.RawChange{raw("M", "", "a"), raw("M", "", "b")}
	staged := []models.RawChange{raw("M", "", "x"), raw("M", "", "y"), raw("M", "", "z")}
	c, repo, _, calls := newTestController(t, unstaged, staged)
	ctx := context.Background()

	require.NoError(t, c.Dispatch(ctx, ActionNext))
	i, _ := c.Unstaged().Cursor()
	assert.Equal(t, 1, i)

	require.NoError(t, c.SwitchTo(ctx, ViewStaged))
	repo.queries = nil
	*calls = (*calls)[:0]

	require.NoError(t, c.Dispatch(ctx, ActionPrevious))
	i, _ = c.Staged().Cursor()
	assert.Equal(t, 2, i)

	require.NoError(t, c.Dispatch(ctx, ActionClearSelection))
	_, ok := c.Staged().Cursor()
	assert.False(t, ok)

	i, _ = c.Unstaged().Cursor()
	assert.Equal(t, 1, i, "inactive list is untouched")
	assert.Empty(t, repo.queries)
	assert.Empty(t, *calls)
}

func TestActiveEntries(t *testing.T) {
	c, _, _, _ := newTestController(t,
		[]models.RawChange{raw("M", "", "a"), raw("R", "b", "c")},
		[]models.RawChange{raw("A", "", "x")},
	)
	c.Select(1)

	entries, i, ok := c.ActiveEntries()
	require.True(t, ok)
	assert.Equal(t, 1, i)
	require.Len(t, entries, 2)
	assert.Equal(t, "R b -> c", entries[1].DisplayText())

	e, ok := c.ActiveEntry()
	require.True(t, ok)
	assert.Equal(t, "c", e.NewPath)

	require.NoError(t, c.SwitchTo(context.Background(), ViewStaged))
	entries, i, ok = c.ActiveEntries()
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, "A x", entries[0].DisplayText())
}

func TestViewHelpers(t *testing.T) {
	assert.Equal(t, ViewStaged, ViewUnstaged.Other())
	assert.Equal(t, ViewUnstaged, ViewStaged.Other())
	assert.Equal(t, models.WorkdirVsIndex, ViewUnstaged.Comparison())
	assert.Equal(t, models.IndexVsHead, ViewStaged.Comparison())
	assert.Equal(t, "staged", ViewStaged.String())
	assert.Equal(t, "discard", ActionDiscard.String())
}
