package status

import (
	"context"
	"fmt"
	"strings"

	"github.com/chmouel/lazystage/internal/models"
)

// fakeRepo returns canned changes per comparison and records every query.
type fakeRepo struct {
	changes map[models.Comparison][]models.RawChange
	errs    map[models.Comparison]error
	queries []models.Comparison
	calls   *[]string
}

func newFakeRepo(calls *[]string) *fakeRepo {
	return &fakeRepo{
		changes: map[models.Comparison][]models.RawChange{},
		errs:    map[models.Comparison]error{},
		calls:   calls,
	}
}

func (r *fakeRepo) Changes(_ context.Context, mode models.Comparison) ([]models.RawChange, error) {
	r.queries = append(r.queries, mode)
	if r.calls != nil {
		*r.calls = append(*r.calls, "changes "+mode.String())
	}
	if err := r.errs[mode]; err != nil {
		return nil, err
	}
	return r.changes[mode], nil
}

// fakeMutator records executor and filesystem calls in order.
type fakeMutator struct {
	calls   *[]string
	failing map[string]error
}

func newFakeMutator(calls *[]string) *fakeMutator {
	return &fakeMutator{calls: calls, failing: map[string]error{}}
}

func (f *fakeMutator) record(verb string, paths ...string) error {
	call := strings.TrimSpace(verb + " " + strings.Join(paths, " "))
	*f.calls = append(*f.calls, call)
	if err, ok := f.failing[verb]; ok {
		return fmt.Errorf("%s: %w", call, err)
	}
	return nil
}

func (f *fakeMutator) Add(_ context.Context, paths ...string) error {
	return f.record("add", paths...)
}

func (f *fakeMutator) Checkout(_ context.Context, path string) error {
	return f.record("checkout", path)
}

func (f *fakeMutator) RestoreStaged(_ context.Context, path string) error {
	return f.record("restore-staged", path)
}

func (f *fakeMutator) ResetPath(_ context.Context, path string) error {
	return f.record("reset", path)
}

func (f *fakeMutator) Remove(path string) error {
	return f.record("remove", path)
}

func raw(kind, oldPath, newPath string) models.RawChange {
	return models.RawChange{OldPath: oldPath, NewPath: newPath, Kind: kind}
}
