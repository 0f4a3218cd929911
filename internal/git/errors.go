package git

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotRepository is returned when the directory is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// RepositoryError reports that the working tree could not be located or read.
type RepositoryError struct {
	Op  string
	Dir string
	Err error
}

func (e *RepositoryError) Error() string {
	if e.Dir == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Dir, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// ExecutionError reports a failed git verb.
type ExecutionError struct {
	Verb   string
	Paths  []string
	Output string
	Err    error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("git %s %s", e.Verb, strings.Join(e.Paths, " "))
	if e.Output != "" {
		return fmt.Sprintf("%s: %s", msg, e.Output)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// FilesystemError reports a failed delete in the working tree.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("remove %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
