// Package git wraps the git commands used by lazystage.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	log "github.com/chmouel/lazystage/internal/log"
	"github.com/chmouel/lazystage/internal/models"
)

// LookupPath is used to find executables in PATH. It's exposed as a package variable
// so tests can mock it and avoid depending on system binaries being installed.
var LookupPath = exec.LookPath

// Service queries and mutates a single repository rooted at Root.
// Every command runs with the repository root as working directory, so all
// reported paths are relative to it.
type Service struct {
	root string
}

// NewService locates the work tree containing dir.
func NewService(ctx context.Context, dir string) (*Service, error) {
	if _, err := LookupPath("git"); err != nil {
		return nil, &RepositoryError{Op: "locate git", Dir: dir, Err: err}
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, &RepositoryError{Op: "get working directory", Err: err}
		}
		dir = wd
	}

	out, err := execGit(ctx, dir, []string{"rev-parse", "--show-toplevel"}, nil)
	if err != nil {
		var execErr *ExecutionError
		if errors.As(err, &execErr) && strings.Contains(execErr.Output, "not a git repository") {
			return nil, &RepositoryError{Op: "open repository", Dir: dir, Err: ErrNotRepository}
		}
		return nil, &RepositoryError{Op: "open repository", Dir: dir, Err: err}
	}
	root := strings.TrimSpace(out)
	if root == "" {
		// bare repositories and .git directories have no top level
		return nil, &RepositoryError{Op: "open repository", Dir: dir, Err: ErrNotRepository}
	}
	return &Service{root: filepath.Clean(root)}, nil
}

// Root returns the absolute path of the work tree.
func (s *Service) Root() string {
	return s.root
}

func debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command provided")
	}

	switch args[0] {
	case "git":
		// #nosec G204 -- arguments for git command come from internal logic and are not shell interpolated
		return exec.CommandContext(ctx, "git", args[1:]...), nil
	default:
		return nil, fmt.Errorf("unsupported command %q", args[0])
	}
}

// execGit executes git with args inside cwd. Exit codes listed in
// okReturncodes are treated as success.
func execGit(ctx context.Context, cwd string, args []string, okReturncodes []int) (string, error) {
	return execGitEnv(ctx, cwd, nil, args, okReturncodes)
}

// execGitEnv is execGit with extra environment variables.
func execGitEnv(ctx context.Context, cwd string, env, args []string, okReturncodes []int) (string, error) {
	full := append([]string{"git"}, args...)
	command := strings.Join(full, " ")
	if len(env) > 0 {
		debugf("run: %s %s (cwd=%s)", strings.Join(env, " "), command, cwd)
	} else {
		debugf("run: %s (cwd=%s)", command, cwd)
	}

	cmd, err := prepareAllowedCommand(ctx, full)
	if err != nil {
		return "", err
	}
	cmd.Dir = cwd
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) && slices.Contains(okReturncodes, exitError.ExitCode()) {
			debugf("ok: %s (exit %d)", command, exitError.ExitCode())
			return string(output), nil
		}
		detail := strings.TrimSpace(stderr.String())
		debugf("error: %s: %v %s", command, err, detail)
		return "", &ExecutionError{Verb: args[0], Paths: trailingPaths(args), Output: detail, Err: err}
	}

	debugf("ok: %s", command)
	return string(output), nil
}

// trailingPaths returns the arguments following "--".
func trailingPaths(args []string) []string {
	if i := slices.Index(args, "--"); i >= 0 {
		return args[i+1:]
	}
	return nil
}

func (s *Service) git(ctx context.Context, args ...string) (string, error) {
	return execGit(ctx, s.root, args, nil)
}

// Changes lists the differences for the given comparison in git's order.
func (s *Service) Changes(ctx context.Context, mode models.Comparison) ([]models.RawChange, error) {
	switch mode {
	case models.WorkdirVsIndex:
		others, err := s.git(ctx, "ls-files", "--others", "--exclude-standard", "-z")
		if err != nil {
			return nil, &RepositoryError{Op: "list untracked files", Dir: s.root, Err: err}
		}
		changes, err := s.workdirChanges(ctx, splitNul(others))
		if err != nil {
			return nil, &RepositoryError{Op: "read working tree changes", Dir: s.root, Err: err}
		}
		return changes, nil
	case models.IndexVsHead:
		out, err := s.git(ctx, "diff", "--cached", "--name-status", "-z", "--find-renames", "--no-ext-diff")
		if err != nil {
			return nil, &RepositoryError{Op: "read staged changes", Dir: s.root, Err: err}
		}
		return parseNameStatus(out), nil
	default:
		return nil, &RepositoryError{Op: "read changes", Dir: s.root, Err: fmt.Errorf("unknown comparison %d", mode)}
	}
}

// intentToAddBatch bounds the number of paths passed to one git add -N.
const intentToAddBatch = 500

// workdirChanges diffs the working tree against the index. Untracked paths
// are marked intent-to-add in a scratch copy of the index so git can pair a
// deleted tracked file with its moved copy; the real index is never written.
// Untracked paths that are not part of a rename are reported with kind "?".
func (s *Service) workdirChanges(ctx context.Context, untracked []string) ([]models.RawChange, error) {
	diffArgs := []string{"diff", "--name-status", "-z", "--find-renames", "--no-ext-diff"}
	if len(untracked) == 0 {
		out, err := s.git(ctx, diffArgs...)
		if err != nil {
			return nil, err
		}
		return parseNameStatus(out), nil
	}

	scratch, cleanup, err := s.scratchIndex(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	env := []string{"GIT_INDEX_FILE=" + scratch}

	for start := 0; start < len(untracked); start += intentToAddBatch {
		batch := untracked[start:min(start+intentToAddBatch, len(untracked))]
		args := append([]string{"add", "--intent-to-add", "--"}, batch...)
		if _, err := execGitEnv(ctx, s.root, env, args, nil); err != nil {
			return nil, err
		}
	}
	out, err := execGitEnv(ctx, s.root, env, diffArgs, nil)
	if err != nil {
		return nil, err
	}

	pending := make(map[string]struct{}, len(untracked))
	for _, path := range untracked {
		pending[path] = struct{}{}
	}
	changes := parseNameStatus(out)
	for i, c := range changes {
		if _, ok := pending[c.NewPath]; !ok {
			continue
		}
		delete(pending, c.NewPath)
		if k := c.Kind[0]; k != 'R' && k != 'C' {
			changes[i] = models.RawChange{NewPath: c.NewPath, Kind: "?"}
		}
	}
	for _, path := range untracked {
		if _, ok := pending[path]; ok {
			changes = append(changes, models.RawChange{NewPath: path, Kind: "?"})
		}
	}
	return changes, nil
}

// scratchIndex copies the repository index to a temporary file. Without an
// index yet, the returned path does not exist and git starts an empty one.
func (s *Service) scratchIndex(ctx context.Context) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "lazystage-index-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	scratch := filepath.Join(tmpDir, "index")

	gitDir := s.GitDir(ctx)
	if gitDir == "" {
		cleanup()
		return "", nil, fmt.Errorf("cannot locate git directory of %s", s.root)
	}
	if err := copyFile(filepath.Join(gitDir, "index"), scratch); err != nil && !errors.Is(err, os.ErrNotExist) {
		cleanup()
		return "", nil, err
	}
	return scratch, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// parseNameStatus parses the output of git diff --name-status -z.
// Format: "M\0path\0" or "R100\0old\0new\0" for renames and copies.
func parseNameStatus(raw string) []models.RawChange {
	fields := splitNul(raw)
	changes := make([]models.RawChange, 0, len(fields)/2)
	for i := 0; i < len(fields); i++ {
		kind := fields[i]
		if kind == "" {
			continue
		}
		if (kind[0] == 'R' || kind[0] == 'C') && i+2 < len(fields) {
			changes = append(changes, models.RawChange{OldPath: fields[i+1], NewPath: fields[i+2], Kind: kind})
			i += 2
			continue
		}
		if i+1 >= len(fields) {
			break
		}
		changes = append(changes, models.RawChange{NewPath: fields[i+1], Kind: kind})
		i++
	}
	return changes
}

func splitNul(raw string) []string {
	raw = strings.TrimSuffix(raw, "\x00")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\x00")
}

// Add stages paths.
func (s *Service) Add(ctx context.Context, paths ...string) error {
	_, err := s.git(ctx, append([]string{"add", "--"}, paths...)...)
	return err
}

// Checkout restores path's working-tree content from the index.
func (s *Service) Checkout(ctx context.Context, path string) error {
	_, err := s.git(ctx, "checkout", "--", path)
	return err
}

// RestoreStaged restores path's index entry from HEAD. The working tree is left alone.
func (s *Service) RestoreStaged(ctx context.Context, path string) error {
	_, err := s.git(ctx, "restore", "--staged", "--source=HEAD", "--", path)
	return err
}

// ResetPath moves path's index entry back to HEAD. On a branch without
// commits there is nothing to reset to, so the path is dropped from the index.
func (s *Service) ResetPath(ctx context.Context, path string) error {
	if !s.hasHead(ctx) {
		_, err := s.git(ctx, "rm", "--cached", "--quiet", "--", path)
		return err
	}
	_, err := s.git(ctx, "reset", "--quiet", "HEAD", "--", path)
	return err
}

// Remove deletes path from the working tree. Paths outside the work tree are refused.
func (s *Service) Remove(path string) error {
	target := filepath.Join(s.root, path)
	if !isPathWithin(s.root, target) || target == s.root {
		return &FilesystemError{Path: path, Err: fmt.Errorf("path is outside %s", s.root)}
	}
	debugf("remove: %s", target)
	if err := os.Remove(target); err != nil {
		return &FilesystemError{Path: path, Err: err}
	}
	return nil
}

func (s *Service) hasHead(ctx context.Context) bool {
	_, err := execGit(ctx, s.root, []string{"rev-parse", "--verify", "--quiet", "HEAD"}, nil)
	return err == nil
}

// CurrentBranch returns the checked-out branch, or the short commit id when HEAD is detached.
func (s *Service) CurrentBranch(ctx context.Context) string {
	out, err := s.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		// unborn branch
		out, err = s.git(ctx, "symbolic-ref", "--short", "HEAD")
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out)
	}
	branch := strings.TrimSpace(out)
	if branch != "HEAD" {
		return branch
	}
	sha, err := s.git(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "HEAD"
	}
	return strings.TrimSpace(sha)
}

// GitDir returns the absolute path of the repository's git directory.
func (s *Service) GitDir(ctx context.Context) string {
	out, err := s.git(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func isPathWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}
