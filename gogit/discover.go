package gogit

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/wippyai/git-bridge/native"
)

// layout is the filesystem shape of one repository, resolved at open time.
// A linked worktree has its own gitdir whose commondir file points back at
// the main repository.
type layout struct {
	gitdir    string
	workdir   string // "" for bare repositories
	commondir string
}

func (l layout) isWorktree() bool { return l.commondir != l.gitdir }

// discover walks upward from start until it finds a .git directory, a .git
// gitfile, or a directory that is itself a gitdir.
func discover(start string) (layout, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return layout{}, native.Record(native.CodeError, native.ClassOS, err.Error())
	}

	for {
		dot := filepath.Join(dir, ".git")
		fi, err := os.Stat(dot)
		switch {
		case err == nil && fi.IsDir():
			return resolveGitdir(dot, dir)
		case err == nil && fi.Mode().IsRegular():
			gitdir, err := readGitfile(dot)
			if err != nil {
				return layout{}, err
			}
			return resolveGitdir(gitdir, dir)
		}

		if isGitdir(dir) {
			return resolveGitdir(dir, "")
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return layout{}, native.Recordf(native.CodeNotFound, native.ClassRepository,
				"could not find repository at %q or any parent", start)
		}
		dir = parent
	}
}

// resolveGitdir fills in the commondir, following the commondir file when
// the gitdir belongs to a linked worktree.
func resolveGitdir(gitdir, workdir string) (layout, error) {
	l := layout{
		gitdir:    filepath.Clean(gitdir),
		workdir:   workdir,
		commondir: filepath.Clean(gitdir),
	}

	data, err := os.ReadFile(filepath.Join(l.gitdir, "commondir"))
	if err == nil {
		dir := strings.TrimSpace(string(data))
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(l.gitdir, dir)
		}
		l.commondir = filepath.Clean(dir)
	}
	return l, nil
}

// readGitfile parses a ".git" gitfile and returns the gitdir it names,
// resolved against the gitfile's directory when relative.
func readGitfile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", native.Record(native.CodeError, native.ClassOS, err.Error())
	}

	line := strings.TrimSpace(string(data))
	target, ok := strings.CutPrefix(line, "gitdir: ")
	if !ok {
		return "", native.Recordf(native.CodeError, native.ClassRepository, "invalid gitfile %q", path)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// isGitdir reports whether dir has the minimal shape of a git directory.
func isGitdir(dir string) bool {
	if fi, err := os.Stat(filepath.Join(dir, "HEAD")); err != nil || fi.IsDir() {
		return false
	}
	for _, sub := range []string{"objects", "refs"} {
		if fi, err := os.Stat(filepath.Join(dir, sub)); err != nil || !fi.IsDir() {
			return false
		}
	}
	return true
}
