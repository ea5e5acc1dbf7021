package gogit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/git-bridge/native"
)

// initFixture initializes a non-bare repository in a temp dir and opens it
// through the library.
func initFixture(t *testing.T) (string, *Library, native.Resource) {
	t.Helper()
	dir := t.TempDir()
	lib := New()
	res, err := lib.InitRepository(dir, false)
	require.NoError(t, err)
	return dir, lib, res
}

// commitFile writes a file and commits it, returning the commit hash.
func commitFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

func requireRecord(t *testing.T, err error) *native.ErrorRecord {
	t.Helper()
	var rec *native.ErrorRecord
	require.Error(t, err)
	require.True(t, errors.As(err, &rec), "expected *native.ErrorRecord, got %T: %v", err, err)
	return rec
}

func TestOpenRepository_Discovery(t *testing.T) {
	dir, lib, _ := initFixture(t)
	commitFile(t, dir, "README.md", "hello\n")

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	res, err := lib.OpenRepository(nested)
	require.NoError(t, err)

	path, err := lib.Path(res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".git"), path)

	wd, ok, err := lib.Workdir(res)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, dir, wd)
}

func TestOpenRepository_NotFound(t *testing.T) {
	lib := New()

	_, err := lib.OpenRepository(t.TempDir())
	rec := requireRecord(t, err)
	assert.Equal(t, native.CodeNotFound, rec.Code)
	assert.Equal(t, native.ClassRepository, rec.Class)
}

func TestOpenBare(t *testing.T) {
	dir := t.TempDir()
	lib := New()

	_, err := lib.InitRepository(dir, true)
	require.NoError(t, err)

	res, err := lib.OpenBare(dir)
	require.NoError(t, err)

	bare, err := lib.IsBare(res)
	require.NoError(t, err)
	assert.True(t, bare)

	_, ok, err := lib.Workdir(res)
	require.NoError(t, err)
	assert.False(t, ok, "bare repository has no workdir")

	path, err := lib.Path(res)
	require.NoError(t, err)
	assert.Equal(t, dir, path)
}

func TestOpenBare_RejectsWorkdir(t *testing.T) {
	dir, lib, _ := initFixture(t)

	_, err := lib.OpenBare(dir)
	rec := requireRecord(t, err)
	assert.Equal(t, native.ClassRepository, rec.Class)
}

func TestInitRepository_Layout(t *testing.T) {
	dir, lib, res := initFixture(t)

	path, err := lib.Path(res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".git"), path)

	common, err := lib.Commondir(res)
	require.NoError(t, err)
	assert.Equal(t, path, common)

	wt, err := lib.IsWorktree(res)
	require.NoError(t, err)
	assert.False(t, wt)

	bare, err := lib.IsBare(res)
	require.NoError(t, err)
	assert.False(t, bare)
}

func TestClone_LocalPath(t *testing.T) {
	src, lib, _ := initFixture(t)
	commitFile(t, src, "file.txt", "content\n")

	dst := filepath.Join(t.TempDir(), "clone")
	res, err := lib.Clone(src, dst)
	require.NoError(t, err)

	head, err := lib.Head(res)
	require.NoError(t, err)
	name, err := lib.ReferenceName(head)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "refs/heads/"), "head = %q", name)

	// The checkout must have materialized the file.
	_, err = os.Stat(filepath.Join(dst, "file.txt"))
	assert.NoError(t, err)
}

func TestClone_BadURL(t *testing.T) {
	lib := New()

	_, err := lib.Clone(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "out"))
	requireRecord(t, err)
}

func TestHead_AttachedAndUnborn(t *testing.T) {
	dir, lib, res := initFixture(t)

	// Unborn HEAD signals with the unborn code.
	_, err := lib.Head(res)
	rec := requireRecord(t, err)
	assert.Equal(t, native.CodeUnbornBranch, rec.Code)
	assert.Equal(t, native.ClassReference, rec.Class)

	hash := commitFile(t, dir, "a.txt", "a\n")

	head, err := lib.Head(res)
	require.NoError(t, err)

	name, err := lib.ReferenceName(head)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "refs/heads/"))

	target, direct, err := lib.ReferenceTarget(head)
	require.NoError(t, err)
	assert.True(t, direct)
	assert.Equal(t, hash, target)
}

func TestReferenceTarget_Symbolic(t *testing.T) {
	dir, lib, res := initFixture(t)
	commitFile(t, dir, "a.txt", "a\n")

	r, err := asRepo(res)
	require.NoError(t, err)
	headRef, err := r.repo.Storer.Reference(plumbing.HEAD)
	require.NoError(t, err)
	require.Equal(t, plumbing.SymbolicReference, headRef.Type())

	sym := &gitReference{ref: headRef, owner: r}
	_, direct, err := lib.ReferenceTarget(sym)
	require.NoError(t, err)
	assert.False(t, direct, "symbolic reference has no direct target")
}

func TestResolveReference(t *testing.T) {
	dir, lib, res := initFixture(t)
	hash := commitFile(t, dir, "a.txt", "a\n")

	r, err := asRepo(res)
	require.NoError(t, err)
	headRef, err := r.repo.Storer.Reference(plumbing.HEAD)
	require.NoError(t, err)

	resolved, err := lib.ResolveReference(&gitReference{ref: headRef, owner: r})
	require.NoError(t, err)

	target, direct, err := lib.ReferenceTarget(resolved)
	require.NoError(t, err)
	assert.True(t, direct)
	assert.Equal(t, hash, target)
}

func TestResolveReference_CycleBounded(t *testing.T) {
	_, lib, res := initFixture(t)

	r, err := asRepo(res)
	require.NoError(t, err)
	require.NoError(t, r.repo.Storer.SetReference(
		plumbing.NewSymbolicReference("refs/loop/a", "refs/loop/b")))
	require.NoError(t, r.repo.Storer.SetReference(
		plumbing.NewSymbolicReference("refs/loop/b", "refs/loop/a")))

	loop, err := r.repo.Storer.Reference(plumbing.ReferenceName("refs/loop/a"))
	require.NoError(t, err)

	_, err = lib.ResolveReference(&gitReference{ref: loop, owner: r})
	rec := requireRecord(t, err)
	assert.Equal(t, native.ClassReference, rec.Class)
}

func TestRevparseSingle(t *testing.T) {
	dir, lib, res := initFixture(t)
	hash := commitFile(t, dir, "a.txt", "a\n")

	commit, err := lib.RevparseSingle(res, "HEAD")
	require.NoError(t, err)
	assert.Equal(t, native.KindCommit, commit.Kind())

	id, err := lib.ObjectID(commit)
	require.NoError(t, err)
	assert.Equal(t, hash, id)
	assert.Len(t, id, 40)

	short, err := lib.ObjectShortID(commit)
	require.NoError(t, err)
	assert.Equal(t, hash[:7], short)

	tree, err := lib.RevparseSingle(res, "HEAD^{tree}")
	require.NoError(t, err)
	assert.Equal(t, native.KindTree, tree.Kind())
}

func TestRevparseSingle_BadSpec(t *testing.T) {
	dir, lib, res := initFixture(t)
	commitFile(t, dir, "a.txt", "a\n")

	_, err := lib.RevparseSingle(res, "no-such-rev")
	requireRecord(t, err)
}

func TestState(t *testing.T) {
	dir, lib, res := initFixture(t)
	gitdir := filepath.Join(dir, ".git")

	state, err := lib.State(res)
	require.NoError(t, err)
	assert.Equal(t, "", state)

	require.NoError(t, os.WriteFile(filepath.Join(gitdir, "MERGE_HEAD"), []byte("0000\n"), 0o644))
	state, err = lib.State(res)
	require.NoError(t, err)
	assert.Equal(t, "merge", state)
	require.NoError(t, os.Remove(filepath.Join(gitdir, "MERGE_HEAD")))

	require.NoError(t, os.WriteFile(filepath.Join(gitdir, "CHERRY_PICK_HEAD"), []byte("0000\n"), 0o644))
	state, err = lib.State(res)
	require.NoError(t, err)
	assert.Equal(t, "cherry-pick", state)
	require.NoError(t, os.Remove(filepath.Join(gitdir, "CHERRY_PICK_HEAD")))

	require.NoError(t, os.MkdirAll(filepath.Join(gitdir, "rebase-merge"), 0o755))
	state, err = lib.State(res)
	require.NoError(t, err)
	assert.Equal(t, "rebase", state)
}

func TestMessage(t *testing.T) {
	dir, lib, res := initFixture(t)
	gitdir := filepath.Join(dir, ".git")

	_, err := lib.Message(res)
	rec := requireRecord(t, err)
	assert.Equal(t, native.CodeNotFound, rec.Code)

	require.NoError(t, os.WriteFile(filepath.Join(gitdir, "MERGE_MSG"), []byte("Merge branch 'x'\n"), 0o644))

	msg, err := lib.Message(res)
	require.NoError(t, err)
	assert.Equal(t, "Merge branch 'x'\n", msg)

	require.NoError(t, lib.MessageRemove(res))
	_, err = lib.Message(res)
	requireRecord(t, err)

	err = lib.MessageRemove(res)
	requireRecord(t, err)
}

func TestDetachHead(t *testing.T) {
	dir, lib, res := initFixture(t)

	err := lib.DetachHead(res)
	rec := requireRecord(t, err)
	assert.Equal(t, native.CodeUnbornBranch, rec.Code)

	hash := commitFile(t, dir, "a.txt", "a\n")
	require.NoError(t, lib.DetachHead(res))

	detached, err := lib.IsHeadDetached(res)
	require.NoError(t, err)
	assert.True(t, detached)

	head, err := lib.Head(res)
	require.NoError(t, err)
	target, direct, err := lib.ReferenceTarget(head)
	require.NoError(t, err)
	assert.True(t, direct)
	assert.Equal(t, hash, target)
}

// The three HEAD predicates answer different questions: a fresh repository
// is unborn and empty but not detached, a repository with a commit is none
// of the three, and a detached HEAD is detached only.
func TestHeadPredicatesDistinct(t *testing.T) {
	dir, lib, res := initFixture(t)

	unborn, err := lib.IsHeadUnborn(res)
	require.NoError(t, err)
	empty, err := lib.IsEmpty(res)
	require.NoError(t, err)
	detached, err := lib.IsHeadDetached(res)
	require.NoError(t, err)
	assert.True(t, unborn, "fresh repo HEAD is unborn")
	assert.True(t, empty, "fresh repo is empty")
	assert.False(t, detached, "fresh repo HEAD is symbolic, not detached")

	commitFile(t, dir, "a.txt", "a\n")

	unborn, err = lib.IsHeadUnborn(res)
	require.NoError(t, err)
	empty, err = lib.IsEmpty(res)
	require.NoError(t, err)
	detached, err = lib.IsHeadDetached(res)
	require.NoError(t, err)
	assert.False(t, unborn)
	assert.False(t, empty)
	assert.False(t, detached)

	require.NoError(t, lib.DetachHead(res))

	unborn, err = lib.IsHeadUnborn(res)
	require.NoError(t, err)
	empty, err = lib.IsEmpty(res)
	require.NoError(t, err)
	detached, err = lib.IsHeadDetached(res)
	require.NoError(t, err)
	assert.False(t, unborn)
	assert.False(t, empty)
	assert.True(t, detached)
}

func TestIdent(t *testing.T) {
	dir, lib, res := initFixture(t)

	config := "[core]\n\trepositoryformatversion = 0\n\tbare = false\n" +
		"[user]\n\tname = Test User\n\temail = test@example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "config"), []byte(config), 0o644))

	name, email, err := lib.Ident(res)
	require.NoError(t, err)
	assert.Equal(t, "Test User", name)
	assert.Equal(t, "test@example.com", email)
}

func TestNamespace_Unset(t *testing.T) {
	_, lib, res := initFixture(t)

	ns, err := lib.Namespace(res)
	require.NoError(t, err)
	assert.Equal(t, "", ns)
}

func TestIsShallow(t *testing.T) {
	dir, lib, res := initFixture(t)
	hash := commitFile(t, dir, "a.txt", "a\n")

	shallow, err := lib.IsShallow(res)
	require.NoError(t, err)
	assert.False(t, shallow)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "shallow"), []byte(hash+"\n"), 0o644))

	shallow, err = lib.IsShallow(res)
	require.NoError(t, err)
	assert.True(t, shallow)
}

func TestWorktreeLayoutDiscovery(t *testing.T) {
	dir, lib, res := initFixture(t)
	commitFile(t, dir, "a.txt", "a\n")
	gitdir := filepath.Join(dir, ".git")

	r, err := asRepo(res)
	require.NoError(t, err)
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	require.NoError(t, err)
	branch := head.Target().String()

	// Lay out a linked worktree by hand: private gitdir under
	// .git/worktrees/wt1 plus a gitfile in the worktree directory.
	wtGitdir := filepath.Join(gitdir, "worktrees", "wt1")
	require.NoError(t, os.MkdirAll(wtGitdir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(wtGitdir, "HEAD"), []byte("ref: "+branch+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(wtGitdir, "commondir"), []byte("../..\n"), 0o644))

	wtDir := filepath.Join(t.TempDir(), "wt1")
	require.NoError(t, os.MkdirAll(wtDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(wtDir, ".git"), []byte("gitdir: "+wtGitdir+"\n"), 0o644))

	lay, err := discover(wtDir)
	require.NoError(t, err)
	assert.Equal(t, wtGitdir, lay.gitdir)
	assert.Equal(t, wtDir, lay.workdir)
	assert.Equal(t, gitdir, lay.commondir)
	assert.True(t, lay.isWorktree())

	// The main repository resolves the worktree's HEAD by name.
	ref, err := lib.HeadForWorktree(res, "wt1")
	require.NoError(t, err)
	name, err := lib.ReferenceName(ref)
	require.NoError(t, err)
	assert.Equal(t, branch, name)

	_, err = lib.HeadForWorktree(res, "missing")
	rec := requireRecord(t, err)
	assert.Equal(t, native.ClassWorktree, rec.Class)
}

func TestResourceTypeGuards(t *testing.T) {
	dir, lib, res := initFixture(t)
	commitFile(t, dir, "a.txt", "a\n")

	head, err := lib.Head(res)
	require.NoError(t, err)

	// A reference where a repository is expected.
	_, err = lib.Path(head)
	rec := requireRecord(t, err)
	assert.Equal(t, native.ClassInvalid, rec.Class)

	// A repository where an object is expected.
	_, err = lib.ObjectID(res)
	requireRecord(t, err)

	// A repository where a reference is expected.
	_, err = lib.ReferenceName(res)
	requireRecord(t, err)

	// A freed resource.
	res.Free()
	_, err = lib.Path(res)
	requireRecord(t, err)
}
