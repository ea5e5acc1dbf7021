package gogit

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v6/osfs"
	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/storer"
	"github.com/go-git/go-git/v6/storage/filesystem"

	"github.com/wippyai/git-bridge/native"
)

// maxSymrefDepth bounds symbolic reference chains, as git does.
const maxSymrefDepth = 10

// Library is the go-git backed implementation of native.Library.
type Library struct{}

var _ native.Library = (*Library)(nil)

// New returns the production library.
func New() *Library {
	return &Library{}
}

// asRepo unwraps a live repository resource.
func asRepo(res native.Resource) (*repository, error) {
	r, ok := res.(*repository)
	if !ok || r.repo == nil {
		return nil, native.Record(native.CodeError, native.ClassInvalid, "not a live repository resource")
	}
	return r, nil
}

// asRef unwraps a live reference resource.
func asRef(res native.Resource) (*gitReference, error) {
	r, ok := res.(*gitReference)
	if !ok || r.ref == nil {
		return nil, native.Record(native.CodeError, native.ClassInvalid, "not a live reference resource")
	}
	return r, nil
}

// asObject unwraps a live object resource.
func asObject(res native.Resource) (*gitObject, error) {
	o, ok := res.(*gitObject)
	if !ok || o.obj == nil {
		return nil, native.Record(native.CodeError, native.ClassInvalid, "not a live object resource")
	}
	return o, nil
}

func (l *Library) OpenRepository(path string) (native.Resource, error) {
	lay, err := discover(path)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, classify(err)
	}
	return &repository{repo: repo, layout: lay}, nil
}

func (l *Library) OpenBare(path string) (native.Resource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, native.Record(native.CodeError, native.ClassOS, err.Error())
	}
	if !isGitdir(abs) {
		return nil, native.Recordf(native.CodeNotFound, native.ClassRepository,
			"%q is not a bare repository", path)
	}
	repo, err := git.PlainOpen(abs)
	if err != nil {
		return nil, classify(err)
	}
	lay, err := resolveGitdir(abs, "")
	if err != nil {
		return nil, err
	}
	return &repository{repo: repo, layout: lay}, nil
}

func (l *Library) InitRepository(path string, bare bool) (native.Resource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, native.Record(native.CodeError, native.ClassOS, err.Error())
	}
	repo, err := git.PlainInit(abs, bare)
	if err != nil {
		return nil, classify(err)
	}

	lay := layout{gitdir: abs, commondir: abs}
	if !bare {
		lay.gitdir = filepath.Join(abs, ".git")
		lay.commondir = lay.gitdir
		lay.workdir = abs
	}
	return &repository{repo: repo, layout: lay}, nil
}

func (l *Library) Clone(url, path string) (native.Resource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, native.Record(native.CodeError, native.ClassOS, err.Error())
	}

	gitdir := filepath.Join(abs, ".git")
	st := filesystem.NewStorage(osfs.New(gitdir), cache.NewObjectLRUDefault())
	repo, err := git.Clone(st, osfs.New(abs), &git.CloneOptions{URL: url})
	if err != nil {
		return nil, classify(err)
	}

	lay := layout{gitdir: gitdir, workdir: abs, commondir: gitdir}
	return &repository{repo: repo, layout: lay}, nil
}

func (l *Library) Head(res native.Resource) (native.Resource, error) {
	r, err := asRepo(res)
	if err != nil {
		return nil, err
	}
	ref, err := r.repo.Head()
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, native.Record(native.CodeUnbornBranch, native.ClassReference,
				"HEAD refers to an unborn branch")
		}
		return nil, classify(err)
	}
	return &gitReference{ref: ref, owner: r}, nil
}

func (l *Library) HeadForWorktree(res native.Resource, name string) (native.Resource, error) {
	r, err := asRepo(res)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(r.layout.commondir, "worktrees", name, "HEAD"))
	if err != nil {
		return nil, native.Recordf(native.CodeNotFound, native.ClassWorktree,
			"no worktree named %q", name)
	}

	line := strings.TrimSpace(string(data))
	if target, ok := strings.CutPrefix(line, "ref: "); ok {
		ref, err := r.repo.Storer.Reference(plumbing.ReferenceName(target))
		if err != nil {
			if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
				return nil, native.Record(native.CodeUnbornBranch, native.ClassReference,
					"worktree HEAD refers to an unborn branch")
			}
			return nil, classify(err)
		}
		return &gitReference{ref: ref, owner: r}, nil
	}

	// Detached worktree HEAD holds a raw hash.
	return &gitReference{ref: plumbing.NewReferenceFromStrings("HEAD", line), owner: r}, nil
}

func (l *Library) ResolveReference(res native.Resource) (native.Resource, error) {
	ref, err := asRef(res)
	if err != nil {
		return nil, err
	}

	cur := ref.ref
	for depth := 0; cur.Type() == plumbing.SymbolicReference; depth++ {
		if depth >= maxSymrefDepth {
			return nil, native.Recordf(native.CodeError, native.ClassReference,
				"reference chain from %q too deep", ref.ref.Name())
		}
		next, err := ref.owner.repo.Storer.Reference(cur.Target())
		if err != nil {
			return nil, classify(err)
		}
		cur = next
	}
	return &gitReference{ref: cur, owner: ref.owner}, nil
}

func (l *Library) RevparseSingle(res native.Resource, spec string) (native.Resource, error) {
	r, err := asRepo(res)
	if err != nil {
		return nil, err
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(spec))
	if err != nil {
		return nil, classify(err)
	}
	obj, err := r.repo.Object(plumbing.AnyObject, *hash)
	if err != nil {
		return nil, classify(err)
	}
	return &gitObject{obj: obj, kind: refineKind(obj), owner: r}, nil
}

func (l *Library) ReferenceName(res native.Resource) (string, error) {
	ref, err := asRef(res)
	if err != nil {
		return "", err
	}
	return ref.ref.Name().String(), nil
}

func (l *Library) ReferenceTarget(res native.Resource) (string, bool, error) {
	ref, err := asRef(res)
	if err != nil {
		return "", false, err
	}
	if ref.ref.Type() != plumbing.HashReference {
		return "", false, nil
	}
	return ref.ref.Hash().String(), true, nil
}

func (l *Library) ObjectID(res native.Resource) (string, error) {
	o, err := asObject(res)
	if err != nil {
		return "", err
	}
	return o.obj.ID().String(), nil
}

func (l *Library) ObjectShortID(res native.Resource) (string, error) {
	o, err := asObject(res)
	if err != nil {
		return "", err
	}
	id := o.obj.ID().String()
	if len(id) > 7 {
		id = id[:7]
	}
	return id, nil
}

func (l *Library) Commondir(res native.Resource) (string, error) {
	r, err := asRepo(res)
	if err != nil {
		return "", err
	}
	return r.layout.commondir, nil
}

// Namespace reports the active ref namespace. Namespaces cannot be set
// through this library, so the answer is always unset.
func (l *Library) Namespace(res native.Resource) (string, error) {
	if _, err := asRepo(res); err != nil {
		return "", err
	}
	return "", nil
}

func (l *Library) Ident(res native.Resource) (string, string, error) {
	r, err := asRepo(res)
	if err != nil {
		return "", "", err
	}
	cfg, err := r.repo.Config()
	if err != nil {
		return "", "", classify(err)
	}
	return cfg.User.Name, cfg.User.Email, nil
}

func (l *Library) Message(res native.Resource) (string, error) {
	r, err := asRepo(res)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(r.layout.gitdir, "MERGE_MSG"))
	if err != nil {
		return "", native.Record(native.CodeNotFound, native.ClassOS, "could not access message file")
	}
	return string(data), nil
}

func (l *Library) MessageRemove(res native.Resource) error {
	r, err := asRepo(res)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(r.layout.gitdir, "MERGE_MSG")); err != nil {
		return native.Record(native.CodeNotFound, native.ClassOS, "could not remove message file")
	}
	return nil
}

func (l *Library) Path(res native.Resource) (string, error) {
	r, err := asRepo(res)
	if err != nil {
		return "", err
	}
	return r.layout.gitdir, nil
}

func (l *Library) State(res native.Resource) (string, error) {
	r, err := asRepo(res)
	if err != nil {
		return "", err
	}

	g := r.layout.gitdir
	switch {
	case dirExists(filepath.Join(g, "rebase-merge")):
		return "rebase", nil
	case dirExists(filepath.Join(g, "rebase-apply")):
		return "rebase", nil
	case fileExists(filepath.Join(g, "MERGE_HEAD")):
		return "merge", nil
	case fileExists(filepath.Join(g, "REVERT_HEAD")):
		return "revert", nil
	case fileExists(filepath.Join(g, "CHERRY_PICK_HEAD")):
		return "cherry-pick", nil
	case fileExists(filepath.Join(g, "BISECT_LOG")):
		return "bisect", nil
	}
	return "", nil
}

func (l *Library) Workdir(res native.Resource) (string, bool, error) {
	r, err := asRepo(res)
	if err != nil {
		return "", false, err
	}
	return r.layout.workdir, r.layout.workdir != "", nil
}

func (l *Library) DetachHead(res native.Resource) error {
	r, err := asRepo(res)
	if err != nil {
		return err
	}
	head, err := r.repo.Head()
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return native.Record(native.CodeUnbornBranch, native.ClassReference,
				"cannot detach an unborn HEAD")
		}
		return classify(err)
	}
	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, head.Hash())); err != nil {
		return classify(err)
	}
	return nil
}

func (l *Library) IsBare(res native.Resource) (bool, error) {
	r, err := asRepo(res)
	if err != nil {
		return false, err
	}
	return r.layout.workdir == "", nil
}

func (l *Library) IsEmpty(res native.Resource) (bool, error) {
	r, err := asRepo(res)
	if err != nil {
		return false, err
	}
	unborn, err := l.IsHeadUnborn(res)
	if err != nil {
		return false, err
	}
	if !unborn {
		return false, nil
	}
	other, err := hasOtherRefs(r)
	if err != nil {
		return false, err
	}
	return !other, nil
}

func (l *Library) IsHeadDetached(res native.Resource) (bool, error) {
	r, err := asRepo(res)
	if err != nil {
		return false, err
	}
	ref, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return false, classify(err)
	}
	return ref.Type() == plumbing.HashReference, nil
}

func (l *Library) IsHeadUnborn(res native.Resource) (bool, error) {
	r, err := asRepo(res)
	if err != nil {
		return false, err
	}
	ref, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return false, classify(err)
	}
	if ref.Type() != plumbing.SymbolicReference {
		return false, nil
	}
	_, err = r.repo.Storer.Reference(ref.Target())
	if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return true, nil
	}
	if err != nil {
		return false, classify(err)
	}
	return false, nil
}

func (l *Library) IsShallow(res native.Resource) (bool, error) {
	r, err := asRepo(res)
	if err != nil {
		return false, err
	}
	hashes, err := r.repo.Storer.Shallow()
	if err != nil {
		return false, classify(err)
	}
	return len(hashes) > 0, nil
}

func (l *Library) IsWorktree(res native.Resource) (bool, error) {
	r, err := asRepo(res)
	if err != nil {
		return false, err
	}
	return r.layout.isWorktree(), nil
}

// hasOtherRefs reports whether any reference besides HEAD exists.
func hasOtherRefs(r *repository) (bool, error) {
	iter, err := r.repo.Storer.IterReferences()
	if err != nil {
		return false, classify(err)
	}
	defer iter.Close()

	found := false
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name() != plumbing.HEAD {
			found = true
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return false, classify(err)
	}
	return found, nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func dirExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
