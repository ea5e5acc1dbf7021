package bindings

import (
	"go.uber.org/zap"

	"github.com/wippyai/git-bridge/native"
	"github.com/wippyai/git-bridge/script"
	"github.com/wippyai/git-bridge/store"
)

// Bindings wires the operation catalogue to a wrapper store and a native
// library.
type Bindings struct {
	store *store.Store
	lib   native.Library
}

// New creates the catalogue over st and lib.
func New(st *store.Store, lib native.Library) *Bindings {
	return &Bindings{store: st, lib: lib}
}

// RegisterAll installs every operation into reg.
func (b *Bindings) RegisterAll(reg *script.Registry) error {
	ops := []script.Op{
		// Clone
		{Name: "git-clone", Min: 2, Max: 2, Call: script.Fn2(b.clone),
			Doc: "Clone the repository at URL into PATH and return it."},

		// Object
		{Name: "git-object-id", Min: 1, Max: 1, Call: script.Fn1(b.objectID),
			Doc: "Return the full 40-character id of OBJECT."},
		{Name: "git-object-short-id", Min: 1, Max: 1, Call: script.Fn1(b.objectShortID),
			Doc: "Return an abbreviated id of OBJECT."},
		{Name: "git-object-p", Min: 1, Max: 1, Call: script.Fn1(b.objectP),
			Doc: "Return non-nil if VALUE is a git object."},

		// Reference
		{Name: "git-reference-name", Min: 1, Max: 1, Call: script.Fn1(b.referenceName),
			Doc: "Return the full name of REFERENCE."},
		{Name: "git-reference-owner", Min: 1, Max: 1, Call: script.Fn1(b.referenceOwner),
			Doc: "Return the repository that REFERENCE belongs to."},
		{Name: "git-reference-resolve", Min: 1, Max: 1, Call: script.Fn1(b.referenceResolve),
			Doc: "Resolve REFERENCE through symbolic links to a direct reference."},
		{Name: "git-reference-target", Min: 1, Max: 1, Call: script.Fn1(b.referenceTarget),
			Doc: "Return the target id of REFERENCE, or nil if symbolic."},
		{Name: "git-reference-p", Min: 1, Max: 1, Call: script.Fn1(b.referenceP),
			Doc: "Return non-nil if VALUE is a git reference."},

		// Repository
		{Name: "git-repository-init", Min: 1, Max: 2, Call: script.Fn2(b.repositoryInit),
			Doc: "Initialize a repository at PATH; optional BARE skips the worktree."},
		{Name: "git-repository-open", Min: 1, Max: 1, Call: script.Fn1(b.repositoryOpen),
			Doc: "Open the repository containing PATH."},
		{Name: "git-repository-open-bare", Min: 1, Max: 1, Call: script.Fn1(b.repositoryOpenBare),
			Doc: "Open the bare repository at PATH without discovery."},
		{Name: "git-repository-commondir", Min: 1, Max: 1, Call: script.Fn1(b.repositoryCommondir),
			Doc: "Return the shared git directory of REPOSITORY."},
		{Name: "git-repository-get-namespace", Min: 1, Max: 1, Call: script.Fn1(b.repositoryNamespace),
			Doc: "Return the active namespace of REPOSITORY, or nil."},
		{Name: "git-repository-head", Min: 1, Max: 1, Call: script.Fn1(b.repositoryHead),
			Doc: "Return the reference pointed at by HEAD in REPOSITORY."},
		{Name: "git-repository-head-for-worktree", Min: 2, Max: 2, Call: script.Fn2(b.repositoryHeadForWorktree),
			Doc: "Return the HEAD reference of the linked worktree NAME."},
		{Name: "git-repository-ident", Min: 1, Max: 1, Call: script.Fn1(b.repositoryIdent),
			Doc: "Return the configured identity of REPOSITORY, or nil."},
		{Name: "git-repository-message", Min: 1, Max: 1, Call: script.Fn1(b.repositoryMessage),
			Doc: "Return the prepared commit message of REPOSITORY."},
		{Name: "git-repository-path", Min: 1, Max: 1, Call: script.Fn1(b.repositoryPath),
			Doc: "Return the git directory of REPOSITORY."},
		{Name: "git-repository-state", Min: 1, Max: 1, Call: script.Fn1(b.repositoryState),
			Doc: "Return the in-progress operation of REPOSITORY, or nil."},
		{Name: "git-repository-workdir", Min: 1, Max: 1, Call: script.Fn1(b.repositoryWorkdir),
			Doc: "Return the working directory of REPOSITORY, or nil if bare."},
		{Name: "git-repository-detach-head", Min: 1, Max: 1, Call: script.Fn1(b.repositoryDetachHead),
			Doc: "Detach HEAD of REPOSITORY at its current commit."},
		{Name: "git-repository-message-remove", Min: 1, Max: 1, Call: script.Fn1(b.repositoryMessageRemove),
			Doc: "Remove the prepared commit message of REPOSITORY."},
		{Name: "git-repository-p", Min: 1, Max: 1, Call: script.Fn1(b.repositoryP),
			Doc: "Return non-nil if VALUE is a git repository."},
		{Name: "git-repository-bare-p", Min: 1, Max: 1, Call: script.Fn1(b.repositoryBareP),
			Doc: "Return non-nil if REPOSITORY is bare."},
		{Name: "git-repository-empty-p", Min: 1, Max: 1, Call: script.Fn1(b.repositoryEmptyP),
			Doc: "Return non-nil if REPOSITORY is empty."},
		{Name: "git-repository-head-detached-p", Min: 1, Max: 1, Call: script.Fn1(b.repositoryHeadDetachedP),
			Doc: "Return non-nil if HEAD of REPOSITORY is detached."},
		{Name: "git-repository-head-unborn-p", Min: 1, Max: 1, Call: script.Fn1(b.repositoryHeadUnbornP),
			Doc: "Return non-nil if HEAD of REPOSITORY is unborn."},
		{Name: "git-repository-shallow-p", Min: 1, Max: 1, Call: script.Fn1(b.repositoryShallowP),
			Doc: "Return non-nil if REPOSITORY is a shallow clone."},
		{Name: "git-repository-worktree-p", Min: 1, Max: 1, Call: script.Fn1(b.repositoryWorktreeP),
			Doc: "Return non-nil if REPOSITORY is a linked worktree."},

		// Revparse
		{Name: "git-revparse-single", Min: 2, Max: 2, Call: script.Fn2(b.revparseSingle),
			Doc: "Return the single object named by SPEC in REPOSITORY."},
	}

	for _, op := range ops {
		if err := reg.Register(op); err != nil {
			return err
		}
	}
	Logger().Debug("registered operation catalogue", zap.Int("count", len(ops)))
	return nil
}
