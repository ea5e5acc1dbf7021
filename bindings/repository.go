package bindings

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/git-bridge/native"
	"github.com/wippyai/git-bridge/script"
)

func (b *Bindings) repositoryInit(path, bare script.Value) (script.Value, error) {
	const op = "git-repository-init"
	p, err := assertString(op, path)
	if err != nil {
		return script.Nil, err
	}

	res, err := b.lib.InitRepository(p, bare.Truthy())
	if err != nil {
		return script.Nil, check(op, err)
	}
	Logger().Debug("initialized repository", zap.String("path", p), zap.Bool("bare", bare.Truthy()))
	return script.Handle(b.store.Wrap(native.KindRepository, res)), nil
}

func (b *Bindings) repositoryOpen(v script.Value) (script.Value, error) {
	const op = "git-repository-open"
	p, err := assertString(op, v)
	if err != nil {
		return script.Nil, err
	}

	res, err := b.lib.OpenRepository(p)
	if err != nil {
		return script.Nil, check(op, err)
	}
	Logger().Debug("opened repository", zap.String("path", p))
	return script.Handle(b.store.Wrap(native.KindRepository, res)), nil
}

func (b *Bindings) repositoryOpenBare(v script.Value) (script.Value, error) {
	const op = "git-repository-open-bare"
	p, err := assertString(op, v)
	if err != nil {
		return script.Nil, err
	}

	res, err := b.lib.OpenBare(p)
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.Handle(b.store.Wrap(native.KindRepository, res)), nil
}

func (b *Bindings) repositoryCommondir(v script.Value) (script.Value, error) {
	const op = "git-repository-commondir"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	dir, err := b.lib.Commondir(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.String(dir), nil
}

func (b *Bindings) repositoryNamespace(v script.Value) (script.Value, error) {
	const op = "git-repository-get-namespace"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	ns, err := b.lib.Namespace(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	if ns == "" {
		return script.Nil, nil
	}
	return script.String(ns), nil
}

func (b *Bindings) repositoryHead(v script.Value) (script.Value, error) {
	const op = "git-repository-head"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	ref, err := b.lib.Head(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.Handle(b.store.Wrap(native.KindReference, ref)), nil
}

func (b *Bindings) repositoryHeadForWorktree(repo, name script.Value) (script.Value, error) {
	const op = "git-repository-head-for-worktree"
	h, err := assertKind(op, repo, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}
	wt, err := assertString(op, name)
	if err != nil {
		return script.Nil, err
	}

	ref, err := b.lib.HeadForWorktree(h.Resource(), wt)
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.Handle(b.store.Wrap(native.KindReference, ref)), nil
}

func (b *Bindings) repositoryIdent(v script.Value) (script.Value, error) {
	const op = "git-repository-ident"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	name, email, err := b.lib.Ident(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	if name == "" && email == "" {
		return script.Nil, nil
	}
	return script.String(fmt.Sprintf("%s <%s>", name, email)), nil
}

func (b *Bindings) repositoryMessage(v script.Value) (script.Value, error) {
	const op = "git-repository-message"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	msg, err := b.lib.Message(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.String(msg), nil
}

func (b *Bindings) repositoryMessageRemove(v script.Value) (script.Value, error) {
	const op = "git-repository-message-remove"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	if err := b.lib.MessageRemove(h.Resource()); err != nil {
		return script.Nil, check(op, err)
	}
	return script.Nil, nil
}

func (b *Bindings) repositoryPath(v script.Value) (script.Value, error) {
	const op = "git-repository-path"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	p, err := b.lib.Path(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.String(p), nil
}

func (b *Bindings) repositoryState(v script.Value) (script.Value, error) {
	const op = "git-repository-state"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	state, err := b.lib.State(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	if state == "" {
		return script.Nil, nil
	}
	return script.String(state), nil
}

func (b *Bindings) repositoryWorkdir(v script.Value) (script.Value, error) {
	const op = "git-repository-workdir"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	dir, ok, err := b.lib.Workdir(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	if !ok {
		return script.Nil, nil
	}
	return script.String(dir), nil
}

func (b *Bindings) repositoryDetachHead(v script.Value) (script.Value, error) {
	const op = "git-repository-detach-head"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	if err := b.lib.DetachHead(h.Resource()); err != nil {
		return script.Nil, check(op, err)
	}
	return script.Nil, nil
}

func (b *Bindings) repositoryP(v script.Value) (script.Value, error) {
	return script.Bool(KindOf(v) == native.KindRepository), nil
}

func (b *Bindings) repositoryBareP(v script.Value) (script.Value, error) {
	const op = "git-repository-bare-p"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	bare, err := b.lib.IsBare(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.Bool(bare), nil
}

func (b *Bindings) repositoryEmptyP(v script.Value) (script.Value, error) {
	const op = "git-repository-empty-p"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	empty, err := b.lib.IsEmpty(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.Bool(empty), nil
}

func (b *Bindings) repositoryHeadDetachedP(v script.Value) (script.Value, error) {
	const op = "git-repository-head-detached-p"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	detached, err := b.lib.IsHeadDetached(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.Bool(detached), nil
}

func (b *Bindings) repositoryHeadUnbornP(v script.Value) (script.Value, error) {
	const op = "git-repository-head-unborn-p"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	unborn, err := b.lib.IsHeadUnborn(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.Bool(unborn), nil
}

func (b *Bindings) repositoryShallowP(v script.Value) (script.Value, error) {
	const op = "git-repository-shallow-p"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	shallow, err := b.lib.IsShallow(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.Bool(shallow), nil
}

func (b *Bindings) repositoryWorktreeP(v script.Value) (script.Value, error) {
	const op = "git-repository-worktree-p"
	h, err := assertKind(op, v, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}

	wt, err := b.lib.IsWorktree(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.Bool(wt), nil
}
