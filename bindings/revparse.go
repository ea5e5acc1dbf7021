package bindings

import (
	"github.com/wippyai/git-bridge/native"
	"github.com/wippyai/git-bridge/script"
)

func (b *Bindings) revparseSingle(repo, spec script.Value) (script.Value, error) {
	const op = "git-revparse-single"
	h, err := assertKind(op, repo, native.KindRepository)
	if err != nil {
		return script.Nil, err
	}
	rev, err := assertString(op, spec)
	if err != nil {
		return script.Nil, err
	}

	res, err := b.lib.RevparseSingle(h.Resource(), rev)
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.Handle(b.store.Wrap(native.KindObject, res)), nil
}
