package bindings

import (
	"github.com/wippyai/git-bridge/native"
	"github.com/wippyai/git-bridge/script"
)

func (b *Bindings) referenceName(v script.Value) (script.Value, error) {
	const op = "git-reference-name"
	h, err := assertKind(op, v, native.KindReference)
	if err != nil {
		return script.Nil, err
	}

	name, err := b.lib.ReferenceName(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.String(name), nil
}

func (b *Bindings) referenceOwner(v script.Value) (script.Value, error) {
	const op = "git-reference-owner"
	h, err := assertKind(op, v, native.KindReference)
	if err != nil {
		return script.Nil, err
	}

	owned, ok := h.Resource().(native.Owned)
	if !ok || owned.Owner() == nil {
		return script.Nil, nil
	}
	return script.Handle(b.store.Wrap(native.KindRepository, owned.Owner())), nil
}

func (b *Bindings) referenceResolve(v script.Value) (script.Value, error) {
	const op = "git-reference-resolve"
	h, err := assertKind(op, v, native.KindReference)
	if err != nil {
		return script.Nil, err
	}

	res, err := b.lib.ResolveReference(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.Handle(b.store.Wrap(native.KindReference, res)), nil
}

func (b *Bindings) referenceTarget(v script.Value) (script.Value, error) {
	const op = "git-reference-target"
	h, err := assertKind(op, v, native.KindReference)
	if err != nil {
		return script.Nil, err
	}

	hash, ok, err := b.lib.ReferenceTarget(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	if !ok {
		return script.Nil, nil
	}
	return script.String(hash), nil
}

func (b *Bindings) referenceP(v script.Value) (script.Value, error) {
	return script.Bool(KindOf(v) == native.KindReference), nil
}
