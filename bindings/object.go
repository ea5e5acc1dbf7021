package bindings

import "github.com/wippyai/git-bridge/script"

func (b *Bindings) objectID(v script.Value) (script.Value, error) {
	const op = "git-object-id"
	h, err := assertObject(op, v)
	if err != nil {
		return script.Nil, err
	}

	id, err := b.lib.ObjectID(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.String(id), nil
}

func (b *Bindings) objectShortID(v script.Value) (script.Value, error) {
	const op = "git-object-short-id"
	h, err := assertObject(op, v)
	if err != nil {
		return script.Nil, err
	}

	id, err := b.lib.ObjectShortID(h.Resource())
	if err != nil {
		return script.Nil, check(op, err)
	}
	return script.String(id), nil
}

func (b *Bindings) objectP(v script.Value) (script.Value, error) {
	return script.Bool(KindOf(v).IsObjectFamily()), nil
}
