package bindings

import (
	"go.uber.org/zap"

	"github.com/wippyai/git-bridge/native"
	"github.com/wippyai/git-bridge/script"
)

func (b *Bindings) clone(url, path script.Value) (script.Value, error) {
	const op = "git-clone"
	u, err := assertString(op, url)
	if err != nil {
		return script.Nil, err
	}
	p, err := assertString(op, path)
	if err != nil {
		return script.Nil, err
	}

	res, err := b.lib.Clone(u, p)
	if err != nil {
		return script.Nil, check(op, err)
	}
	Logger().Debug("cloned repository", zap.String("url", u), zap.String("path", p))
	return script.Handle(b.store.Wrap(native.KindRepository, res)), nil
}
