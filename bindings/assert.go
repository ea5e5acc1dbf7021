package bindings

import (
	"github.com/wippyai/git-bridge/errors"
	"github.com/wippyai/git-bridge/native"
	"github.com/wippyai/git-bridge/script"
	"github.com/wippyai/git-bridge/store"
)

// KindOf returns the wrapped kind of v. Anything that is not a live handle
// reports KindUnknown, including handles already released.
func KindOf(v script.Value) native.Kind {
	h := v.Handle()
	if h == nil {
		return native.KindUnknown
	}
	return h.Kind()
}

// kindPredicate names the public predicate a kind assertion stands for.
func kindPredicate(kind native.Kind) string {
	switch kind {
	case native.KindRepository:
		return "git-repository-p"
	case native.KindReference:
		return "git-reference-p"
	case native.KindCommit:
		return "git-commit-p"
	case native.KindTree:
		return "git-tree-p"
	case native.KindBlob:
		return "git-blob-p"
	case native.KindTag:
		return "git-tag-p"
	}
	return "git-object-p"
}

// assertKind returns v's handle when it wraps exactly kind, signaling the
// violated predicate otherwise. The store is never touched.
func assertKind(op string, v script.Value, kind native.Kind) (*store.Handle, error) {
	h := v.Handle()
	if h == nil || h.Kind() != kind {
		return nil, errors.WrongType(op, kindPredicate(kind), v.String())
	}
	return h, nil
}

// assertObject returns v's handle when it wraps any object-family kind.
func assertObject(op string, v script.Value) (*store.Handle, error) {
	h := v.Handle()
	if h == nil || !h.Kind().IsObjectFamily() {
		return nil, errors.WrongType(op, "git-object-p", v.String())
	}
	return h, nil
}

// assertString returns v's string payload, signaling stringp otherwise.
func assertString(op string, v script.Value) (string, error) {
	if v.Type() != script.TypeString {
		return "", errors.WrongType(op, "stringp", v.String())
	}
	return v.Text(), nil
}
