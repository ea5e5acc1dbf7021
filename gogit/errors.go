package gogit

import (
	stderrors "errors"
	"io"

	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"

	"github.com/wippyai/git-bridge/native"
)

// classify turns a go-git error into the native error record vocabulary.
// nil and iterator exhaustion pass through untouched: exhaustion is the
// designated silent failure, carrying no record.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, io.EOF) {
		return err
	}

	var rec *native.ErrorRecord
	if stderrors.As(err, &rec) {
		return rec
	}

	switch {
	case stderrors.Is(err, plumbing.ErrReferenceNotFound):
		return native.Record(native.CodeNotFound, native.ClassReference, err.Error())
	case stderrors.Is(err, plumbing.ErrObjectNotFound):
		return native.Record(native.CodeNotFound, native.ClassOdb, err.Error())
	case stderrors.Is(err, git.ErrRepositoryNotExists):
		return native.Record(native.CodeNotFound, native.ClassRepository, err.Error())
	case stderrors.Is(err, git.ErrRepositoryAlreadyExists):
		return native.Record(native.CodeExists, native.ClassRepository, err.Error())
	case stderrors.Is(err, git.ErrIsBareRepository):
		return native.Record(native.CodeError, native.ClassRepository, err.Error())
	}
	return native.Record(native.CodeError, native.ClassInvalid, err.Error())
}
