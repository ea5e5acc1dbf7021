package bindings

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/git-bridge/errors"
	"github.com/wippyai/git-bridge/native"
)

// check translates the outcome of a native call. A failure that left an
// error record becomes a host signal carrying the record's class and
// message; a failure without a record is silent and translates to nil, so
// the operation yields Nil.
func check(op string, err error) error {
	if err == nil {
		return nil
	}

	var rec *native.ErrorRecord
	if stderrors.As(err, &rec) {
		return errors.Git(op, rec.Code, rec.Class, rec.Message)
	}

	Logger().Debug("native call failed without an error record",
		zap.String("op", op),
		zap.Error(err))
	return nil
}
