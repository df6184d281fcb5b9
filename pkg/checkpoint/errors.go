package checkpoint

import (
	"github.com/pkg/errors"
)

// Error kinds returned by the checkpoint store. Use errors.Is to match them.
var (
	// ErrInitialization indicates a missing or unusable root path.
	ErrInitialization = errors.New("checkpoint storage not initialized")
	// ErrStorageWrite indicates the checkpoint directory or file could not be written.
	ErrStorageWrite = errors.New("failed to write checkpoint")
	// ErrRestoreDecode indicates the checkpoint was not found, empty or could not be decoded.
	ErrRestoreDecode = errors.New("failed to restore checkpoint")
	// ErrPrune indicates an old checkpoint survived store time pruning.
	ErrPrune = errors.New("failed to prune checkpoints")
	// ErrDispose indicates checkpoints survived a dispose.
	ErrDispose = errors.New("failed to dispose checkpoints")
)

// Error describes a failed operation on a path.
// It matches both its Kind and its cause with errors.Is.
type Error struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func newError(op, path string, kind, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	msg := e.Op + " " + e.Path + ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
