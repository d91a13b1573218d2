package mapexec

import (
	"errors"
	"fmt"

	"github.com/domainmap/domainmap/pkg/graph"
	"github.com/domainmap/domainmap/pkg/parse"
	"github.com/domainmap/domainmap/pkg/render"
)

// ErrMalformedInput is returned when the scan output cannot be read or
// yields no parseable relation line.
var ErrMalformedInput = errors.New("scan output is malformed")

// ErrConflictingModeFlags is returned when more than one display or
// renderer mode flag is set on the same invocation.
var ErrConflictingModeFlags = errors.New("conflicting mode flags")

// WriteError wraps a failure to produce an artifact file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Exit codes reported by ErrorCode. Success is 0, unclassified failures
// map to 1.
const (
	codeOK                  = 0
	codeGeneric             = 1
	codeMalformedInput      = 2
	codeEmptyGraph          = 3
	codeWriteFailure        = 4
	codeRendererUnavailable = 5
)

// ErrorCode maps a run error onto the process exit code.
func ErrorCode(err error) int {
	if err == nil {
		return codeOK
	}

	var writeErr *WriteError
	switch {
	case errors.Is(err, ErrMalformedInput), errors.Is(err, parse.ErrNoRelations):
		return codeMalformedInput
	case errors.Is(err, graph.ErrEmptyGraph):
		return codeEmptyGraph
	case errors.As(err, &writeErr):
		return codeWriteFailure
	case errors.Is(err, render.ErrRendererUnavailable):
		return codeRendererUnavailable
	default:
		return codeGeneric
	}
}
