package snapshot

import (
	"errors"
	"fmt"
)

// ErrorCode mirrors the string codes the host renders for snapshot failures.
type ErrorCode string

const (
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
)

const (
	opRead      = "read"
	opCreate    = "create"
	opOverwrite = "overwrite"
)

var (
	ErrNotFound      = errors.New("path not found")
	ErrAlreadyExists = errors.New("path already exists")
	ErrInvalidPath   = errors.New("invalid path")
)

// PathError records the failed operation and the path it was applied to.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("snapshot: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Code classifies err, returning an empty code for errors not raised by a Snapshot.
func Code(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAlreadyExists):
		return CodeAlreadyExists
	case errors.Is(err, ErrInvalidPath):
		return CodeInvalidInput
	default:
		return ""
	}
}
