package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn means a query references a column its table lacks.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrConflict means two builder calls contradict each other.
	ErrConflict = errors.New("conflicting builder calls")
	// ErrInvalidValue means a value cannot be stored in its column.
	ErrInvalidValue = errors.New("invalid value")
	// ErrMissingValue means an insert lacks a required column.
	ErrMissingValue = errors.New("missing value")
	// ErrEmpty means a statement has nothing to do.
	ErrEmpty = errors.New("empty statement")
	// ErrInconsistent means a node contradicts its table definition.
	ErrInconsistent = errors.New("inconsistent query")
	// ErrUnsupportedNode means the compiler does not know a node or expression type.
	ErrUnsupportedNode = errors.New("unsupported node")
)

// BuildError reports an invalid builder call.
type BuildError struct {
	Op     string
	Table  string
	Column string
	Err    error
}

func (e *BuildError) Error() string {
	msg := fmt.Sprintf("build %s %s", e.Op, e.Table)
	if e.Column != "" {
		msg += fmt.Sprintf(": column %q", e.Column)
	}
	return msg + ": " + e.Err.Error()
}

func (e *BuildError) Unwrap() error { return e.Err }

// CompileError reports an inconsistency found while compiling a node.
type CompileError struct {
	Kind   Kind
	Table  string
	Column string
	Err    error
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("compile %s", e.Kind)
	if e.Table != "" {
		msg += " " + e.Table
	}
	if e.Column != "" {
		msg += fmt.Sprintf(": column %q", e.Column)
	}
	return msg + ": " + e.Err.Error()
}

func (e *CompileError) Unwrap() error { return e.Err }
