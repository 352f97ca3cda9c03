package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName means a table or column name is not a plain SQL identifier.
	ErrInvalidName = errors.New("invalid identifier")
	// ErrDuplicateColumn means two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrMultiplePrimaryKeys means more than one column is marked primary key.
	ErrMultiplePrimaryKeys = errors.New("multiple primary keys")
	// ErrMissingCodec means a column has no codec.
	ErrMissingCodec = errors.New("missing codec")
	// ErrInvalidDefault means a default value does not encode through the column codec.
	ErrInvalidDefault = errors.New("invalid default value")
	// ErrUnsupportedColumnType means a column type has no mapping.
	ErrUnsupportedColumnType = errors.New("unsupported column type")
	// ErrDuplicateTable means two tables share a name.
	ErrDuplicateTable = errors.New("duplicate table")
	// ErrUnknownTable means a schema has no table with the given name.
	ErrUnknownTable = errors.New("unknown table")
	// ErrUnknownColumn means a table has no column with the given name.
	ErrUnknownColumn = errors.New("unknown column")
)

// Error reports an invalid or unsupported table or column definition.
type Error struct {
	Table  string
	Column string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := "schema"
	if e.Table != "" {
		msg += fmt.Sprintf(": table %q", e.Table)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(": column %q", e.Column)
	}
	msg += ": " + e.Err.Error()
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }
