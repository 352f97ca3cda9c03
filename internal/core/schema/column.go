package schema

import (
	"errors"

	"github.com/satishbabariya/tableshim/internal/core/codec"
)

// Column describes one column of a table. Columns are values; a Table keeps
// its own copies so a definition cannot change after DefineTable.
type Column struct {
	Name       string
	Codec      codec.Codec
	Nullable   bool
	PrimaryKey bool
	Default    any // logical value, meaningful only when HasDefault is set
	HasDefault bool
}

// ColumnOption configures a column built with NewColumn.
type ColumnOption func(*Column)

// Nullable allows NULL in the column.
func Nullable() ColumnOption {
	return func(c *Column) { c.Nullable = true }
}

// PrimaryKey marks the column as the table's primary key.
func PrimaryKey() ColumnOption {
	return func(c *Column) { c.PrimaryKey = true }
}

// Default sets the column's default logical value.
func Default(v any) ColumnOption {
	return func(c *Column) {
		c.Default = v
		c.HasDefault = true
	}
}

// NewColumn builds a column definition.
func NewColumn(name string, c codec.Codec, opts ...ColumnOption) Column {
	col := Column{Name: name, Codec: c}
	for _, opt := range opts {
		opt(&col)
	}
	return col
}

// Text builds a text column.
func Text(name string, opts ...ColumnOption) Column {
	return NewColumn(name, codec.TextCodec, opts...)
}

// Integer builds an integer column.
func Integer(name string, opts ...ColumnOption) Column {
	return NewColumn(name, codec.IntegerCodec, opts...)
}

// Real builds a real column.
func Real(name string, opts ...ColumnOption) Column {
	return NewColumn(name, codec.RealCodec, opts...)
}

// Boolean builds a boolean column stored as 0/1.
func Boolean(name string, opts ...ColumnOption) Column {
	return NewColumn(name, codec.BooleanCodec, opts...)
}

// Timestamp builds a timestamp column stored as epoch milliseconds.
func Timestamp(name string, opts ...ColumnOption) Column {
	return NewColumn(name, codec.TimestampCodec, opts...)
}

// Blob builds a blob column.
func Blob(name string, opts ...ColumnOption) Column {
	return NewColumn(name, codec.BlobCodec, opts...)
}

// StorageType is the storage primitive of the column's codec.
func (c Column) StorageType() codec.StorageType {
	return c.Codec.StorageType()
}

// Required reports whether an insert must supply a value for the column.
func (c Column) Required() bool {
	return !c.Nullable && !c.HasDefault && !c.PrimaryKey
}

// Encode converts a logical value to its storage primitive. nil is accepted
// only for nullable columns.
func (c Column) Encode(v any) (any, error) {
	if v == nil {
		if c.Nullable {
			return nil, nil
		}
		return nil, &codec.EncodeError{Codec: c.Codec.Name(), Column: c.Name, Expected: "non-null value", Err: codec.ErrNull}
	}
	out, err := c.Codec.Encode(v)
	if err != nil {
		return nil, stampColumn(err, c.Name)
	}
	return out, nil
}

// Decode converts a storage primitive to its logical value.
func (c Column) Decode(v any) (any, error) {
	if v == nil {
		if c.Nullable {
			return nil, nil
		}
		return nil, &codec.DecodeError{Codec: c.Codec.Name(), Column: c.Name, Expected: "non-null value", Err: codec.ErrNull}
	}
	out, err := c.Codec.Decode(v)
	if err != nil {
		return nil, stampColumn(err, c.Name)
	}
	return out, nil
}

func stampColumn(err error, column string) error {
	var encErr *codec.EncodeError
	if errors.As(err, &encErr) {
		cp := *encErr
		cp.Column = column
		return &cp
	}
	var decErr *codec.DecodeError
	if errors.As(err, &decErr) {
		cp := *decErr
		cp.Column = column
		return &cp
	}
	return err
}
