// Package schema describes tables: their names, ordered columns and the codec
// each column uses.
package schema

import (
	"fmt"
	"regexp"

	"github.com/satishbabariya/tableshim/internal/core/codec"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Table is an immutable table definition.
type Table struct {
	name    string
	columns []Column
	index   map[string]int
	pk      int
}

// DefineTable validates and builds a table definition.
func DefineTable(name string, columns ...Column) (*Table, error) {
	if !identifier.MatchString(name) {
		return nil, &Error{Table: name, Err: ErrInvalidName}
	}

	t := &Table{
		name:    name,
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		pk:      -1,
	}

	for _, col := range columns {
		if !identifier.MatchString(col.Name) {
			return nil, &Error{Table: name, Column: col.Name, Err: ErrInvalidName}
		}
		if _, dup := t.index[col.Name]; dup {
			return nil, &Error{Table: name, Column: col.Name, Err: ErrDuplicateColumn}
		}
		if col.Codec == nil {
			return nil, &Error{Table: name, Column: col.Name, Err: ErrMissingCodec}
		}
		if col.PrimaryKey {
			if t.pk >= 0 {
				return nil, &Error{
					Table:  name,
					Column: col.Name,
					Detail: fmt.Sprintf("already declared on %q", t.columns[t.pk].Name),
					Err:    ErrMultiplePrimaryKeys,
				}
			}
			col.Nullable = false
			t.pk = len(t.columns)
		}
		if col.HasDefault {
			if _, err := col.Encode(col.Default); err != nil {
				return nil, &Error{Table: name, Column: col.Name, Detail: err.Error(), Err: ErrInvalidDefault}
			}
		}

		t.index[col.Name] = len(t.columns)
		t.columns = append(t.columns, col)
	}

	return t, nil
}

// MustDefineTable is DefineTable for static definitions; it panics on error.
func MustDefineTable(name string, columns ...Column) *Table {
	t, err := DefineTable(name, columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the columns in declaration order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// HasColumn reports whether the table defines name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Position returns the declaration index of a column, or -1.
func (t *Table) Position(name string) int {
	i, ok := t.index[name]
	if !ok {
		return -1
	}
	return i
}

// PrimaryKey returns the primary-key column, if any.
func (t *Table) PrimaryKey() (Column, bool) {
	if t.pk < 0 {
		return Column{}, false
	}
	return t.columns[t.pk], true
}

// ColumnCodec returns the codec of a column.
func (t *Table) ColumnCodec(name string) (codec.Codec, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, &Error{Table: t.name, Column: name, Err: ErrUnknownColumn}
	}
	return col.Codec, nil
}
