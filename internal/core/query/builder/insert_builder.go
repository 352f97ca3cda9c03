package builder

import (
	"fmt"
	"maps"
	"slices"

	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/schema"
)

// InsertBuilder builds an Insert statement.
type InsertBuilder struct {
	base
	values map[string]any
}

// InsertInto starts an insert into t.
func InsertInto(t *schema.Table) InsertBuilder {
	return InsertBuilder{base: newBase("insert", t)}
}

// Values adds column values. Setting a column twice is a conflict.
func (b InsertBuilder) Values(values map[string]any) InsertBuilder {
	if b.err != nil {
		return b
	}
	next := maps.Clone(b.values)
	if next == nil {
		next = make(map[string]any, len(values))
	}
	// Visit in table order so the reported error does not depend on map order.
	for _, name := range orderedKeys(b.table, values, &b.base) {
		if _, dup := next[name]; dup {
			b.base = b.fail(name, fmt.Errorf("%w: value set twice", domain.ErrConflict))
			return b
		}
		b.base = b.checkValue(name, values[name])
		if b.err != nil {
			return b
		}
		next[name] = values[name]
	}
	if b.err != nil {
		return b
	}
	b.values = next
	return b
}

// Build returns the statement or the first error recorded. Every column that
// is non-nullable, has no default and is not the primary key must be set.
func (b InsertBuilder) Build() (domain.Insert, error) {
	if b.err != nil {
		return domain.Insert{}, b.err
	}
	for _, col := range b.table.Columns() {
		if _, ok := b.values[col.Name]; !ok && col.Required() {
			return domain.Insert{}, &domain.BuildError{Op: b.op, Table: b.tableName(), Column: col.Name, Err: domain.ErrMissingValue}
		}
	}
	values := maps.Clone(b.values)
	if values == nil {
		values = map[string]any{}
	}
	return domain.Insert{Table: b.table, Values: values}, nil
}

// orderedKeys returns the keys of values in table column order. Unknown keys
// are reported on b.
func orderedKeys(t *schema.Table, values map[string]any, b *base) []string {
	var unknown []string
	for name := range values {
		if !t.HasColumn(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		*b = b.fail(unknown[0], domain.ErrUnknownColumn)
		return nil
	}
	keys := make([]string, 0, len(values))
	for _, name := range t.ColumnNames() {
		if _, ok := values[name]; ok {
			keys = append(keys, name)
		}
	}
	return keys
}
