package builder

import (
	"fmt"
	"maps"

	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/schema"
)

// UpdateBuilder builds an Update statement.
type UpdateBuilder struct {
	base
	assignments map[string]any
	where       domain.Expr
}

// Update starts an update of t.
func Update(t *schema.Table) UpdateBuilder {
	return UpdateBuilder{base: newBase("update", t)}
}

// Set assigns a value to a column. Assigning a column twice is a conflict.
func (b UpdateBuilder) Set(column string, value any) UpdateBuilder {
	return b.SetMap(map[string]any{column: value})
}

// SetMap assigns several columns at once.
func (b UpdateBuilder) SetMap(values map[string]any) UpdateBuilder {
	if b.err != nil {
		return b
	}
	next := maps.Clone(b.assignments)
	if next == nil {
		next = make(map[string]any, len(values))
	}
	for _, name := range orderedKeys(b.table, values, &b.base) {
		if _, dup := next[name]; dup {
			b.base = b.fail(name, fmt.Errorf("%w: column assigned twice", domain.ErrConflict))
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
	b.assignments = next
	return b
}

// Where adds a predicate. Repeated calls are combined with AND.
func (b UpdateBuilder) Where(e domain.Expr) UpdateBuilder {
	b.base = b.checkExpr(e)
	if b.err == nil {
		b.where = and(b.where, e)
	}
	return b
}

// Build returns the statement or the first error recorded.
func (b UpdateBuilder) Build() (domain.Update, error) {
	if b.err != nil {
		return domain.Update{}, b.err
	}
	if len(b.assignments) == 0 {
		return domain.Update{}, &domain.BuildError{Op: b.op, Table: b.tableName(), Err: fmt.Errorf("%w: no assignments", domain.ErrEmpty)}
	}
	return domain.Update{
		Table:       b.table,
		Assignments: maps.Clone(b.assignments),
		Where:       b.where,
	}, nil
}
