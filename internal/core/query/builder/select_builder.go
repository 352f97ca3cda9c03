package builder

import (
	"fmt"
	"slices"

	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/schema"
)

// SelectBuilder builds a Select statement.
type SelectBuilder struct {
	base
	projection []string
	where      domain.Expr
	orderBy    []domain.OrderBy
	limit      *int
	offset     *int
}

// Select starts a query over t projecting columns, or every column when none
// are given.
func Select(t *schema.Table, columns ...string) SelectBuilder {
	b := SelectBuilder{base: newBase("select", t)}
	if b.err != nil {
		return b
	}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if !t.HasColumn(c) {
			b.base = b.fail(c, domain.ErrUnknownColumn)
			return b
		}
		if seen[c] {
			b.base = b.fail(c, fmt.Errorf("%w: column projected twice", domain.ErrConflict))
			return b
		}
		seen[c] = true
	}
	b.projection = slices.Clone(columns)
	return b
}

// Where adds a predicate. Repeated calls are combined with AND.
func (b SelectBuilder) Where(e domain.Expr) SelectBuilder {
	b.base = b.checkExpr(e)
	if b.err == nil {
		b.where = and(b.where, e)
	}
	return b
}

// OrderBy appends a sort key.
func (b SelectBuilder) OrderBy(column string, direction domain.SortDirection) SelectBuilder {
	if b.err != nil {
		return b
	}
	if !b.table.HasColumn(column) {
		b.base = b.fail(column, domain.ErrUnknownColumn)
		return b
	}
	switch direction {
	case "":
		direction = domain.Asc
	case domain.Asc, domain.Desc:
	default:
		b.base = b.fail(column, fmt.Errorf("%w: sort direction %q", domain.ErrInvalidValue, direction))
		return b
	}
	b.orderBy = append(slices.Clone(b.orderBy), domain.OrderBy{Column: column, Direction: direction})
	return b
}

// Limit caps the number of rows returned.
func (b SelectBuilder) Limit(n int) SelectBuilder {
	if b.err != nil {
		return b
	}
	if n < 0 {
		b.base = b.fail("", fmt.Errorf("%w: negative limit %d", domain.ErrInvalidValue, n))
		return b
	}
	b.limit = &n
	return b
}

// Offset skips rows.
func (b SelectBuilder) Offset(n int) SelectBuilder {
	if b.err != nil {
		return b
	}
	if n < 0 {
		b.base = b.fail("", fmt.Errorf("%w: negative offset %d", domain.ErrInvalidValue, n))
		return b
	}
	b.offset = &n
	return b
}

// Build returns the statement or the first error recorded.
func (b SelectBuilder) Build() (domain.Select, error) {
	if b.err != nil {
		return domain.Select{}, b.err
	}
	q := domain.Select{
		Table:      b.table,
		Projection: slices.Clone(b.projection),
		Where:      b.where,
		OrderBy:    slices.Clone(b.orderBy),
	}
	if b.limit != nil {
		n := *b.limit
		q.Limit = &n
	}
	if b.offset != nil {
		n := *b.offset
		q.Offset = &n
	}
	return q, nil
}
