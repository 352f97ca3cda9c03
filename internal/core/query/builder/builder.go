// Package builder implements the query builder.
//
// Builders are values: every method returns a new builder and leaves the
// receiver untouched, so a partially built query can be branched and reused.
// Column references and values are checked against the bound table as soon
// as they are added; the first failure is kept and returned by Build.
package builder

import (
	"errors"
	"fmt"

	"github.com/satishbabariya/tableshim/internal/core/codec"
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/schema"
)

var errNoTable = fmt.Errorf("no table bound: %w", domain.ErrInconsistent)

// base carries the state every statement builder shares.
type base struct {
	op    string
	table *schema.Table
	err   error
}

func newBase(op string, t *schema.Table) base {
	b := base{op: op, table: t}
	if t == nil {
		b.err = &domain.BuildError{Op: op, Err: errNoTable}
	}
	return b
}

func (b base) tableName() string {
	if b.table == nil {
		return ""
	}
	return b.table.Name()
}

func (b base) fail(column string, err error) base {
	if b.err == nil {
		b.err = &domain.BuildError{Op: b.op, Table: b.tableName(), Column: column, Err: err}
	}
	return b
}

func (b base) column(name string) (schema.Column, error) {
	col, ok := b.table.Column(name)
	if !ok {
		return schema.Column{}, domain.ErrUnknownColumn
	}
	return col, nil
}

// checkValue verifies that v can be stored in column name.
func (b base) checkValue(name string, v any) base {
	if b.err != nil {
		return b
	}
	col, err := b.column(name)
	if err != nil {
		return b.fail(name, err)
	}
	if _, err := col.Encode(v); err != nil {
		return b.fail(name, fmt.Errorf("%w: %w", domain.ErrInvalidValue, err))
	}
	return b
}

// checkExpr verifies every column reference in e and every literal compared
// against a column.
func (b base) checkExpr(e domain.Expr) base {
	if b.err != nil {
		return b
	}
	if e == nil {
		return b.fail("", fmt.Errorf("%w: nil predicate", domain.ErrInvalidValue))
	}

	var firstErr error
	var firstCol string
	record := func(col string, err error) {
		if firstErr == nil {
			firstErr, firstCol = err, col
		}
	}

	domain.Walk(e, func(node domain.Expr) {
		switch n := node.(type) {
		case domain.ColumnRef:
			if !b.table.HasColumn(n.Name) {
				record(n.Name, domain.ErrUnknownColumn)
			}
		case domain.Comparison:
			if n.Left == nil || n.Right == nil {
				record("", fmt.Errorf("%w: comparison operand is nil", domain.ErrInvalidValue))
				return
			}
			b.checkOperands(n.Left, n.Right, record)
			b.checkOperands(n.Right, n.Left, record)
		case domain.Logical:
			if n.Left == nil || n.Right == nil {
				record("", fmt.Errorf("%w: %s operand is nil", domain.ErrInvalidValue, n.Op))
			}
		case domain.Not:
			if n.Expr == nil {
				record("", fmt.Errorf("%w: NOT operand is nil", domain.ErrInvalidValue))
			}
		}
	})

	if firstErr != nil {
		return b.fail(firstCol, firstErr)
	}
	return b
}

// checkOperands validates lit when it is a literal compared against col.
func (b base) checkOperands(lit, other domain.Expr, record func(string, error)) {
	l, ok := lit.(domain.Literal)
	if !ok {
		return
	}
	if l.Value == nil {
		record("", fmt.Errorf("%w: comparison with nil never matches, use Null", domain.ErrInvalidValue))
		return
	}
	ref, ok := other.(domain.ColumnRef)
	if !ok {
		if codec.Infer(l.Value) == nil {
			record("", fmt.Errorf("%w: no codec for %T", domain.ErrInvalidValue, l.Value))
		}
		return
	}
	col, found := b.table.Column(ref.Name)
	if !found {
		return
	}
	if _, err := col.Encode(l.Value); err != nil {
		record(ref.Name, fmt.Errorf("%w: %w", domain.ErrInvalidValue, err))
	}
}

// and appends e to an existing predicate.
func and(where, e domain.Expr) domain.Expr {
	if where == nil {
		return e
	}
	return domain.And(where, e)
}

// IsBuildError reports whether err came from a builder.
func IsBuildError(err error) bool {
	var be *domain.BuildError
	return errors.As(err, &be)
}
