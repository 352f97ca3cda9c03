package builder

import (
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/schema"
)

// DeleteBuilder builds a Delete statement.
type DeleteBuilder struct {
	base
	where domain.Expr
}

// DeleteFrom starts a delete from t. Without a predicate every row matches.
func DeleteFrom(t *schema.Table) DeleteBuilder {
	return DeleteBuilder{base: newBase("delete", t)}
}

// Where adds a predicate. Repeated calls are combined with AND.
func (b DeleteBuilder) Where(e domain.Expr) DeleteBuilder {
	b.base = b.checkExpr(e)
	if b.err == nil {
		b.where = and(b.where, e)
	}
	return b
}

// Build returns the statement or the first error recorded.
func (b DeleteBuilder) Build() (domain.Delete, error) {
	if b.err != nil {
		return domain.Delete{}, b.err
	}
	return domain.Delete{Table: b.table, Where: b.where}, nil
}
