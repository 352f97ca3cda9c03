// Package domain contains the query AST, the predicate expression language
// and the compiled form handed to an execution surface.
package domain

import (
	"github.com/satishbabariya/tableshim/internal/core/schema"
)

// Kind tags a query node.
type Kind string

const (
	// KindSelect reads rows.
	KindSelect Kind = "Select"
	// KindInsert adds a row.
	KindInsert Kind = "Insert"
	// KindUpdate changes rows.
	KindUpdate Kind = "Update"
	// KindDelete removes rows.
	KindDelete Kind = "Delete"
)

// Node is a query statement bound to a table definition. Nodes are built by
// the builder package and are not modified after Build.
type Node interface {
	Kind() Kind
	Target() *schema.Table
}

// SortDirection represents sort direction.
type SortDirection string

const (
	// Asc sorts ascending.
	Asc SortDirection = "ASC"
	// Desc sorts descending.
	Desc SortDirection = "DESC"
)

// OrderBy defines sorting.
type OrderBy struct {
	Column    string
	Direction SortDirection
}

// Select reads columns of a table.
type Select struct {
	Table      *schema.Table
	Projection []string // empty means every column
	Where      Expr
	OrderBy    []OrderBy
	Limit      *int
	Offset     *int
}

// Insert adds one row.
type Insert struct {
	Table  *schema.Table
	Values map[string]any
}

// Update assigns columns on matching rows.
type Update struct {
	Table       *schema.Table
	Assignments map[string]any
	Where       Expr
}

// Delete removes matching rows.
type Delete struct {
	Table *schema.Table
	Where Expr
}

func (Select) Kind() Kind { return KindSelect }
func (Insert) Kind() Kind { return KindInsert }
func (Update) Kind() Kind { return KindUpdate }
func (Delete) Kind() Kind { return KindDelete }

func (s Select) Target() *schema.Table { return s.Table }
func (i Insert) Target() *schema.Table { return i.Table }
func (u Update) Target() *schema.Table { return u.Table }
func (d Delete) Target() *schema.Table { return d.Table }

// Columns returns the projected column names, expanding an empty projection
// to every column of the table.
func (s Select) Columns() []string {
	if len(s.Projection) == 0 {
		return s.Table.ColumnNames()
	}
	out := make([]string, len(s.Projection))
	copy(out, s.Projection)
	return out
}

// IsNil reports whether n is nil or a nil pointer to a statement.
func IsNil(n Node) bool {
	switch q := n.(type) {
	case nil:
		return true
	case *Select:
		return q == nil
	case *Insert:
		return q == nil
	case *Update:
		return q == nil
	case *Delete:
		return q == nil
	default:
		return false
	}
}

// CountLiterals counts the literal nodes in a statement's predicate plus its
// insert values or update assignments. A compiled statement has exactly this
// many bind values.
func CountLiterals(n Node) int {
	count := func(e Expr) int {
		c := 0
		Walk(e, func(e Expr) {
			if _, ok := e.(Literal); ok {
				c++
			}
		})
		return c
	}

	if IsNil(n) {
		return 0
	}
	switch q := n.(type) {
	case *Select:
		return CountLiterals(*q)
	case *Insert:
		return CountLiterals(*q)
	case *Update:
		return CountLiterals(*q)
	case *Delete:
		return CountLiterals(*q)
	case Select:
		return count(q.Where)
	case Insert:
		return len(q.Values)
	case Update:
		return len(q.Assignments) + count(q.Where)
	case Delete:
		return count(q.Where)
	default:
		return 0
	}
}

// Dialect is the SQL flavour a statement is compiled for.
type Dialect string

const (
	// SQLite uses ? placeholders.
	SQLite Dialect = "sqlite"
	// PostgreSQL uses $n placeholders.
	PostgreSQL Dialect = "postgres"
	// MySQL uses ? placeholders.
	MySQL Dialect = "mysql"
)

// ParseDialect normalizes a provider name.
func ParseDialect(name string) (Dialect, bool) {
	switch name {
	case "sqlite", "sqlite3":
		return SQLite, true
	case "postgres", "postgresql":
		return PostgreSQL, true
	case "mysql":
		return MySQL, true
	default:
		return "", false
	}
}

// CompiledQuery is SQL text plus its positional bind values, all of them
// storage primitives.
type CompiledQuery struct {
	SQL     string
	Binds   []any
	Dialect Dialect
}
