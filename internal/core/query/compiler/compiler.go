// Package compiler implements SQL compilation from query nodes.
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/satishbabariya/tableshim/internal/core/codec"
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/schema"
)

// SQLCompiler renders query nodes to parameterized SQL. It holds no mutable
// state, so one compiler can be shared freely.
type SQLCompiler struct {
	dialect domain.Dialect
}

// NewSQLCompiler creates a new SQL compiler. An empty dialect means SQLite.
func NewSQLCompiler(dialect domain.Dialect) *SQLCompiler {
	if dialect == "" {
		dialect = domain.SQLite
	}
	return &SQLCompiler{
		dialect: dialect,
	}
}

// quoteIdentifier quotes a table or column name for dialect. Quoting keeps
// reserved words usable as names and stops PostgreSQL from folding case.
func quoteIdentifier(dialect domain.Dialect, name string) string {
	if dialect == domain.MySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Dialect returns the dialect the compiler targets.
func (c *SQLCompiler) Dialect() domain.Dialect {
	return c.dialect
}

// Compile renders node to SQL text and its bind values. The same node always
// yields the same text and the same bind order.
func (c *SQLCompiler) Compile(node domain.Node) (domain.CompiledQuery, error) {
	if domain.IsNil(node) {
		return domain.CompiledQuery{}, &domain.CompileError{Err: fmt.Errorf("%w: nil node", domain.ErrUnsupportedNode)}
	}

	if node.Target() == nil {
		return domain.CompiledQuery{}, &domain.CompileError{Kind: node.Kind(), Err: fmt.Errorf("no table: %w", domain.ErrInconsistent)}
	}

	st := &state{dialect: c.dialect, table: node.Target(), kind: node.Kind(), argIndex: 1}

	var err error
	switch q := node.(type) {
	case domain.Select:
		err = st.selectStmt(q)
	case *domain.Select:
		err = st.selectStmt(*q)
	case domain.Insert:
		err = st.insertStmt(q)
	case *domain.Insert:
		err = st.insertStmt(*q)
	case domain.Update:
		err = st.updateStmt(q)
	case *domain.Update:
		err = st.updateStmt(*q)
	case domain.Delete:
		err = st.deleteStmt(q)
	case *domain.Delete:
		err = st.deleteStmt(*q)
	default:
		err = st.fail("", fmt.Errorf("%w: %T", domain.ErrUnsupportedNode, node))
	}
	if err != nil {
		return domain.CompiledQuery{}, err
	}

	binds := st.binds
	if binds == nil {
		binds = []any{}
	}
	return domain.CompiledQuery{
		SQL:     st.sql.String(),
		Binds:   binds,
		Dialect: c.dialect,
	}, nil
}

// state accumulates SQL text and binds for one compilation.
type state struct {
	dialect  domain.Dialect
	table    *schema.Table
	kind     domain.Kind
	sql      strings.Builder
	binds    []any
	argIndex int
}

func (s *state) quote(name string) string {
	return quoteIdentifier(s.dialect, name)
}

func (s *state) fail(column string, err error) error {
	return &domain.CompileError{Kind: s.kind, Table: s.table.Name(), Column: column, Err: err}
}

// placeholder returns the appropriate placeholder for the dialect.
func (s *state) placeholder() string {
	defer func() { s.argIndex++ }()

	switch s.dialect {
	case domain.PostgreSQL:
		return fmt.Sprintf("$%d", s.argIndex)
	default:
		return "?"
	}
}

// bind appends an already encoded value and returns its placeholder.
func (s *state) bind(v any) string {
	s.binds = append(s.binds, v)
	return s.placeholder()
}

func (s *state) column(name string) (schema.Column, error) {
	col, ok := s.table.Column(name)
	if !ok {
		return schema.Column{}, s.fail(name, fmt.Errorf("%w: %w", domain.ErrInconsistent, domain.ErrUnknownColumn))
	}
	return col, nil
}

func (s *state) selectStmt(q domain.Select) error {
	s.sql.WriteString("SELECT ")
	if len(q.Projection) > 0 {
		for i, name := range q.Projection {
			if _, err := s.column(name); err != nil {
				return err
			}
			if i > 0 {
				s.sql.WriteString(", ")
			}
			s.sql.WriteString(s.quote(name))
		}
	} else {
		s.sql.WriteString("*")
	}

	s.sql.WriteString(" FROM ")
	s.sql.WriteString(s.quote(s.table.Name()))

	if err := s.where(q.Where); err != nil {
		return err
	}

	if len(q.OrderBy) > 0 {
		s.sql.WriteString(" ORDER BY ")
		for i, order := range q.OrderBy {
			if _, err := s.column(order.Column); err != nil {
				return err
			}
			if i > 0 {
				s.sql.WriteString(", ")
			}
			dir := order.Direction
			if dir == "" {
				dir = domain.Asc
			}
			s.sql.WriteString(s.quote(order.Column))
			s.sql.WriteString(" ")
			s.sql.WriteString(string(dir))
		}
	}

	// Limits render inline so the bind list holds only literal values.
	if q.Limit != nil {
		s.sql.WriteString(" LIMIT ")
		s.sql.WriteString(strconv.Itoa(*q.Limit))
	}
	if q.Offset != nil {
		if q.Limit == nil {
			switch s.dialect {
			case domain.SQLite:
				s.sql.WriteString(" LIMIT -1")
			case domain.MySQL:
				// MySQL requires LIMIT when using OFFSET
				s.sql.WriteString(" LIMIT 18446744073709551615")
			}
		}
		s.sql.WriteString(" OFFSET ")
		s.sql.WriteString(strconv.Itoa(*q.Offset))
	}
	return nil
}

func (s *state) insertStmt(q domain.Insert) error {
	s.sql.WriteString("INSERT INTO ")
	s.sql.WriteString(s.quote(s.table.Name()))

	names, err := s.orderedColumns(q.Values)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		if s.dialect == domain.MySQL {
			s.sql.WriteString(" () VALUES ()")
		} else {
			s.sql.WriteString(" DEFAULT VALUES")
		}
		return nil
	}

	quoted := make([]string, len(names))
	placeholders := make([]string, len(names))
	for i, name := range names {
		quoted[i] = s.quote(name)
		col, _ := s.table.Column(name)
		v, err := col.Encode(q.Values[name])
		if err != nil {
			return s.fail(name, fmt.Errorf("%w: %w", domain.ErrInvalidValue, err))
		}
		placeholders[i] = s.bind(v)
	}

	s.sql.WriteString(" (")
	s.sql.WriteString(strings.Join(quoted, ", "))
	s.sql.WriteString(") VALUES (")
	s.sql.WriteString(strings.Join(placeholders, ", "))
	s.sql.WriteString(")")
	return nil
}

func (s *state) updateStmt(q domain.Update) error {
	s.sql.WriteString("UPDATE ")
	s.sql.WriteString(s.quote(s.table.Name()))

	names, err := s.orderedColumns(q.Assignments)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return s.fail("", fmt.Errorf("%w: no assignments", domain.ErrEmpty))
	}

	s.sql.WriteString(" SET ")
	for i, name := range names {
		col, _ := s.table.Column(name)
		v, err := col.Encode(q.Assignments[name])
		if err != nil {
			return s.fail(name, fmt.Errorf("%w: %w", domain.ErrInvalidValue, err))
		}
		if i > 0 {
			s.sql.WriteString(", ")
		}
		s.sql.WriteString(s.quote(name))
		s.sql.WriteString(" = ")
		s.sql.WriteString(s.bind(v))
	}

	return s.where(q.Where)
}

func (s *state) deleteStmt(q domain.Delete) error {
	s.sql.WriteString("DELETE FROM ")
	s.sql.WriteString(s.quote(s.table.Name()))
	return s.where(q.Where)
}

// orderedColumns returns the keys of values in the table's column order so
// output does not depend on map iteration.
func (s *state) orderedColumns(values map[string]any) ([]string, error) {
	for name := range values {
		if !s.table.HasColumn(name) {
			// Report the first unknown name in table-independent sorted order.
			return nil, s.fail(firstUnknown(s.table, values), fmt.Errorf("%w: %w", domain.ErrInconsistent, domain.ErrUnknownColumn))
		}
	}
	names := make([]string, 0, len(values))
	for _, name := range s.table.ColumnNames() {
		if _, ok := values[name]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func firstUnknown(t *schema.Table, values map[string]any) string {
	first := ""
	for name := range values {
		if !t.HasColumn(name) && (first == "" || name < first) {
			first = name
		}
	}
	return first
}

func (s *state) where(e domain.Expr) error {
	if e == nil {
		return nil
	}
	clause, err := s.expr(e)
	if err != nil {
		return err
	}
	s.sql.WriteString(" WHERE ")
	s.sql.WriteString(clause)
	return nil
}

// expr renders e depth-first, left to right, appending a bind for every
// literal in the order its placeholder is emitted.
func (s *state) expr(e domain.Expr) (string, error) {
	switch n := e.(type) {
	case domain.ColumnRef:
		if _, err := s.column(n.Name); err != nil {
			return "", err
		}
		return s.quote(n.Name), nil

	case domain.Literal:
		return s.literal(n, nil)

	case domain.Comparison:
		left, err := s.operand(n.Left, n.Right)
		if err != nil {
			return "", err
		}
		right, err := s.operand(n.Right, n.Left)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, n.Op, right), nil

	case domain.Logical:
		if n.Op != domain.AND && n.Op != domain.OR {
			return "", s.fail("", fmt.Errorf("%w: logical operator %q", domain.ErrUnsupportedNode, n.Op))
		}
		left, err := s.expr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := s.expr(n.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, n.Op, right), nil

	case domain.Not:
		inner, err := s.expr(n.Expr)
		if err != nil {
			return "", err
		}
		if _, grouped := n.Expr.(domain.Logical); grouped {
			return "NOT " + inner, nil
		}
		return "NOT (" + inner + ")", nil

	case domain.IsNull:
		if _, err := s.column(n.Column.Name); err != nil {
			return "", err
		}
		return s.quote(n.Column.Name) + " IS NULL", nil

	default:
		return "", s.fail("", fmt.Errorf("%w: expression %T", domain.ErrUnsupportedNode, e))
	}
}

// operand renders one side of a comparison. A literal compared against a
// column is encoded with that column's codec.
func (s *state) operand(e, other domain.Expr) (string, error) {
	switch n := e.(type) {
	case domain.Literal:
		if ref, ok := other.(domain.ColumnRef); ok {
			col, err := s.column(ref.Name)
			if err != nil {
				return "", err
			}
			return s.literal(n, &col)
		}
		return s.literal(n, nil)
	case domain.ColumnRef:
		return s.expr(n)
	case domain.Logical:
		return s.expr(n)
	case nil:
		return "", s.fail("", fmt.Errorf("%w: nil operand", domain.ErrInconsistent))
	default:
		inner, err := s.expr(n)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	}
}

func (s *state) literal(l domain.Literal, col *schema.Column) (string, error) {
	if l.Value == nil {
		return s.bind(nil), nil
	}
	if col != nil {
		v, err := col.Codec.Encode(l.Value)
		if err != nil {
			return "", s.fail(col.Name, fmt.Errorf("%w: %w", domain.ErrInvalidValue, err))
		}
		return s.bind(v), nil
	}
	c := codec.Infer(l.Value)
	if c == nil {
		return "", s.fail("", fmt.Errorf("%w: no codec for %T", domain.ErrInvalidValue, l.Value))
	}
	v, err := c.Encode(l.Value)
	if err != nil {
		return "", s.fail("", fmt.Errorf("%w: %w", domain.ErrInvalidValue, err))
	}
	return s.bind(v), nil
}
