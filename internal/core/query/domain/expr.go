package domain

// Expr is a node of a predicate expression tree. The tree is an inert
// description; only the compiler consumes it.
type Expr interface {
	exprNode()
}

// ColumnRef refers to a column of the query's table.
type ColumnRef struct {
	Name string
}

// Literal is a constant value. It compiles to a placeholder and a bind value.
type Literal struct {
	Value any
}

// Operator is a binary comparison operator.
type Operator string

const (
	OpEq  Operator = "="
	OpNe  Operator = "!="
	OpLt  Operator = "<"
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpGte Operator = ">="
)

// Comparison compares two expressions.
type Comparison struct {
	Op    Operator
	Left  Expr
	Right Expr
}

// LogicalOperator joins two predicates.
type LogicalOperator string

const (
	// AND requires both sides.
	AND LogicalOperator = "AND"
	// OR requires either side.
	OR LogicalOperator = "OR"
)

// Logical combines two predicates with AND or OR.
type Logical struct {
	Op    LogicalOperator
	Left  Expr
	Right Expr
}

// Not negates a predicate.
type Not struct {
	Expr Expr
}

// IsNull tests a column for NULL.
type IsNull struct {
	Column ColumnRef
}

func (ColumnRef) exprNode()  {}
func (Literal) exprNode()    {}
func (Comparison) exprNode() {}
func (Logical) exprNode()    {}
func (Not) exprNode()        {}
func (IsNull) exprNode()     {}

// Column references a column by name.
func Column(name string) ColumnRef { return ColumnRef{Name: name} }

// Value wraps a constant.
func Value(v any) Literal { return Literal{Value: v} }

// Eq builds l = r.
func Eq(l, r Expr) Expr { return Comparison{Op: OpEq, Left: l, Right: r} }

// Ne builds l != r.
func Ne(l, r Expr) Expr { return Comparison{Op: OpNe, Left: l, Right: r} }

// Lt builds l < r.
func Lt(l, r Expr) Expr { return Comparison{Op: OpLt, Left: l, Right: r} }

// Lte builds l <= r.
func Lte(l, r Expr) Expr { return Comparison{Op: OpLte, Left: l, Right: r} }

// Gt builds l > r.
func Gt(l, r Expr) Expr { return Comparison{Op: OpGt, Left: l, Right: r} }

// Gte builds l >= r.
func Gte(l, r Expr) Expr { return Comparison{Op: OpGte, Left: l, Right: r} }

// And builds (l AND r).
func And(l, r Expr) Expr { return Logical{Op: AND, Left: l, Right: r} }

// Or builds (l OR r).
func Or(l, r Expr) Expr { return Logical{Op: OR, Left: l, Right: r} }

// Negate builds NOT (e).
func Negate(e Expr) Expr { return Not{Expr: e} }

// Null builds column IS NULL.
func Null(column string) Expr { return IsNull{Column: Column(column)} }

// AllOf folds predicates left to right with AND. It returns nil for no input.
func AllOf(exprs ...Expr) Expr { return fold(AND, exprs) }

// AnyOf folds predicates left to right with OR. It returns nil for no input.
func AnyOf(exprs ...Expr) Expr { return fold(OR, exprs) }

func fold(op LogicalOperator, exprs []Expr) Expr {
	var out Expr
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if out == nil {
			out = e
			continue
		}
		out = Logical{Op: op, Left: out, Right: e}
	}
	return out
}

// Walk visits e and its children depth-first, left to right.
func Walk(e Expr, fn func(Expr)) {
	if e == nil {
		return
	}
	fn(e)
	switch n := e.(type) {
	case Comparison:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case Logical:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case Not:
		Walk(n.Expr, fn)
	case IsNull:
		Walk(n.Column, fn)
	}
}
