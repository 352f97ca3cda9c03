package commands

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/tableshim/internal/core/codec"
	"github.com/satishbabariya/tableshim/internal/core/query/builder"
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/schema"
)

// queryFlags describes a statement on the command line.
type queryFlags struct {
	table   string
	columns []string
	where   []string
	any     bool
	order   []string
	limit   int
	offset  int
	insert  []string
	set     []string
	delete  bool
}

func (f *queryFlags) register(cmd *cobra.Command, writes bool) {
	cmd.Flags().StringVarP(&f.table, "table", "t", "", "table to query (required)")
	cmd.Flags().StringSliceVar(&f.columns, "select", nil, "columns to project (default all)")
	cmd.Flags().StringArrayVarP(&f.where, "where", "w", nil, "column=value filter, repeatable; value null tests IS NULL")
	cmd.Flags().BoolVar(&f.any, "any", false, "combine --where filters with OR instead of AND")
	cmd.Flags().StringArrayVar(&f.order, "order", nil, "column[:desc] ordering, repeatable")
	cmd.Flags().IntVar(&f.limit, "limit", -1, "maximum rows")
	cmd.Flags().IntVar(&f.offset, "offset", -1, "rows to skip")
	_ = cmd.MarkFlagRequired("table")

	if writes {
		cmd.Flags().StringArrayVar(&f.insert, "insert", nil, "column=value to insert, repeatable")
		cmd.Flags().StringArrayVar(&f.set, "set", nil, "column=value to update, repeatable")
		cmd.Flags().BoolVar(&f.delete, "delete", false, "delete matching rows")
	}
}

// build turns the flags into a statement against s.
func (f *queryFlags) build(s *schema.Schema) (domain.Node, error) {
	t, err := s.Table(f.table)
	if err != nil {
		return nil, err
	}
	where, err := f.predicate(t)
	if err != nil {
		return nil, err
	}

	modes := 0
	for _, on := range []bool{len(f.insert) > 0, len(f.set) > 0, f.delete} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return nil, fmt.Errorf("--insert, --set and --delete are mutually exclusive")
	}

	switch {
	case len(f.insert) > 0:
		if where != nil {
			return nil, fmt.Errorf("--where does not apply to --insert")
		}
		values, err := assignments(t, f.insert)
		if err != nil {
			return nil, err
		}
		return builder.InsertInto(t).Values(values).Build()

	case len(f.set) > 0:
		values, err := assignments(t, f.set)
		if err != nil {
			return nil, err
		}
		b := builder.Update(t).SetMap(values)
		if where != nil {
			b = b.Where(where)
		}
		return b.Build()

	case f.delete:
		b := builder.DeleteFrom(t)
		if where != nil {
			b = b.Where(where)
		}
		return b.Build()
	}

	b := builder.Select(t, f.columns...)
	if where != nil {
		b = b.Where(where)
	}
	for _, o := range f.order {
		col, dir, _ := strings.Cut(o, ":")
		direction := domain.Asc
		if strings.EqualFold(dir, "desc") {
			direction = domain.Desc
		} else if dir != "" && !strings.EqualFold(dir, "asc") {
			return nil, fmt.Errorf("invalid order direction %q", dir)
		}
		b = b.OrderBy(col, direction)
	}
	if f.limit >= 0 {
		b = b.Limit(f.limit)
	}
	if f.offset >= 0 {
		b = b.Offset(f.offset)
	}
	return b.Build()
}

func (f *queryFlags) predicate(t *schema.Table) (domain.Expr, error) {
	exprs := make([]domain.Expr, 0, len(f.where))
	for _, w := range f.where {
		name, raw, ok := strings.Cut(w, "=")
		if !ok {
			return nil, fmt.Errorf("invalid filter %q: want column=value", w)
		}
		col, found := t.Column(name)
		if !found {
			return nil, &schema.Error{Table: t.Name(), Column: name, Err: schema.ErrUnknownColumn}
		}
		if raw == "null" {
			exprs = append(exprs, domain.Null(name))
			continue
		}
		v, err := parseValue(col, raw)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, domain.Eq(domain.Column(name), domain.Value(v)))
	}
	if f.any {
		return domain.AnyOf(exprs...), nil
	}
	return domain.AllOf(exprs...), nil
}

func assignments(t *schema.Table, pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid assignment %q: want column=value", p)
		}
		col, found := t.Column(name)
		if !found {
			return nil, &schema.Error{Table: t.Name(), Column: name, Err: schema.ErrUnknownColumn}
		}
		if _, dup := values[name]; dup {
			return nil, fmt.Errorf("column %q assigned twice", name)
		}
		if raw == "null" {
			values[name] = nil
			continue
		}
		v, err := parseValue(col, raw)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return values, nil
}

// parseValue reads a command-line string as the column's storage primitive
// and decodes it through the column codec, so custom codecs work too.
// Integer storage also accepts true/false and RFC 3339 times; blob storage
// takes hex.
func parseValue(col schema.Column, raw string) (any, error) {
	var stored any
	switch col.StorageType() {
	case codec.Text:
		stored = raw
	case codec.Integer:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			stored = n
		} else if b, err := strconv.ParseBool(raw); err == nil {
			stored = map[bool]int64{false: 0, true: 1}[b]
		} else if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			stored = ts.UnixMilli()
		} else {
			return nil, fmt.Errorf("column %q: %q is not an integer, boolean or RFC 3339 time", col.Name, raw)
		}
	case codec.Real:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q: %q is not a number", col.Name, raw)
		}
		stored = n
	case codec.Blob:
		b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			return nil, fmt.Errorf("column %q: %q is not hex", col.Name, raw)
		}
		stored = b
	default:
		return nil, fmt.Errorf("column %q: unsupported storage type %s", col.Name, col.StorageType())
	}
	return col.Decode(stored)
}
