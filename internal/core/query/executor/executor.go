// Package executor runs compiled queries through a database adapter and
// decodes the results.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/satishbabariya/tableshim/internal/adapters/database"
	"github.com/satishbabariya/tableshim/internal/core/materializer"
	"github.com/satishbabariya/tableshim/internal/core/query/compiler"
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/query/mapper"
	"github.com/satishbabariya/tableshim/internal/core/schema"
	"github.com/satishbabariya/tableshim/internal/debug"
)

// ErrNotFound is returned by First when no row matches.
var ErrNotFound = errors.New("no rows")

// Executor compiles nodes for the adapter's dialect and runs them.
type Executor struct {
	db       database.Adapter
	compiler *compiler.SQLCompiler
	log      *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger replaces the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// New creates an executor over db.
func New(db database.Adapter, opts ...Option) *Executor {
	e := &Executor{
		db:       db,
		compiler: compiler.NewSQLCompiler(db.Dialect()),
		log:      debug.For("executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compiler returns the compiler bound to the adapter's dialect.
func (e *Executor) Compiler() *compiler.SQLCompiler { return e.compiler }

// Query runs sel and decodes every row.
func (e *Executor) Query(ctx context.Context, sel domain.Select) ([]mapper.Record, error) {
	q, err := e.compiler.Compile(sel)
	if err != nil {
		return nil, err
	}
	e.log.Debug("query", "sql", q.SQL, "binds", q.Binds)

	rows, err := e.db.Query(ctx, q.SQL, q.Binds...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	raw, err := mapper.ScanRows(rows)
	if err != nil {
		return nil, err
	}
	return mapper.DecodeRows(sel.Table, raw, sel.Columns())
}

// First runs sel limited to one row.
func (e *Executor) First(ctx context.Context, sel domain.Select) (mapper.Record, error) {
	one := 1
	sel.Limit = &one

	recs, err := e.Query(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s: %w", sel.Table.Name(), ErrNotFound)
	}
	return recs[0], nil
}

// Exec runs a write node and returns the number of affected rows.
func (e *Executor) Exec(ctx context.Context, node domain.Node) (int64, error) {
	if !domain.IsNil(node) && node.Kind() == domain.KindSelect {
		return 0, fmt.Errorf("exec: %w", materializer.ErrReadOnly)
	}
	q, err := e.compiler.Compile(node)
	if err != nil {
		return 0, err
	}
	e.log.Debug("exec", "sql", q.SQL, "binds", q.Binds)

	res, err := e.db.Execute(ctx, q.SQL, q.Binds...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute statement: %w", err)
	}
	return res.RowsAffected()
}

// Apply runs materializations in one transaction. Any failure rolls back
// every write in the batch.
func (e *Executor) Apply(ctx context.Context, ms ...materializer.Materialization) (err error) {
	for _, m := range ms {
		if m.Query.Dialect != "" && m.Query.Dialect != e.compiler.Dialect() {
			return fmt.Errorf("event %q compiled for %s, database is %s: %w",
				m.Event.Name, m.Query.Dialect, e.compiler.Dialect(), domain.ErrInconsistent)
		}
	}

	tx, err := e.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				e.log.Error("rollback failed", "error", rbErr)
			}
		}
	}()

	for _, m := range ms {
		e.log.Debug("apply", "event", m.Event.Name, "sql", m.Query.SQL, "tables", m.WriteTables)
		if _, err = tx.Execute(ctx, m.Query.SQL, m.Query.Binds...); err != nil {
			return fmt.Errorf("event %q: %w", m.Event.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// CreateTables creates every table of s that does not exist yet.
func (e *Executor) CreateTables(ctx context.Context, s *schema.Schema) error {
	for _, t := range s.Tables() {
		stmt, err := e.compiler.CreateTable(t)
		if err != nil {
			return err
		}
		e.log.Debug("create table", "sql", stmt)
		if _, err := e.db.Execute(ctx, stmt); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name(), err)
		}
	}
	return nil
}
