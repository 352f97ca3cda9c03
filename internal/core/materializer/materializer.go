// Package materializer turns named events into compiled write statements,
// recording which tables each statement touches.
package materializer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/satishbabariya/tableshim/internal/core/query/compiler"
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrReadOnly     = errors.New("materializer returned a read-only query")
)

// Event is a named occurrence with its arguments.
type Event struct {
	Name string
	Args map[string]any
}

// Func builds the write query for one event.
type Func func(Event) (domain.Node, error)

// Materialization is a compiled write ready to be executed.
type Materialization struct {
	Event       Event
	Query       domain.CompiledQuery
	WriteTables []string
}

// Set maps event names to their materializer functions.
type Set struct {
	funcs    map[string]Func
	compiler *compiler.SQLCompiler
}

// Option configures a Set.
type Option func(*Set)

// WithDialect compiles materializations for dialect instead of SQLite.
func WithDialect(d domain.Dialect) Option {
	return func(s *Set) { s.compiler = compiler.NewSQLCompiler(d) }
}

// New creates a Set from funcs. The map is copied.
func New(funcs map[string]Func, opts ...Option) *Set {
	s := &Set{
		funcs:    make(map[string]Func, len(funcs)),
		compiler: compiler.NewSQLCompiler(domain.SQLite),
	}
	for name, fn := range funcs {
		s.funcs[name] = fn
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns the handled event names, sorted.
func (s *Set) Events() []string {
	names := make([]string, 0, len(s.funcs))
	for name := range s.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dialect returns the dialect materializations are compiled for.
func (s *Set) Dialect() domain.Dialect { return s.compiler.Dialect() }

// Materialize builds and compiles the write query for ev.
func (s *Set) Materialize(ev Event) (Materialization, error) {
	fn, ok := s.funcs[ev.Name]
	if !ok || fn == nil {
		return Materialization{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Name)
	}

	node, err := fn(ev)
	if err != nil {
		return Materialization{}, fmt.Errorf("event %q: %w", ev.Name, err)
	}
	if domain.IsNil(node) {
		return Materialization{}, fmt.Errorf("event %q: %w", ev.Name, domain.ErrEmpty)
	}
	if node.Kind() == domain.KindSelect {
		return Materialization{}, fmt.Errorf("event %q: %w", ev.Name, ErrReadOnly)
	}

	q, err := s.compiler.Compile(node)
	if err != nil {
		return Materialization{}, fmt.Errorf("event %q: %w", ev.Name, err)
	}

	return Materialization{
		Event:       ev,
		Query:       q,
		WriteTables: []string{node.Target().Name()},
	}, nil
}

// MaterializeAll materializes events in order, stopping at the first error.
func (s *Set) MaterializeAll(events ...Event) ([]Materialization, error) {
	out := make([]Materialization, 0, len(events))
	for _, ev := range events {
		m, err := s.Materialize(ev)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
