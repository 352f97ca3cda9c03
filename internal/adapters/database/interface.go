// Package database defines the execution boundary for compiled queries and
// its database/sql implementations for SQLite, PostgreSQL and MySQL.
package database

import (
	"context"
	"database/sql"

	"github.com/satishbabariya/tableshim/internal/core/query/domain"
)

// Adapter runs SQL text with positional binds against one database.
type Adapter interface {
	// Connect opens the pool and verifies the database is reachable.
	Connect(ctx context.Context) error

	// Disconnect closes the pool.
	Disconnect(ctx context.Context) error

	// Execute runs a statement that returns no rows.
	Execute(ctx context.Context, query string, args ...any) (sql.Result, error)

	// Query runs a statement that returns rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// Begin starts a transaction.
	Begin(ctx context.Context) (Transaction, error)

	// Ping checks the connection.
	Ping(ctx context.Context) error

	// Dialect is the SQL dialect queries must be compiled for.
	Dialect() domain.Dialect
}

// Transaction is the subset of Adapter usable inside a transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	Execute(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Config holds database connection configuration.
type Config struct {
	Dialect        domain.Dialect
	URL            string
	MaxConnections int
	MaxIdleTime    int // seconds
	ConnectTimeout int // seconds
}

func (c Config) withDefaults() Config {
	if c.Dialect == "" {
		c.Dialect = domain.SQLite
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = 10
	}
	if c.MaxIdleTime <= 0 {
		c.MaxIdleTime = 300
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10
	}
	return c
}
