package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

func sqliteDriver() driver {
	return driver{
		name: "sqlite3",
		dsn: func(u string) (string, error) {
			// "sqlite:" and "sqlite://" prefixes are accepted for symmetry with
			// the other dialects; go-sqlite3 understands the rest, including
			// "file:" URIs.
			u = strings.TrimPrefix(u, "sqlite://")
			u = strings.TrimPrefix(u, "sqlite:")
			if u == "" {
				return "", fmt.Errorf("empty sqlite path")
			}
			return u, nil
		},
		pool: func(db *sql.DB, cfg Config) {
			// One connection keeps writes serialized and lets in-memory
			// databases survive between statements.
			db.SetMaxOpenConns(1)
			db.SetMaxIdleConns(1)
			db.SetConnMaxIdleTime(0)
		},
		setup: []string{"PRAGMA foreign_keys = ON"},
	}
}

func postgresDriver() driver {
	return driver{
		name: "postgres",
		dsn: func(u string) (string, error) {
			if strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://") {
				return pq.ParseURL(u)
			}
			return u, nil
		},
		pool: defaultPool,
	}
}

func mysqlDriver() driver {
	return driver{
		name: "mysql",
		dsn:  mysqlDSN,
		pool: defaultPool,
	}
}

func defaultPool(db *sql.DB, cfg Config) {
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(max(cfg.MaxConnections/2, 1))
	db.SetConnMaxIdleTime(time.Duration(cfg.MaxIdleTime) * time.Second)
}

// mysqlDSN accepts either a native go-sql-driver DSN or a mysql:// URL and
// returns a validated native DSN.
func mysqlDSN(raw string) (string, error) {
	if !strings.HasPrefix(raw, "mysql://") {
		cfg, err := mysql.ParseDSN(raw)
		if err != nil {
			return "", err
		}
		return cfg.FormatDSN(), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Hostname() + ":3306"
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	if len(u.Query()) > 0 {
		cfg.Params = make(map[string]string, len(u.Query()))
		for k := range u.Query() {
			cfg.Params[k] = u.Query().Get(k)
		}
	}
	return cfg.FormatDSN(), nil
}
