package compiler

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/satishbabariya/tableshim/internal/core/codec"
	"github.com/satishbabariya/tableshim/internal/core/query/domain"
	"github.com/satishbabariya/tableshim/internal/core/schema"
)

// CreateTable renders a CREATE TABLE IF NOT EXISTS statement for t. DDL cannot
// carry bind parameters, so defaults are rendered as inline literals.
func (c *SQLCompiler) CreateTable(t *schema.Table) (string, error) {
	if t == nil {
		return "", &domain.CompileError{Err: fmt.Errorf("no table: %w", domain.ErrInconsistent)}
	}

	defs := make([]string, 0, len(t.Columns()))
	for _, col := range t.Columns() {
		var def strings.Builder
		def.WriteString(quoteIdentifier(c.dialect, col.Name))
		def.WriteString(" ")
		def.WriteString(c.columnType(col))

		if col.PrimaryKey {
			def.WriteString(" PRIMARY KEY")
		} else if !col.Nullable {
			def.WriteString(" NOT NULL")
		}

		if col.HasDefault {
			v, err := col.Encode(col.Default)
			if err != nil {
				return "", &domain.CompileError{Table: t.Name(), Column: col.Name, Err: fmt.Errorf("%w: %w", domain.ErrInvalidValue, err)}
			}
			lit, err := c.inlineLiteral(v)
			if err != nil {
				return "", &domain.CompileError{Table: t.Name(), Column: col.Name, Err: err}
			}
			def.WriteString(" DEFAULT ")
			if c.dialect == domain.MySQL {
				// MySQL only accepts TEXT/BLOB defaults as expressions.
				def.WriteString("(" + lit + ")")
			} else {
				def.WriteString(lit)
			}
		}

		defs = append(defs, def.String())
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdentifier(c.dialect, t.Name()), strings.Join(defs, ", ")), nil
}

// DropTable renders a DROP TABLE IF EXISTS statement for t.
func (c *SQLCompiler) DropTable(t *schema.Table) string {
	return "DROP TABLE IF EXISTS " + quoteIdentifier(c.dialect, t.Name())
}

func (c *SQLCompiler) columnType(col schema.Column) string {
	st := col.StorageType()
	switch c.dialect {
	case domain.PostgreSQL:
		switch st {
		case codec.Integer:
			return "BIGINT"
		case codec.Real:
			return "DOUBLE PRECISION"
		case codec.Blob:
			return "BYTEA"
		default:
			return "TEXT"
		}
	case domain.MySQL:
		switch st {
		case codec.Integer:
			return "BIGINT"
		case codec.Real:
			return "DOUBLE"
		case codec.Blob:
			return "LONGBLOB"
		default:
			if col.PrimaryKey {
				return "VARCHAR(255)"
			}
			return "TEXT"
		}
	default:
		return st.SQLType()
	}
}

func (c *SQLCompiler) inlineLiteral(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'", nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case []byte:
		if c.dialect == domain.PostgreSQL {
			return `'\x` + hex.EncodeToString(x) + `'`, nil
		}
		return "X'" + hex.EncodeToString(x) + "'", nil
	default:
		return "", fmt.Errorf("%w: cannot inline %T", domain.ErrInvalidValue, v)
	}
}
