// Package mapper decodes raw result rows into typed records using the column
// codecs of a table definition.
package mapper

import (
	"database/sql"
	"fmt"

	"github.com/satishbabariya/tableshim/internal/core/codec"
	"github.com/satishbabariya/tableshim/internal/core/schema"
)

// Record is a decoded row keyed by column name.
type Record map[string]any

// DecodeRow decodes the projected columns of one raw row. Fields are looked
// up by column name; an absent field is an error, never a zero value.
func DecodeRow(t *schema.Table, raw map[string]any, columns []string) (Record, error) {
	rec := make(Record, len(columns))
	for _, name := range columns {
		col, ok := t.Column(name)
		if !ok {
			return nil, &schema.Error{Table: t.Name(), Column: name, Err: schema.ErrUnknownColumn}
		}
		v, present := raw[name]
		if !present {
			return nil, &codec.DecodeError{Codec: col.Codec.Name(), Column: name, Err: codec.ErrMissingField}
		}
		decoded, err := col.Decode(v)
		if err != nil {
			return nil, err
		}
		rec[name] = decoded
	}
	return rec, nil
}

// DecodeRows decodes every raw row, stopping at the first failure.
func DecodeRows(t *schema.Table, rows []map[string]any, columns []string) ([]Record, error) {
	out := make([]Record, 0, len(rows))
	for i, raw := range rows {
		rec, err := DecodeRow(t, raw, columns)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodePositional decodes a row given as positional values in projection
// order.
func DecodePositional(t *schema.Table, values []any, columns []string) (Record, error) {
	raw := make(map[string]any, len(values))
	for i, v := range values {
		if i >= len(columns) {
			return nil, &codec.DecodeError{
				Expected: fmt.Sprintf("%d fields", len(columns)),
				Value:    len(values),
				Err:      codec.ErrTypeMismatch,
			}
		}
		raw[columns[i]] = v
	}
	return DecodeRow(t, raw, columns)
}

// ScanRows reads every row of rows into raw maps keyed by column name. Values
// are left exactly as the driver returned them.
func ScanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		// Create value holders
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return out, nil
}
