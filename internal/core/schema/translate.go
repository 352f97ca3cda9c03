package schema

import (
	"fmt"

	"github.com/satishbabariya/tableshim/internal/core/codec"
)

// RelationalType is a column type tag of the relational builder's table form.
type RelationalType string

const (
	SQLiteText      RelationalType = "SQLiteText"
	SQLiteInteger   RelationalType = "SQLiteInteger"
	SQLiteReal      RelationalType = "SQLiteReal"
	SQLiteBoolean   RelationalType = "SQLiteBoolean"
	SQLiteTimestamp RelationalType = "SQLiteTimestamp"
	SQLiteBlob      RelationalType = "SQLiteBlob"
)

// RelationalColumn is a column in the relational builder's table form.
type RelationalColumn struct {
	Name       string
	ColumnType RelationalType
	NotNull    bool
	Primary    bool
	Default    any
	HasDefault bool
}

// RelationalTable is a table in the relational builder's table form.
type RelationalTable struct {
	Name    string
	Columns []RelationalColumn
}

// relationalCodecs is the one-to-one mapping between relational type tags and
// codec names.
var relationalCodecs = map[RelationalType]string{
	SQLiteText:      codec.NameText,
	SQLiteInteger:   codec.NameInteger,
	SQLiteReal:      codec.NameReal,
	SQLiteBoolean:   codec.NameBoolean,
	SQLiteTimestamp: codec.NameTimestamp,
	SQLiteBlob:      codec.NameBlob,
}

var codecRelational = func() map[string]RelationalType {
	m := make(map[string]RelationalType, len(relationalCodecs))
	for rt, name := range relationalCodecs {
		m[name] = rt
	}
	return m
}()

// FromRelational converts a relational table into a table definition,
// resolving codecs through reg.
func FromRelational(rt RelationalTable, reg *codec.Registry) (*Table, error) {
	columns := make([]Column, 0, len(rt.Columns))
	for _, rc := range rt.Columns {
		name, ok := relationalCodecs[rc.ColumnType]
		if !ok {
			return nil, &Error{Table: rt.Name, Column: rc.Name, Detail: string(rc.ColumnType), Err: ErrUnsupportedColumnType}
		}
		c, err := reg.Lookup(name)
		if err != nil {
			return nil, &Error{Table: rt.Name, Column: rc.Name, Detail: err.Error(), Err: ErrUnsupportedColumnType}
		}
		columns = append(columns, Column{
			Name:       rc.Name,
			Codec:      c,
			Nullable:   !rc.NotNull && !rc.Primary,
			PrimaryKey: rc.Primary,
			Default:    rc.Default,
			HasDefault: rc.HasDefault,
		})
	}
	return DefineTable(rt.Name, columns...)
}

// ToRelational converts a table definition into the relational table form.
// Columns with a custom codec have no relational equivalent.
func ToRelational(t *Table) (RelationalTable, error) {
	rt := RelationalTable{Name: t.Name(), Columns: make([]RelationalColumn, 0, len(t.columns))}
	for _, col := range t.columns {
		tag, ok := codecRelational[col.Codec.Name()]
		if !ok {
			return RelationalTable{}, &Error{
				Table:  t.Name(),
				Column: col.Name,
				Detail: fmt.Sprintf("codec %s", col.Codec.Name()),
				Err:    ErrUnsupportedColumnType,
			}
		}
		rt.Columns = append(rt.Columns, RelationalColumn{
			Name:       col.Name,
			ColumnType: tag,
			NotNull:    !col.Nullable,
			Primary:    col.PrimaryKey,
			Default:    col.Default,
			HasDefault: col.HasDefault,
		})
	}
	return rt, nil
}
