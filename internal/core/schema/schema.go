package schema

// Schema is an ordered set of tables with unique names.
type Schema struct {
	tables []*Table
	index  map[string]int
}

// NewSchema groups tables into a schema.
func NewSchema(tables ...*Table) (*Schema, error) {
	s := &Schema{index: make(map[string]int, len(tables))}
	for _, t := range tables {
		if _, dup := s.index[t.Name()]; dup {
			return nil, &Error{Table: t.Name(), Err: ErrDuplicateTable}
		}
		s.index[t.Name()] = len(s.tables)
		s.tables = append(s.tables, t)
	}
	return s, nil
}

// Table returns the table named name.
func (s *Schema) Table(name string) (*Table, error) {
	i, ok := s.index[name]
	if !ok {
		return nil, &Error{Table: name, Err: ErrUnknownTable}
	}
	return s.tables[i], nil
}

// Tables returns the tables in declaration order.
func (s *Schema) Tables() []*Table {
	out := make([]*Table, len(s.tables))
	copy(out, s.tables)
	return out
}
