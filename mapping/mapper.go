package mapping

import (
	"fmt"
	"strings"

	"github.com/poiesic/usageload/core"
)

// Mapper converts Records into Documents using a validated Table.
// A Mapper has no mutable state and is safe for concurrent use.
type Mapper struct {
	idColumn string
	fields   []compiledField
}

type compiledField struct {
	path   []string
	column string
}

// NewMapper validates table and prepares it for mapping.
func NewMapper(table *Table) (*Mapper, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: table is nil", ErrInvalidTable)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	m := &Mapper{
		idColumn: table.IDColumn,
		fields:   make([]compiledField, len(table.Fields)),
	}
	for i, f := range table.Fields {
		m.fields[i] = compiledField{
			path:   strings.Split(f.Path, "."),
			column: f.Column,
		}
	}
	return m, nil
}

// IDColumn returns the name of the identifier column.
func (m *Mapper) IDColumn() string {
	return m.idColumn
}

// Map produces the Document for one Record.
// It fails only when the identifier column is absent or empty, returning an
// error that wraps both core.ErrMapping and core.ErrMissingIdentifier.
func (m *Mapper) Map(record core.Record) (*core.Document, error) {
	id, ok := record.Get(m.idColumn)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: line %d: column %q: %w",
			core.ErrMapping, record.Line(), m.idColumn, core.ErrMissingIdentifier)
	}

	doc := &core.Document{ID: id}
	for _, f := range m.fields {
		value, ok := record.Get(f.column)
		if !ok {
			continue
		}
		doc.Fields = insert(doc.Fields, f.path, value)
	}
	return doc, nil
}

// insert places value at path, creating groups in first-seen order.
func insert(fields []core.Field, path []string, value string) []core.Field {
	if len(path) == 1 {
		return append(fields, core.Field{Name: path[0], Value: value})
	}
	for i := range fields {
		if fields[i].Name == path[0] && fields[i].IsGroup() {
			fields[i].Group = insert(fields[i].Group, path[1:], value)
			return fields
		}
	}
	group := core.Field{Name: path[0], Group: insert([]core.Field{}, path[1:], value)}
	return append(fields, group)
}
