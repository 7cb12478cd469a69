package core

import "strings"

// IDField is the name of the identifier field in every stored document.
const IDField = "_id"

// Header holds the column names of a parsed input file in file order.
// It is shared by every Record produced from the same file.
type Header struct {
	columns []string
	index   map[string]int
}

// NewHeader builds a Header from column names. When a name repeats,
// lookups resolve to its first occurrence.
func NewHeader(columns []string) *Header {
	h := &Header{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	copy(h.columns, columns)
	for i, name := range h.columns {
		if _, ok := h.index[name]; !ok {
			h.index[name] = i
		}
	}
	return h
}

// Columns returns a copy of the column names.
func (h *Header) Columns() []string {
	out := make([]string, len(h.columns))
	copy(out, h.columns)
	return out
}

// Len returns the number of columns.
func (h *Header) Len() int {
	return len(h.columns)
}

// Record is one parsed input row, addressable by column name.
// Records are immutable once created.
type Record struct {
	line   int
	header *Header
	values []string
}

// NewRecord creates a Record for the given header and row values.
// line is the 1-based line number of the row in its source, used for diagnostics.
func NewRecord(header *Header, line int, values []string) Record {
	v := make([]string, len(values))
	copy(v, values)
	return Record{line: line, header: header, values: v}
}

// Line returns the source line number of the record.
func (r Record) Line() int {
	return r.line
}

// Get returns the raw value of a column. The second result is false when the
// column is not in the header or the row was too short to carry it.
func (r Record) Get(column string) (string, bool) {
	if r.header == nil {
		return "", false
	}
	i, ok := r.header.index[column]
	if !ok || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// Len returns the number of values actually present in the row.
func (r Record) Len() int {
	if r.header == nil {
		return 0
	}
	return min(len(r.values), r.header.Len())
}

// Field is a named entry of a Document. A field is either a scalar carrying
// Value or a group carrying nested fields in Group.
type Field struct {
	Name  string
	Value string
	Group []Field
}

// IsGroup reports whether the field is a nested group.
func (f Field) IsGroup() bool {
	return f.Group != nil
}

// Document is the nested, store-ready form of one Record.
type Document struct {
	ID     string
	Fields []Field // Top-level fields in mapping table order, excluding the identifier
}

// Lookup resolves a dot separated path such as "device_info.device_model".
// It returns false for absent fields and for paths that end on a group.
func (d *Document) Lookup(path string) (string, bool) {
	if path == IDField {
		return d.ID, d.ID != ""
	}
	fields := d.Fields
	parts := strings.Split(path, ".")
	for i, part := range parts {
		f, ok := findField(fields, part)
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			if f.IsGroup() {
				return "", false
			}
			return f.Value, true
		}
		if !f.IsGroup() {
			return "", false
		}
		fields = f.Group
	}
	return "", false
}

func findField(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Target identifies where documents are written.
type Target struct {
	Database   string
	Collection string
}

// String returns "database.collection".
func (t Target) String() string {
	return t.Database + "." + t.Collection
}

// FieldMapping binds one output path of a Document to one input column.
type FieldMapping struct {
	Path   string `yaml:"path"`
	Column string `yaml:"column"`
}
