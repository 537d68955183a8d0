// Package models contains domain types for the lane frequency dashboard.
package models

// Cell holds one spreadsheet value: nil (missing), string, a number, bool or time.Time.
type Cell = any

// Row is a single shipment record aligned to its table's fields.
type Row []Cell

// Table is an ordered sequence of rows sharing a fixed set of named fields.
// Every row has exactly len(Fields) cells.
type Table struct {
	Fields []string `json:"fields"`
	Rows   []Row    `json:"rows"`
}

// NewTable creates a table with the given fields. Rows appended through AddRow
// are padded or truncated to the field count.
func NewTable(fields []string) *Table {
	f := make([]string, len(fields))
	copy(f, fields)
	return &Table{
		Fields: f,
		Rows:   make([]Row, 0),
	}
}

// AddRow appends a row, padding missing trailing cells with nil.
func (t *Table) AddRow(cells ...Cell) {
	row := make(Row, len(t.Fields))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Index returns the position of the named field.
func (t *Table) Index(name string) (int, bool) {
	for i, f := range t.Fields {
		if f == name {
			return i, true
		}
	}
	return -1, false
}

// HasField reports whether the table schema contains name.
func (t *Table) HasField(name string) bool {
	_, ok := t.Index(name)
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Clone returns a deep copy of the row slices. Cell values are copied as-is.
func (t *Table) Clone() *Table {
	out := &Table{
		Fields: make([]string, len(t.Fields)),
		Rows:   make([]Row, len(t.Rows)),
	}
	copy(out.Fields, t.Fields)
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		copy(nr, r)
		out.Rows[i] = nr
	}
	return out
}

// FieldConfig names the columns the pipeline reads. The two known spreadsheet
// conventions differ only in these names.
type FieldConfig struct {
	Origin       string `json:"origin" yaml:"origin" msgpack:"origin" validate:"required"`
	Destination  string `json:"destination" yaml:"destination" msgpack:"destination" validate:"required"`
	DeliveryTime string `json:"deliveryTime" yaml:"delivery_time" msgpack:"deliveryTime" validate:"required"`
}

// Required returns the field names in a fixed order.
func (c FieldConfig) Required() []string {
	return []string{c.Origin, c.Destination, c.DeliveryTime}
}
