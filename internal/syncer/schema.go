// Package syncer implements the bidirectional sheet/database reconciliation
// engine: column schema mapping, row identity resolution, the inbound and
// outbound reconcilers and the per-user sync queue.
package syncer

import (
	"strings"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/model"
)

// SchemaMap binds a client's declared schema (internal field -> header text)
// to the live header row of a tab. Columns whose header is not in the schema
// are unmanaged: reads ignore them and writes preserve them unmodified.
// Schema fields with no live header are skipped on writes.
type SchemaMap struct {
	header  []string
	byField map[model.Field]int
	byCol   map[int]model.Field
}

// NewSchemaMap matches schema headers against the live header row.
// Header comparison is case-insensitive and trimmed; the first matching
// column wins when a client duplicated a header by hand.
func NewSchemaMap(schema map[model.Field]string, header []string) *SchemaMap {
	headerIdx := make(map[string]int, len(header))
	for i, h := range header {
		key := normHeader(h)
		if _, seen := headerIdx[key]; !seen && key != "" {
			headerIdx[key] = i
		}
	}

	sm := &SchemaMap{
		header:  header,
		byField: make(map[model.Field]int, len(schema)),
		byCol:   make(map[int]model.Field, len(schema)),
	}

	for field, headerText := range schema {
		col, ok := headerIdx[normHeader(headerText)]
		if !ok {
			continue // header absent from this tab: field is skipped here
		}
		sm.byField[field] = col
		sm.byCol[col] = field
	}

	return sm
}

// Column returns the column index holding a field, if the tab has it.
func (sm *SchemaMap) Column(f model.Field) (int, bool) {
	col, ok := sm.byField[f]
	return col, ok
}

// FieldAt returns the field mapped to a column; ok is false for unmanaged
// columns.
func (sm *SchemaMap) FieldAt(col int) (model.Field, bool) {
	f, ok := sm.byCol[col]
	return f, ok
}

// Width is the number of live header columns.
func (sm *SchemaMap) Width() int {
	return len(sm.header)
}

// Cell returns the value of a field's column in a sheet row, tolerating rows
// shorter than the header.
func (sm *SchemaMap) Cell(row []string, f model.Field) string {
	col, ok := sm.byField[f]
	if !ok || col >= len(row) {
		return ""
	}
	return row[col]
}

func normHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
