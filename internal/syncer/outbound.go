package syncer

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/model"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/sheets"
)

// NoChangesMessage is returned when an outbound pass finds nothing to write.
const NoChangesMessage = "No changes to sync"

// OutboundResult summarizes one database -> sheet pass.
type OutboundResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Exported int    `json:"exported"`
	Deleted  int    `json:"deleted"`
	Updated  int    `json:"updated"`
	Added    int    `json:"added"`
}

// SyncToSheet pushes database records onto one tab: the database is the
// source of truth for this pass. Deletions are applied before upserts so a
// freed row cannot be matched for update. Rows are rewritten only when a
// cell actually differs, and cells the database has no value for keep the
// sheet's current content - which is how client-added custom columns
// survive untouched.
func (s *Syncer) SyncToSheet(ctx context.Context, userID int64, spreadsheetID, tabName string, tabType model.TabType, verticals []model.Vertical, deletedCustomers []*model.Customer) (*OutboundResult, error) {
	schema, err := s.schemaFor(spreadsheetID, tabType)
	if err != nil {
		return nil, err
	}
	if len(verticals) == 0 {
		verticals = model.VerticalsForTab(tabType)
	}

	records, err := s.db.ListByUser(ctx, userID, verticals)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	rows, err := s.sheets.ReadRows(ctx, spreadsheetID, tabName)
	if err != nil {
		s.logFailure(ctx, userID, "outbound", err)
		return nil, err
	}
	if len(rows) == 0 {
		err := fmt.Errorf("tab %q has no header row", tabName)
		s.logFailure(ctx, userID, "outbound", err)
		return nil, err
	}

	header := rows[0]
	dataRows := rows[1:]
	sm := NewSchemaMap(schema, header)
	ix := buildRowIndex(sm, dataRows)

	// Deletions first.
	clears, dimDeletes, deleted := planDeletions(tabName, sm, ix, dataRows, deletedCustomers)

	// Per-record reconciliation.
	var updates []sheets.RangeUpdate
	var appends [][]string
	nextSerial := maxSerial(sm, dataRows) + 1

	for _, c := range records {
		row := ix.resolve(keysFromCustomer(c))
		if row == nil {
			appends = append(appends, buildRow(sm, c, nextSerial))
			nextSerial++
			continue
		}

		next := mergeRow(sm, c, row.cells)
		if !cellsEqual(next, row.cells) {
			updates = append(updates, sheets.RangeUpdate{
				Range:  rowRange(tabName, row.num),
				Values: [][]string{next},
			})
		}
	}

	if len(updates) == 0 && len(appends) == 0 && len(clears) == 0 && len(dimDeletes) == 0 {
		return &OutboundResult{Success: true, Message: NoChangesMessage, Exported: len(records)}, nil
	}

	// Dimension deletes only touch trailing rows, so the row numbers in the
	// planned updates stay valid without a re-read.
	if len(dimDeletes) > 0 {
		sheetID, err := s.sheets.TabID(ctx, spreadsheetID, tabName)
		if err != nil {
			s.logFailure(ctx, userID, "outbound", err)
			return nil, err
		}
		for _, del := range dimDeletes {
			if err := s.sheets.DeleteRows(ctx, spreadsheetID, sheetID, del.start, del.end); err != nil {
				s.logFailure(ctx, userID, "outbound", err)
				return nil, err
			}
		}
	}

	if err := s.sheets.BatchUpdate(ctx, spreadsheetID, append(clears, updates...)); err != nil {
		s.logFailure(ctx, userID, "outbound", err)
		return nil, err
	}
	if err := s.sheets.Append(ctx, spreadsheetID, tabName, appends); err != nil {
		s.logFailure(ctx, userID, "outbound", err)
		return nil, err
	}

	res := &OutboundResult{
		Success:  true,
		Exported: len(records),
		Deleted:  deleted,
		Updated:  len(updates),
		Added:    len(appends),
	}

	s.log.Info().
		Int64("user", userID).
		Str("tab", tabName).
		Int("deleted", res.Deleted).
		Int("updated", res.Updated).
		Int("added", res.Added).
		Msg("outbound sync complete")
	_ = s.db.AddSyncLog(ctx, userID, "outbound", "completed", map[string]any{
		"tab":     tabName,
		"deleted": res.Deleted,
		"updated": res.Updated,
		"added":   res.Added,
	})

	return res, nil
}

// rowSpan is a half-open 0-based row dimension range.
type rowSpan struct {
	start, end int64
}

// planDeletions resolves explicitly deleted customers to sheet rows and
// classifies each: trailing rows (a contiguous block ending at the last data
// row) get their dimension removed; middle rows are cleared in place so rows
// below keep their numbers for agents with the sheet open. The serial cell
// of a cleared row is preserved. Matched rows leave the index so the upsert
// phase cannot rematch them.
func planDeletions(tabName string, sm *SchemaMap, ix *rowIndex, dataRows [][]string, deletedCustomers []*model.Customer) (clears []sheets.RangeUpdate, dims []rowSpan, deleted int) {
	if len(deletedCustomers) == 0 {
		return nil, nil, 0
	}

	matched := make([]*sheetRow, 0, len(deletedCustomers))
	for _, c := range deletedCustomers {
		if row := ix.resolve(keysFromCustomer(c)); row != nil {
			matched = append(matched, row)
			ix.remove(row)
		}
	}
	if len(matched) == 0 {
		return nil, nil, 0
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].num < matched[j].num })

	// Peel the trailing contiguous block off the end.
	lastRow := len(dataRows) + 1
	trailingStart := len(matched)
	for i := len(matched) - 1; i >= 0; i-- {
		if matched[i].num != lastRow-(len(matched)-1-i) {
			break
		}
		trailingStart = i
	}

	for _, row := range matched[:trailingStart] {
		clears = append(clears, clearRowUpdate(tabName, sm, row))
	}

	if trailingStart < len(matched) {
		first := matched[trailingStart].num
		dims = append(dims, rowSpan{start: int64(first - 1), end: int64(lastRow)})
	}

	return clears, dims, len(matched)
}

// clearRowUpdate blanks a row in place, keeping only the serial cell so the
// numbering column stays monotonic.
func clearRowUpdate(tabName string, sm *SchemaMap, row *sheetRow) sheets.RangeUpdate {
	width := sm.Width()
	if len(row.cells) > width {
		width = len(row.cells)
	}

	cleared := make([]string, width)
	if col, ok := sm.Column(model.FieldSerial); ok && col < len(row.cells) {
		cleared[col] = row.cells[col]
	}

	return sheets.RangeUpdate{
		Range:  rowRange(tabName, row.num),
		Values: [][]string{cleared},
	}
}

// mergeRow builds the full row vector for a matched record: the database
// value wins when non-empty, everything else (unmanaged columns included)
// keeps the sheet's current cell.
func mergeRow(sm *SchemaMap, c *model.Customer, cells []string) []string {
	width := sm.Width()
	if len(cells) > width {
		width = len(cells)
	}

	next := make([]string, width)
	copy(next, cells)

	for col := 0; col < sm.Width(); col++ {
		f, ok := sm.FieldAt(col)
		if !ok || f == model.FieldSerial {
			continue
		}
		if v := renderField(c, f); v != "" {
			next[col] = v
		}
	}
	return next
}

// buildRow renders a brand-new sheet row for an unmatched record.
func buildRow(sm *SchemaMap, c *model.Customer, serial int) []string {
	row := make([]string, sm.Width())
	for col := 0; col < sm.Width(); col++ {
		f, ok := sm.FieldAt(col)
		if !ok {
			continue
		}
		if f == model.FieldSerial {
			row[col] = strconv.Itoa(serial)
			continue
		}
		row[col] = renderField(c, f)
	}
	return row
}

// renderField converts an internal value to its sheet spelling.
func renderField(c *model.Customer, f model.Field) string {
	if f == model.FieldStatus {
		return model.RenderStatus(c.Status)
	}
	return c.FieldValue(f)
}

// maxSerial scans the serial column for the highest number in use.
func maxSerial(sm *SchemaMap, dataRows [][]string) int {
	col, ok := sm.Column(model.FieldSerial)
	if !ok {
		return len(dataRows)
	}

	max := 0
	for _, cells := range dataRows {
		if col >= len(cells) {
			continue
		}
		if n, err := strconv.Atoi(normKey(cells[col])); err == nil && n > max {
			max = n
		}
	}
	return max
}

func cellsEqual(a, b []string) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv string
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			return false
		}
	}
	return true
}

func rowRange(tab string, rowNum int) string {
	return fmt.Sprintf("'%s'!A%d", tab, rowNum)
}
