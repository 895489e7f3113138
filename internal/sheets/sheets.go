// Package sheets is the sole I/O boundary to the spreadsheet. It wraps the
// Sheets API behind a narrow Adapter interface and falls back to the public
// CSV export for reads when authenticated access is unavailable.
package sheets

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// RangeUpdate is one range rewrite in a batched update.
type RangeUpdate struct {
	Range  string
	Values [][]string
}

// Adapter is the spreadsheet surface the reconcilers consume. Row data is
// plain strings: cell rendering and parsing belong to the callers.
type Adapter interface {
	// ReadRows returns the full tab, header row included.
	ReadRows(ctx context.Context, spreadsheetID, tab string) ([][]string, error)
	// BatchUpdate rewrites the given ranges in one API call.
	BatchUpdate(ctx context.Context, spreadsheetID string, updates []RangeUpdate) error
	// Append adds rows after the last data row of the tab.
	Append(ctx context.Context, spreadsheetID, tab string, rows [][]string) error
	// Clear blanks the cells of a range without removing rows.
	Clear(ctx context.Context, spreadsheetID, clearRange string) error
	// DeleteRows removes row dimensions [start, end) (0-based) from a tab.
	DeleteRows(ctx context.Context, spreadsheetID string, sheetID, start, end int64) error
	// TabID resolves a tab title to its internal numeric sheet id.
	TabID(ctx context.Context, spreadsheetID, tab string) (int64, error)
}

// Service implements Adapter over the Sheets API. svc may be nil when no
// credentials are configured; reads then go through the CSV fallback and
// writes fail with AuthRequiredError.
type Service struct {
	svc *sheetsapi.Service
	csv *CSVReader
	log zerolog.Logger
}

// NewService builds the adapter. Either argument may be nil; at least one
// read path must be present for inbound sync to work.
func NewService(svc *sheetsapi.Service, csv *CSVReader, log zerolog.Logger) *Service {
	return &Service{svc: svc, csv: csv, log: log}
}

func (s *Service) ReadRows(ctx context.Context, spreadsheetID, tab string) ([][]string, error) {
	if s.svc == nil {
		return s.readCSV(ctx, spreadsheetID, tab, &AuthRequiredError{Op: "read"})
	}

	// FORMATTED_VALUE (the default) keeps cells as the agent sees them,
	// which is also what the diff logic compares against.
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, tab).Context(ctx).Do()
	if err != nil {
		if isAuthErr(err) {
			return s.readCSV(ctx, spreadsheetID, tab, err)
		}
		return nil, fmt.Errorf("read tab %s: %w", tab, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// readCSV is the read-only degradation path: ingest still works with broken
// write credentials. cause is what disqualified the API path.
func (s *Service) readCSV(ctx context.Context, spreadsheetID, tab string, cause error) ([][]string, error) {
	if s.csv == nil {
		return nil, fmt.Errorf("read tab %s: %w", tab, cause)
	}

	s.log.Warn().
		Str("spreadsheet", spreadsheetID).
		Str("tab", tab).
		AnErr("cause", cause).
		Msg("sheets api unavailable, reading via csv export")

	rows, err := s.csv.ReadRows(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("read tab %s (csv fallback after %v): %w", tab, cause, err)
	}
	return rows, nil
}

func (s *Service) BatchUpdate(ctx context.Context, spreadsheetID string, updates []RangeUpdate) error {
	if s.svc == nil {
		return &AuthRequiredError{Op: "batch update"}
	}
	if len(updates) == 0 {
		return nil
	}

	data := make([]*sheetsapi.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheetsapi.ValueRange{
			Range:  u.Range,
			Values: toInterfaceRows(u.Values),
		})
	}

	req := &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}

	if _, err := s.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("batch update %d ranges: %w", len(updates), err)
	}
	return nil
}

func (s *Service) Append(ctx context.Context, spreadsheetID, tab string, rows [][]string) error {
	if s.svc == nil {
		return &AuthRequiredError{Op: "append"}
	}
	if len(rows) == 0 {
		return nil
	}

	vr := &sheetsapi.ValueRange{Values: toInterfaceRows(rows)}

	_, err := s.svc.Spreadsheets.Values.Append(spreadsheetID, tab, vr).
		Context(ctx).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows: %w", len(rows), err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, spreadsheetID, clearRange string) error {
	if s.svc == nil {
		return &AuthRequiredError{Op: "clear"}
	}

	_, err := s.svc.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear range %s: %w", clearRange, err)
	}
	return nil
}

func (s *Service) DeleteRows(ctx context.Context, spreadsheetID string, sheetID, start, end int64) error {
	if s.svc == nil {
		return &AuthRequiredError{Op: "delete rows"}
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: start,
					EndIndex:   end,
				},
			},
		}},
	}

	if _, err := s.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete rows [%d,%d): %w", start, end, err)
	}
	return nil
}

func (s *Service) TabID(ctx context.Context, spreadsheetID, tab string) (int64, error) {
	if s.svc == nil {
		return 0, &AuthRequiredError{Op: "tab metadata"}
	}

	resp, err := s.svc.Spreadsheets.Get(spreadsheetID).
		Context(ctx).
		Fields("sheets.properties").
		Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet metadata: %w", err)
	}

	for _, sh := range resp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == tab {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("tab %q not found in spreadsheet %s", tab, spreadsheetID)
}

func toInterfaceRows(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}

func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
