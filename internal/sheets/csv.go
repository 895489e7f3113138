package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

const defaultExportBase = "https://docs.google.com"

// CSVReader reads a tab through the unauthenticated CSV export endpoint.
// Read-only: it exists so inbound sync survives broken write credentials.
type CSVReader struct {
	http *resty.Client
	base string
}

// NewCSVReader builds a reader against the public export endpoint.
func NewCSVReader() *CSVReader {
	return &CSVReader{http: resty.New(), base: defaultExportBase}
}

// NewCSVReaderWithBase is for tests pointing at a local server.
func NewCSVReaderWithBase(base string) *CSVReader {
	return &CSVReader{http: resty.New(), base: strings.TrimRight(base, "/")}
}

// ReadRows fetches and parses the tab as CSV. Standard quoting applies:
// doubled quotes escape quotes, fields with commas or newlines are quoted.
func (r *CSVReader) ReadRows(ctx context.Context, spreadsheetID, tab string) ([][]string, error) {
	resp, err := r.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"tqx":   "out:csv",
			"sheet": tab,
		}).
		Get(fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq", r.base, spreadsheetID))
	if err != nil {
		return nil, fmt.Errorf("csv export request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("csv export: unexpected status %d", resp.StatusCode())
	}

	reader := csv.NewReader(strings.NewReader(string(resp.Body())))
	reader.FieldsPerRecord = -1 // ragged rows are normal on hand-edited sheets

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv export: %w", err)
	}
	return rows, nil
}
