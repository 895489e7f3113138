package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

func newAPIService(t *testing.T, handler http.HandlerFunc) *sheetsapi.Service {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	svc, err := sheetsapi.NewService(context.Background(),
		option.WithEndpoint(ts.URL),
		option.WithHTTPClient(ts.Client()),
	)
	if err != nil {
		t.Fatalf("create sheets service: %v", err)
	}
	return svc
}

func TestServiceReadRows_FormatsAllCellTypes(t *testing.T) {
	svc := newAPIService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		fmt.Fprint(w, `{"values": [["Name", "Premium"], ["Asha Rao", 12000]]}`)
	})

	s := NewService(svc, nil, zerolog.Nop())
	rows, err := s.ReadRows(context.Background(), "sheet-1", "MASTER")
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[1][0] != "Asha Rao" || rows[1][1] != "12000" {
		t.Errorf("data row = %v", rows[1])
	}
}

func TestServiceReadRows_AuthErrorFallsBackToCSV(t *testing.T) {
	svc := newAPIService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "insufficient permissions"}}`)
	})

	csvSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tqx"); got != "out:csv" {
			t.Errorf("tqx = %q", got)
		}
		if got := r.URL.Query().Get("sheet"); got != "MASTER" {
			t.Errorf("sheet = %q", got)
		}
		fmt.Fprint(w, "Name,Mobile\nAsha Rao,9900011122\n")
	}))
	t.Cleanup(csvSrv.Close)

	s := NewService(svc, NewCSVReaderWithBase(csvSrv.URL), zerolog.Nop())
	rows, err := s.ReadRows(context.Background(), "sheet-1", "MASTER")
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Asha Rao" {
		t.Errorf("rows = %v", rows)
	}
}

func TestServiceReadRows_TransientErrorDoesNotFallBack(t *testing.T) {
	svc := newAPIService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"code": 500, "message": "backend error"}}`)
	})

	csvCalled := false
	csvSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		csvCalled = true
	}))
	t.Cleanup(csvSrv.Close)

	s := NewService(svc, NewCSVReaderWithBase(csvSrv.URL), zerolog.Nop())
	if _, err := s.ReadRows(context.Background(), "sheet-1", "MASTER"); err == nil {
		t.Fatal("expected the 500 to propagate")
	}
	if csvCalled {
		t.Error("a transient API failure must not hit the csv export")
	}
}

func TestServiceWithoutAPIClient(t *testing.T) {
	csvSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Name\nAsha Rao\n")
	}))
	t.Cleanup(csvSrv.Close)

	s := NewService(nil, NewCSVReaderWithBase(csvSrv.URL), zerolog.Nop())

	rows, err := s.ReadRows(context.Background(), "sheet-1", "MASTER")
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %v", rows)
	}

	// Every write path needs the API client.
	var authErr *AuthRequiredError
	if err := s.BatchUpdate(context.Background(), "sheet-1", []RangeUpdate{{Range: "'MASTER'!A2", Values: [][]string{{"x"}}}}); !errors.As(err, &authErr) {
		t.Errorf("BatchUpdate error = %v, want AuthRequiredError", err)
	}
	if err := s.Append(context.Background(), "sheet-1", "MASTER", [][]string{{"x"}}); !errors.As(err, &authErr) {
		t.Errorf("Append error = %v, want AuthRequiredError", err)
	}
	if err := s.DeleteRows(context.Background(), "sheet-1", 0, 1, 2); !errors.As(err, &authErr) {
		t.Errorf("DeleteRows error = %v, want AuthRequiredError", err)
	}
}

func TestServiceDeleteRows_SendsDimensionRange(t *testing.T) {
	var req sheetsapi.BatchUpdateSpreadsheetRequest
	svc := newAPIService(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, "{}")
	})

	s := NewService(svc, nil, zerolog.Nop())
	if err := s.DeleteRows(context.Background(), "sheet-1", 111, 4, 7); err != nil {
		t.Fatalf("DeleteRows: %v", err)
	}

	if len(req.Requests) != 1 || req.Requests[0].DeleteDimension == nil {
		t.Fatalf("request = %+v", req)
	}
	rng := req.Requests[0].DeleteDimension.Range
	if rng.SheetId != 111 || rng.Dimension != "ROWS" || rng.StartIndex != 4 || rng.EndIndex != 7 {
		t.Errorf("dimension range = %+v", rng)
	}
}

func TestServiceTabID(t *testing.T) {
	svc := newAPIService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sheets": [
			{"properties": {"sheetId": 0, "title": "MASTER"}},
			{"properties": {"sheetId": 902, "title": "LIC"}}
		]}`)
	})

	s := NewService(svc, nil, zerolog.Nop())
	id, err := s.TabID(context.Background(), "sheet-1", "LIC")
	if err != nil {
		t.Fatalf("TabID: %v", err)
	}
	if id != 902 {
		t.Errorf("id = %d, want 902", id)
	}

	if _, err := s.TabID(context.Background(), "sheet-1", "NOPE"); err == nil {
		t.Error("expected error for unknown tab")
	}
}

func TestCSVReader_ParsesQuotedAndRaggedRows(t *testing.T) {
	body := strings.Join([]string{
		`"Name","Product","Remarks"`,
		`"Rao, Asha","Car","said ""call later"""`,
		`"Vikram Shah"`,
	}, "\n")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/spreadsheets/d/sheet-1/gviz/tq"
		if r.URL.Path != wantPath {
			t.Errorf("path = %q, want %q", r.URL.Path, wantPath)
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	rows, err := NewCSVReaderWithBase(srv.URL).ReadRows(context.Background(), "sheet-1", "MASTER")
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[1][0] != "Rao, Asha" {
		t.Errorf("quoted comma cell = %q", rows[1][0])
	}
	if rows[1][2] != `said "call later"` {
		t.Errorf("escaped quote cell = %q", rows[1][2])
	}
	if len(rows[2]) != 1 {
		t.Errorf("ragged row = %v", rows[2])
	}
}

func TestCSVReader_Non200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	if _, err := NewCSVReaderWithBase(srv.URL).ReadRows(context.Background(), "sheet-1", "MASTER"); err == nil {
		t.Fatal("expected status error")
	}
}
