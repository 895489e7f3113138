package syncer

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/config"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/model"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/sheets"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/store"
)

// Syncer owns both reconciliation directions for all users. The sheet
// adapter is the only spreadsheet I/O path and the store the only database
// path; both are injected so tests run against fakes.
type Syncer struct {
	db       *store.DB
	sheets   sheets.Adapter
	registry *config.Registry
	queue    *Queue
	log      zerolog.Logger
}

// New builds a Syncer and its per-user queue.
func New(db *store.DB, adapter sheets.Adapter, registry *config.Registry, log zerolog.Logger) *Syncer {
	return &Syncer{
		db:       db,
		sheets:   adapter,
		registry: registry,
		queue:    NewQueue(log),
		log:      log,
	}
}

// Queue exposes the per-user sync queue.
func (s *Syncer) Queue() *Queue {
	return s.queue
}

// EnqueueInbound schedules a sheet -> database pass on the user's queue.
// The result channel may be ignored; the pass runs regardless.
func (s *Syncer) EnqueueInbound(ctx context.Context, userID int64, spreadsheetID, tabName string, tabType model.TabType) <-chan error {
	return s.queue.Enqueue(ctx, userID, "inbound", func(ctx context.Context) error {
		_, err := s.SyncFromSheet(ctx, userID, spreadsheetID, tabName, tabType)
		return err
	})
}

// EnqueueOutbound schedules a database -> sheet pass on the user's queue.
func (s *Syncer) EnqueueOutbound(ctx context.Context, userID int64, spreadsheetID, tabName string, tabType model.TabType, verticals []model.Vertical, deletedCustomers []*model.Customer) <-chan error {
	return s.queue.Enqueue(ctx, userID, "outbound", func(ctx context.Context) error {
		_, err := s.SyncToSheet(ctx, userID, spreadsheetID, tabName, tabType, verticals, deletedCustomers)
		return err
	})
}

// Status reports the user's queue state for polling callers.
func (s *Syncer) Status(userID int64) QueueStatus {
	return s.queue.Status(userID)
}

// schemaFor resolves the registered schema for a spreadsheet's tab type.
// A spreadsheet or tab type with no registered schema is a configuration
// error and fails before any I/O.
func (s *Syncer) schemaFor(spreadsheetID string, tabType model.TabType) (map[model.Field]string, error) {
	if s.registry != nil {
		for _, client := range s.registry.Clients {
			if client.SpreadsheetID == spreadsheetID {
				tab, err := client.Tab(tabType)
				if err != nil {
					return nil, err
				}
				return tab.Schema, nil
			}
		}
	}
	return nil, &config.SchemaMissingError{SpreadsheetID: spreadsheetID, TabType: tabType}
}

// blankRow reports a row that is empty or whitespace across all columns.
// Agents leave spacer rows; they are skipped, never an error.
func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
