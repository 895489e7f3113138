package syncer

import (
	"context"
	"fmt"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/model"
)

// maxDeletesPerSync caps deletion-by-diff on one inbound pass. A transient
// short read of the sheet must never be misread as "delete everything"; no
// uncapped delete path exists.
const maxDeletesPerSync = 50

// InboundResult summarizes one sheet -> database pass.
type InboundResult struct {
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
	Skipped  int `json:"skipped"`
}

// SyncFromSheet reconciles one tab into the database: the sheet is the
// source of truth for this pass. Records matched in place keep their primary
// key; records absent from the sheet are deleted up to maxDeletesPerSync.
func (s *Syncer) SyncFromSheet(ctx context.Context, userID int64, spreadsheetID, tabName string, tabType model.TabType) (*InboundResult, error) {
	schema, err := s.schemaFor(spreadsheetID, tabType)
	if err != nil {
		return nil, err
	}

	rows, err := s.sheets.ReadRows(ctx, spreadsheetID, tabName)
	if err != nil {
		s.logFailure(ctx, userID, "inbound", err)
		return nil, err
	}
	if len(rows) == 0 {
		err := fmt.Errorf("tab %q has no header row", tabName)
		s.logFailure(ctx, userID, "inbound", err)
		return nil, err
	}

	sm := NewSchemaMap(schema, rows[0])

	existing, err := s.db.ListByUser(ctx, userID, model.VerticalsForTab(tabType))
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	ix := buildCustomerIndex(existing)

	var res InboundResult
	matched := make(map[int64]bool, len(existing))

	for i, cells := range rows[1:] {
		rowNum := i + 2 // 1-based, header is row 1

		if blankRow(cells) {
			res.Skipped++
			continue
		}

		found := ix.resolve(rowNum, keysFromRow(sm, cells))
		if found != nil {
			changed, err := s.applyRow(ctx, found, sm, cells, rowNum, tabType)
			if err != nil {
				return nil, err
			}
			if changed {
				res.Updated++
			}
			matched[found.ID] = true
			continue
		}

		c := &model.Customer{UserID: userID}
		if tabType == model.TabLife {
			c.Vertical = model.VerticalLife
		} else {
			c.Vertical = model.VerticalNonMotor
		}
		c.Status = model.StatusDue
		setRowFields(c, sm, cells, tabType)
		c.SheetRowNumber = rowNum

		if err := s.db.Insert(ctx, c); err != nil {
			return nil, fmt.Errorf("insert row %d: %w", rowNum, err)
		}
		// Register the new record so a later duplicate row updates it
		// instead of inserting a second copy.
		ix.add(c)
		matched[c.ID] = true
		res.Imported++
	}

	deleted, err := s.deleteUnmatched(ctx, userID, existing, matched)
	if err != nil {
		return nil, err
	}
	res.Deleted = deleted

	s.log.Info().
		Int64("user", userID).
		Str("tab", tabName).
		Int("imported", res.Imported).
		Int("updated", res.Updated).
		Int("deleted", res.Deleted).
		Int("skipped", res.Skipped).
		Msg("inbound sync complete")
	_ = s.db.AddSyncLog(ctx, userID, "inbound", "completed", map[string]any{
		"tab":      tabName,
		"imported": res.Imported,
		"updated":  res.Updated,
		"deleted":  res.Deleted,
		"skipped":  res.Skipped,
	})

	return &res, nil
}

// applyRow overwrites a matched record with the sheet row and persists it
// only when something actually changed, so a repeat pass reports updated=0.
func (s *Syncer) applyRow(ctx context.Context, c *model.Customer, sm *SchemaMap, cells []string, rowNum int, tabType model.TabType) (bool, error) {
	next := *c
	setRowFields(&next, sm, cells, tabType)
	next.SheetRowNumber = rowNum

	if next == *c {
		return false, nil
	}

	*c = next
	if err := s.db.Update(ctx, c); err != nil {
		return false, fmt.Errorf("update row %d (customer %d): %w", rowNum, c.ID, err)
	}
	return true, nil
}

// setRowFields copies every schema-mapped cell onto the record. On the life
// tab the vertical is fixed regardless of any mapped column.
func setRowFields(c *model.Customer, sm *SchemaMap, cells []string, tabType model.TabType) {
	for _, f := range model.Fields {
		if f == model.FieldSerial {
			continue
		}
		if _, ok := sm.Column(f); !ok {
			continue
		}
		c.SetField(f, sm.Cell(cells, f))
	}
	if tabType == model.TabLife {
		c.Vertical = model.VerticalLife
	}
}

// deleteUnmatched removes records the pass never saw, up to the safety cap.
// Exceeding the cap truncates the batch and records a warning: partial
// progress is safer than a rollback here, the pass is idempotent.
func (s *Syncer) deleteUnmatched(ctx context.Context, userID int64, existing []*model.Customer, matched map[int64]bool) (int, error) {
	var ids []int64
	for _, c := range existing {
		if !matched[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if len(ids) > maxDeletesPerSync {
		s.log.Warn().
			Int64("user", userID).
			Int("unmatched", len(ids)).
			Int("cap", maxDeletesPerSync).
			Msg("deletion cap exceeded, truncating batch; manual review required")
		_ = s.db.AddSyncLog(ctx, userID, "inbound", "deletion_capped", map[string]any{
			"unmatched": len(ids),
			"cap":       maxDeletesPerSync,
		})
		ids = ids[:maxDeletesPerSync]
	}

	n, err := s.db.DeleteBatch(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete unmatched customers: %w", err)
	}
	return n, nil
}

func (s *Syncer) logFailure(ctx context.Context, userID int64, direction string, err error) {
	s.log.Error().Int64("user", userID).Str("direction", direction).Err(err).Msg("sync failed")
	_ = s.db.AddSyncLog(ctx, userID, direction, "failed", map[string]any{"error": err.Error()})
}
