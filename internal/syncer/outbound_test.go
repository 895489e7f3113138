package syncer

import (
	"context"
	"testing"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/model"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/store"
)

func seedCustomer(t *testing.T, db *store.DB, c *model.Customer) *model.Customer {
	t.Helper()

	if c.UserID == 0 {
		c.UserID = 1
	}
	if c.Vertical == "" {
		c.Vertical = model.VerticalMotor
	}
	if c.Status == "" {
		c.Status = model.StatusDue
	}
	if err := db.Insert(context.Background(), c); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func TestSyncToSheet_NoChangesShortCircuits(t *testing.T) {
	s, fake, db := newTestSyncer(t)
	ctx := context.Background()

	fake.rows[testTab] = [][]string{
		generalHeader(),
		{"1", "Asha Rao", "9900011122", "POL-100", "Car", "motor", "due", "12000", "", "vip"},
	}

	seedCustomer(t, db, &model.Customer{
		Name: "Asha Rao", Mobile: "9900011122",
		PolicyNumber: "POL-100", ProductType: "Car",
		Vertical: model.VerticalMotor, Status: model.StatusDue,
		PremiumAmount: 12000,
	})

	res, err := s.SyncToSheet(ctx, 1, testSpreadsheet, testTab, model.TabGeneral, nil, nil)
	if err != nil {
		t.Fatalf("SyncToSheet: %v", err)
	}
	if res.Message != NoChangesMessage {
		t.Errorf("message = %q, want %q", res.Message, NoChangesMessage)
	}
	if fake.batchCalls != 0 || fake.appendCalls != 0 || fake.deleteCalls != 0 {
		t.Errorf("no-change pass made write calls: batch=%d append=%d delete=%d",
			fake.batchCalls, fake.appendCalls, fake.deleteCalls)
	}
}

func TestSyncToSheet_WritesOnlyChangedRows_PreservesUnmanagedColumn(t *testing.T) {
	s, fake, db := newTestSyncer(t)
	ctx := context.Background()

	fake.rows[testTab] = [][]string{
		generalHeader(),
		{"1", "Asha Rao", "9900011122", "POL-100", "Car", "motor", "due", "12000", "", "vip"},
		{"2", "Vikram Shah", "8800022233", "POL-200", "Bike", "motor", "due", "4000", "", "call later"},
	}

	seedCustomer(t, db, &model.Customer{
		Name: "Asha Rao", Mobile: "9900011122",
		PolicyNumber: "POL-100", ProductType: "Car",
		Status: model.StatusRenewed, PremiumAmount: 12000,
	})
	seedCustomer(t, db, &model.Customer{
		Name: "Vikram Shah", Mobile: "8800022233",
		PolicyNumber: "POL-200", ProductType: "Bike",
		Status: model.StatusDue, PremiumAmount: 4000,
	})

	res, err := s.SyncToSheet(ctx, 1, testSpreadsheet, testTab, model.TabGeneral, nil, nil)
	if err != nil {
		t.Fatalf("SyncToSheet: %v", err)
	}
	if res.Updated != 1 || res.Added != 0 || res.Deleted != 0 {
		t.Fatalf("result: %+v, want exactly one updated row", res)
	}
	if len(fake.lastUpdates) != 1 {
		t.Fatalf("expected 1 range update, got %d", len(fake.lastUpdates))
	}

	row := fake.rows[testTab][1]
	if row[6] != "renewed" {
		t.Errorf("status cell = %q, want renewed", row[6])
	}
	if row[9] != "vip" {
		t.Errorf("unmanaged Remarks column = %q, want it preserved", row[9])
	}
	if row[0] != "1" {
		t.Errorf("serial cell = %q, want 1", row[0])
	}

	// Vikram's row was identical and must be untouched.
	if got := fake.rows[testTab][2][9]; got != "call later" {
		t.Errorf("untouched row's Remarks = %q", got)
	}
}

func TestSyncToSheet_EmptyDBFieldKeepsSheetCell(t *testing.T) {
	s, fake, db := newTestSyncer(t)
	ctx := context.Background()

	fake.rows[testTab] = [][]string{
		generalHeader(),
		{"1", "Asha Rao", "9900011122", "POL-100", "Car", "motor", "due", "12000", "05/04/2025", ""},
	}

	// No renewal date in the database; the sheet's date must survive the
	// rewrite triggered by the status change.
	seedCustomer(t, db, &model.Customer{
		Name: "Asha Rao", Mobile: "9900011122",
		PolicyNumber: "POL-100", ProductType: "Car",
		Status: model.StatusRenewed, PremiumAmount: 12000,
	})

	if _, err := s.SyncToSheet(ctx, 1, testSpreadsheet, testTab, model.TabGeneral, nil, nil); err != nil {
		t.Fatalf("SyncToSheet: %v", err)
	}

	if got := fake.rows[testTab][1][8]; got != "05/04/2025" {
		t.Errorf("renewal date cell = %q, want sheet value preserved", got)
	}
}

func TestSyncToSheet_AppendsWithNextSerial(t *testing.T) {
	s, fake, db := newTestSyncer(t)
	ctx := context.Background()

	fake.rows[testTab] = [][]string{
		generalHeader(),
		{"7", "Asha Rao", "9900011122", "POL-100", "Car", "motor", "due", "", "", ""},
	}

	seedCustomer(t, db, &model.Customer{
		Name: "Asha Rao", Mobile: "9900011122",
		PolicyNumber: "POL-100", ProductType: "Car",
		Status: model.StatusDue,
	})
	seedCustomer(t, db, &model.Customer{
		Name: "Meena Iyer", Mobile: "7700033344",
		PolicyNumber: "POL-300", ProductType: "Health Plan",
		Vertical: model.VerticalHealth, Status: model.StatusInProcess,
	})

	res, err := s.SyncToSheet(ctx, 1, testSpreadsheet, testTab, model.TabGeneral, nil, nil)
	if err != nil {
		t.Fatalf("SyncToSheet: %v", err)
	}
	if res.Added != 1 || res.Updated != 0 {
		t.Fatalf("result: %+v, want one append", res)
	}

	appended := fake.rows[testTab][2]
	if appended[0] != "8" {
		t.Errorf("serial = %q, want 8 (max existing was 7)", appended[0])
	}
	if appended[1] != "Meena Iyer" {
		t.Errorf("name = %q", appended[1])
	}
	if appended[6] != "IN PROCESS" {
		t.Errorf("status cell = %q, want the human spelling IN PROCESS", appended[6])
	}
	if appended[5] != "health" {
		t.Errorf("vertical cell = %q, want health", appended[5])
	}
}

func TestSyncToSheet_TrailingDeleteAndMiddleClear(t *testing.T) {
	s, fake, db := newTestSyncer(t)
	ctx := context.Background()

	fake.rows[testTab] = [][]string{
		generalHeader(),
		{"1", "Asha Rao", "9900011122", "POL-100", "Car", "motor", "due", "", "", ""},
		{"2", "Vikram Shah", "8800022233", "POL-200", "Bike", "motor", "due", "", "", "keep me?"},
		{"3", "Meena Iyer", "7700033344", "POL-300", "Health Plan", "health", "due", "", "", ""},
		{"4", "Ravi Kumar", "6600044455", "POL-400", "Shop", "non-motor", "due", "", "", ""},
	}

	// Asha and Meena stay in the database, matching their rows exactly.
	seedCustomer(t, db, &model.Customer{
		Name: "Asha Rao", Mobile: "9900011122",
		PolicyNumber: "POL-100", ProductType: "Car",
		Status: model.StatusDue,
	})
	seedCustomer(t, db, &model.Customer{
		Name: "Meena Iyer", Mobile: "7700033344",
		PolicyNumber: "POL-300", ProductType: "Health Plan",
		Vertical: model.VerticalHealth, Status: model.StatusDue,
	})

	// Vikram sits between survivors so his row is cleared in place; Ravi is
	// the last data row, so his dimension is removed.
	deleted := []*model.Customer{
		{UserID: 1, Name: "Vikram Shah", Mobile: "8800022233", PolicyNumber: "POL-200", ProductType: "Bike"},
		{UserID: 1, Name: "Ravi Kumar", Mobile: "6600044455", PolicyNumber: "POL-400", ProductType: "Shop"},
	}

	res, err := s.SyncToSheet(ctx, 1, testSpreadsheet, testTab, model.TabGeneral, nil, deleted)
	if err != nil {
		t.Fatalf("SyncToSheet: %v", err)
	}
	if res.Deleted != 2 {
		t.Fatalf("deleted = %d, want 2", res.Deleted)
	}
	if res.Updated != 0 || res.Added != 0 {
		t.Errorf("result: %+v, want deletions only", res)
	}
	if fake.deleteCalls != 1 {
		t.Errorf("dimension delete calls = %d, want 1 (trailing row only)", fake.deleteCalls)
	}

	rows := fake.rows[testTab]
	if len(rows) != 4 {
		t.Fatalf("sheet has %d rows, want 4 (header + Asha + cleared Vikram + Meena)", len(rows))
	}

	// Survivors keep their positions.
	if rows[1][1] != "Asha Rao" {
		t.Errorf("row 2 = %v, want Asha Rao in place", rows[1])
	}
	if rows[3][1] != "Meena Iyer" {
		t.Errorf("row 4 = %v, want Meena Iyer in place", rows[3])
	}

	// Vikram's middle row is cleared in place, serial preserved.
	cleared := rows[2]
	if cleared[0] != "2" {
		t.Errorf("cleared row serial = %q, want 2", cleared[0])
	}
	for i, cell := range cleared {
		if i == 0 {
			continue
		}
		if cell != "" {
			t.Errorf("cleared row col %d = %q, want empty", i, cell)
		}
	}
}

func TestSyncToSheet_DeletionsAppliedBeforeUpserts(t *testing.T) {
	s, fake, db := newTestSyncer(t)
	ctx := context.Background()

	fake.rows[testTab] = [][]string{
		generalHeader(),
		{"1", "Asha Rao", "9900011122", "POL-100", "Car", "motor", "due", "", "", ""},
	}

	// The only record shares every natural key with the deleted customer;
	// after the deletion frees row 2, the record must append, not update
	// the freed row.
	seedCustomer(t, db, &model.Customer{
		Name: "Asha Rao", Mobile: "9900011122",
		PolicyNumber: "POL-100", ProductType: "Car",
		Status: model.StatusRenewed,
	})
	deleted := []*model.Customer{
		{UserID: 1, Name: "Asha Rao", Mobile: "9900011122", PolicyNumber: "POL-100", ProductType: "Car"},
	}

	res, err := s.SyncToSheet(ctx, 1, testSpreadsheet, testTab, model.TabGeneral, nil, deleted)
	if err != nil {
		t.Fatalf("SyncToSheet: %v", err)
	}
	if res.Deleted != 1 {
		t.Errorf("deleted = %d, want 1", res.Deleted)
	}
	if res.Added != 1 || res.Updated != 0 {
		t.Errorf("result: %+v; freed row must not be rematched for update", res)
	}
}
