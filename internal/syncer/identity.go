package syncer

import (
	"strings"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/model"
)

// Keys carries the natural-key fields used to match a sheet row to a
// database record. All comparisons are lower-cased and trimmed.
type Keys struct {
	PolicyNumber       string
	RegistrationNumber string
	CustomerID         string
	GCode              string
	Name               string
	Mobile             string
	ProductType        string
}

const keySep = "\x1f"

// candidates returns the matching keys in strict cascade priority:
// policy+product, name+mobile+product, customer id, g-code, registration.
// A composite with any blank component produces no candidate: an empty
// string is not a wildcard and must never match another empty string.
func (k Keys) candidates() []string {
	out := make([]string, 0, 5)

	policy := normKey(k.PolicyNumber)
	product := normKey(k.ProductType)
	if policy != "" && product != "" {
		out = append(out, "pp:"+policy+keySep+product)
	}

	name := normKey(k.Name)
	mobile := normKey(k.Mobile)
	if name != "" && mobile != "" && product != "" {
		out = append(out, "nmp:"+name+keySep+mobile+keySep+product)
	}

	if cid := normKey(k.CustomerID); cid != "" {
		out = append(out, "cid:"+cid)
	}
	if gc := normKey(k.GCode); gc != "" {
		out = append(out, "gc:"+gc)
	}
	if reg := normKey(k.RegistrationNumber); reg != "" {
		out = append(out, "reg:"+reg)
	}

	return out
}

func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// keysFromCustomer extracts the matching keys from a database record.
func keysFromCustomer(c *model.Customer) Keys {
	return Keys{
		PolicyNumber:       c.PolicyNumber,
		RegistrationNumber: c.RegistrationNumber,
		CustomerID:         c.CustomerID,
		GCode:              c.GCode,
		Name:               c.Name,
		Mobile:             c.Mobile,
		ProductType:        c.ProductType,
	}
}

// keysFromRow extracts the matching keys from a sheet row via the schema.
func keysFromRow(sm *SchemaMap, row []string) Keys {
	return Keys{
		PolicyNumber:       sm.Cell(row, model.FieldPolicyNumber),
		RegistrationNumber: sm.Cell(row, model.FieldRegistrationNumber),
		CustomerID:         sm.Cell(row, model.FieldCustomerID),
		GCode:              sm.Cell(row, model.FieldGCode),
		Name:               sm.Cell(row, model.FieldName),
		Mobile:             sm.Cell(row, model.FieldMobile),
		ProductType:        sm.Cell(row, model.FieldProductType),
	}
}

// customerIndex resolves sheet rows to database records during an inbound
// pass. Pure lookups, no side effects beyond add().
type customerIndex struct {
	byRow map[int]*model.Customer
	byKey map[string]*model.Customer
}

func buildCustomerIndex(customers []*model.Customer) *customerIndex {
	ix := &customerIndex{
		byRow: make(map[int]*model.Customer, len(customers)),
		byKey: make(map[string]*model.Customer, len(customers)),
	}
	for _, c := range customers {
		ix.add(c)
	}
	return ix
}

// add registers a record under its row number and natural keys. First record
// wins per key: the cascade yields at most one match.
func (ix *customerIndex) add(c *model.Customer) {
	if c.SheetRowNumber > 0 {
		if _, taken := ix.byRow[c.SheetRowNumber]; !taken {
			ix.byRow[c.SheetRowNumber] = c
		}
	}
	for _, key := range keysFromCustomer(c).candidates() {
		if _, taken := ix.byKey[key]; !taken {
			ix.byKey[key] = c
		}
	}
}

// resolve finds the record for a sheet row, or nil for a new entity.
// The row-number fast path is tried first, but a hit is trusted only when
// the record's natural keys do not contradict the row's: a human inserting
// a row mid-sheet shifts every position below it, and the cascade is what
// corrects the mismatch.
func (ix *customerIndex) resolve(rowNum int, k Keys) *model.Customer {
	rowKeys := k.candidates()

	if c, ok := ix.byRow[rowNum]; ok {
		if len(rowKeys) == 0 {
			return c // keyless row, position is all we have
		}
		recKeys := keysFromCustomer(c).candidates()
		for _, rk := range rowKeys {
			for _, ck := range recKeys {
				if rk == ck {
					return c
				}
			}
		}
		// Position hit with disagreeing keys: fall through to the cascade.
	}

	for _, key := range rowKeys {
		if c, ok := ix.byKey[key]; ok {
			return c
		}
	}
	return nil
}

// sheetRow is one data row of the live sheet with its 1-based position.
type sheetRow struct {
	num   int
	cells []string
}

// rowIndex resolves database records to sheet rows during an outbound pass.
type rowIndex struct {
	byKey map[string]*sheetRow
}

func buildRowIndex(sm *SchemaMap, dataRows [][]string) *rowIndex {
	ix := &rowIndex{byKey: make(map[string]*sheetRow, len(dataRows))}
	for i, cells := range dataRows {
		row := &sheetRow{num: i + 2, cells: cells}
		for _, key := range keysFromRow(sm, cells).candidates() {
			if _, taken := ix.byKey[key]; !taken {
				ix.byKey[key] = row
			}
		}
	}
	return ix
}

// resolve finds the sheet row for a record via the cascade, or nil.
func (ix *rowIndex) resolve(k Keys) *sheetRow {
	for _, key := range k.candidates() {
		if r, ok := ix.byKey[key]; ok {
			return r
		}
	}
	return nil
}

// remove drops every key pointing at the given row, so a row freed by a
// deletion cannot be matched for update in the same pass.
func (ix *rowIndex) remove(r *sheetRow) {
	for key, row := range ix.byKey {
		if row == r {
			delete(ix.byKey, key)
		}
	}
}
