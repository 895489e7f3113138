// Package store is the local relational cache: a SQLite customers table
// partitioned by user_id, plus the sync audit log.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/model"
)

// ErrNotFound is returned when a customer id does not exist.
var ErrNotFound = errors.New("store: customer not found")

// DB wraps the SQLite connection.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return d, nil
}

// OpenMemory opens an in-memory database, used by tests. The pool is pinned
// to one connection: every sqlite connection would otherwise get its own
// empty memory database.
func OpenMemory() (*DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return d, nil
}

// Close closes the connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func (d *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		sheet_row_number INTEGER NOT NULL DEFAULT 0,
		name TEXT NOT NULL DEFAULT '',
		mobile TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		policy_number TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		registration_number TEXT NOT NULL DEFAULT '',
		product_type TEXT NOT NULL DEFAULT '',
		vertical TEXT NOT NULL DEFAULT 'non-motor',
		status TEXT NOT NULL DEFAULT 'due',
		premium_amount REAL NOT NULL DEFAULT 0,
		premium_mode TEXT NOT NULL DEFAULT '',
		last_year_premium REAL NOT NULL DEFAULT 0,
		renewal_date TEXT NOT NULL DEFAULT '',
		od_expiry_date TEXT NOT NULL DEFAULT '',
		tp_expiry_date TEXT NOT NULL DEFAULT '',
		payment_date TEXT NOT NULL DEFAULT '',
		policy_start_date TEXT NOT NULL DEFAULT '',
		g_code TEXT NOT NULL DEFAULT '',
		customer_id TEXT NOT NULL DEFAULT '',
		agent_code TEXT NOT NULL DEFAULT '',
		pan TEXT NOT NULL DEFAULT '',
		aadhar TEXT NOT NULL DEFAULT '',
		gst TEXT NOT NULL DEFAULT '',
		bank_name TEXT NOT NULL DEFAULT '',
		cheque_number TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_customers_user_id ON customers(user_id);
	CREATE INDEX IF NOT EXISTS idx_customers_user_vertical ON customers(user_id, vertical);
	CREATE INDEX IF NOT EXISTS idx_customers_sheet_row ON customers(user_id, sheet_row_number);

	CREATE TABLE IF NOT EXISTS sync_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		direction TEXT NOT NULL,
		action TEXT NOT NULL,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		details TEXT NOT NULL DEFAULT '{}'
	);

	CREATE INDEX IF NOT EXISTS idx_sync_log_user_id ON sync_log(user_id);
	CREATE INDEX IF NOT EXISTS idx_sync_log_timestamp ON sync_log(timestamp);
	`

	_, err := d.db.Exec(schema)
	return err
}

// customerColumns is the scan/insert order, id excluded.
var customerColumns = []string{
	"user_id", "sheet_row_number",
	"name", "mobile", "email",
	"policy_number", "company", "registration_number", "product_type",
	"vertical", "status",
	"premium_amount", "premium_mode", "last_year_premium",
	"renewal_date", "od_expiry_date", "tp_expiry_date", "payment_date", "policy_start_date",
	"g_code", "customer_id", "agent_code", "pan", "aadhar", "gst", "bank_name", "cheque_number",
	"created_at", "updated_at",
}

func customerValues(c *model.Customer) []any {
	return []any{
		c.UserID, c.SheetRowNumber,
		c.Name, c.Mobile, c.Email,
		c.PolicyNumber, c.Company, c.RegistrationNumber, c.ProductType,
		string(c.Vertical), string(c.Status),
		c.PremiumAmount, c.PremiumMode, c.LastYearPremium,
		c.RenewalDate, c.ODExpiryDate, c.TPExpiryDate, c.PaymentDate, c.PolicyStartDate,
		c.GCode, c.CustomerID, c.AgentCode, c.PAN, c.Aadhar, c.GST, c.BankName, c.ChequeNumber,
		c.CreatedAt, c.UpdatedAt,
	}
}

func scanCustomer(row interface{ Scan(...any) error }) (*model.Customer, error) {
	var c model.Customer
	var vertical, status string
	err := row.Scan(
		&c.ID,
		&c.UserID, &c.SheetRowNumber,
		&c.Name, &c.Mobile, &c.Email,
		&c.PolicyNumber, &c.Company, &c.RegistrationNumber, &c.ProductType,
		&vertical, &status,
		&c.PremiumAmount, &c.PremiumMode, &c.LastYearPremium,
		&c.RenewalDate, &c.ODExpiryDate, &c.TPExpiryDate, &c.PaymentDate, &c.PolicyStartDate,
		&c.GCode, &c.CustomerID, &c.AgentCode, &c.PAN, &c.Aadhar, &c.GST, &c.BankName, &c.ChequeNumber,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Vertical = model.Vertical(vertical)
	c.Status = model.Status(status)
	return &c, nil
}

// Insert stores a new customer and fills in its id.
func (d *DB) Insert(ctx context.Context, c *model.Customer) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	query, args, err := sq.Insert("customers").
		Columns(customerColumns...).
		Values(customerValues(c)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	c.ID = id
	return nil
}

// Update rewrites every mutable column of an existing customer. The primary
// key never changes, so claims and message logs keyed on it stay attached.
func (d *DB) Update(ctx context.Context, c *model.Customer) error {
	c.UpdatedAt = time.Now()

	b := sq.Update("customers").Where(sq.Eq{"id": c.ID, "user_id": c.UserID})
	vals := customerValues(c)
	for i, col := range customerColumns {
		if col == "created_at" {
			continue
		}
		b = b.Set(col, vals[i])
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID returns one customer, scoped to the user.
func (d *DB) GetByID(ctx context.Context, userID, id int64) (*model.Customer, error) {
	query, args, err := sq.Select(append([]string{"id"}, customerColumns...)...).
		From("customers").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	c, err := scanCustomer(d.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query customer %d: %w", id, err)
	}
	return c, nil
}

// ListByUser returns all customers of a user, optionally restricted to
// verticals. Every query carries the user_id partition filter.
func (d *DB) ListByUser(ctx context.Context, userID int64, verticals []model.Vertical) ([]*model.Customer, error) {
	b := sq.Select(append([]string{"id"}, customerColumns...)...).
		From("customers").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id")

	if len(verticals) > 0 {
		vs := make([]string, len(verticals))
		for i, v := range verticals {
			vs[i] = string(v)
		}
		b = b.Where(sq.Eq{"vertical": vs})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var out []*model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes one customer, scoped to the user.
func (d *DB) Delete(ctx context.Context, userID, id int64) error {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM customers WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBatch removes the given customer ids for a user and returns how many
// rows went away.
func (d *DB) DeleteBatch(ctx context.Context, userID int64, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sq.Delete("customers").
		Where(sq.Eq{"user_id": userID, "id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete customers: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
