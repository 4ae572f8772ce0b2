package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"household/internal/core"
	"household/internal/ports"
)

var _ ports.Store = (*SQLiteRepository)(nil)

// SQLiteRepository is the durable Store. Records keep insertion order
// through the seq column.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serialises writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func insertErr(kind, id string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s %s", core.ErrDuplicateID, kind, id)
	}
	return fmt.Errorf("insert %s: %w", kind, err)
}

func parseStoredDate(s string) (core.Date, error) {
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, fmt.Errorf("stored date %q: %w", s, err)
	}
	return d, nil
}

const billColumns = `id, name, amount_cents, due_date, recurring, category, paid`

func scanBill(s rowScanner) (core.Bill, error) {
	var (
		b        core.Bill
		due      string
		category string
	)
	if err := s.Scan(&b.ID, &b.Name, &b.Amount.Cents, &due, &b.Recurring, &category, &b.Paid); err != nil {
		return core.Bill{}, err
	}
	d, err := parseStoredDate(due)
	if err != nil {
		return core.Bill{}, err
	}
	b.DueDate = d
	b.Category = core.BillCategory(category)
	return b, nil
}

func (r *SQLiteRepository) ListBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+billColumns+` FROM bills ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	bills := []core.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *SQLiteRepository) GetBill(ctx context.Context, id string) (core.Bill, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE id = ?`, id)
	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, fmt.Errorf("%w: bill %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) AddBill(ctx context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (`+billColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Amount.Cents, b.DueDate.String(), b.Recurring, string(b.Category), b.Paid,
	)
	if err != nil {
		return insertErr("bill", b.ID, err)
	}

	slog.InfoContext(ctx, "Bill saved to SQLite",
		"id", b.ID,
		"name", b.Name,
		"amount_cents", b.Amount.Cents,
		"due_date", b.DueDate.String())

	return nil
}

func (r *SQLiteRepository) SetBillPaid(ctx context.Context, id string, paid bool) (core.Bill, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET paid = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, paid, id)
	if err != nil {
		return core.Bill{}, fmt.Errorf("update bill: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.Bill{}, fmt.Errorf("%w: bill %s", core.ErrNotFound, id)
	}
	return r.GetBill(ctx, id)
}

func (r *SQLiteRepository) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, cost_cents, billing_cycle, next_billing_date FROM subscriptions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []core.Subscription{}
	for rows.Next() {
		var (
			s     core.Subscription
			cycle string
			next  string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Cost.Cents, &cycle, &next); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		if s.NextBillingDate, err = parseStoredDate(next); err != nil {
			return nil, err
		}
		s.Cycle = core.BillingCycle(cycle)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *SQLiteRepository) AddSubscription(ctx context.Context, s core.Subscription) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, name, cost_cents, billing_cycle, next_billing_date) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Cost.Cents, string(s.Cycle), s.NextBillingDate.String(),
	)
	if err != nil {
		return insertErr("subscription", s.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ListVehicles(ctx context.Context) ([]core.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, model, year, license_plate FROM vehicles ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []core.Vehicle{}
	for rows.Next() {
		var v core.Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.Model, &v.Year, &v.LicensePlate); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *SQLiteRepository) AddVehicle(ctx context.Context, v core.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicles (id, name, model, year, license_plate) VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Model, v.Year, v.LicensePlate,
	)
	if err != nil {
		return insertErr("vehicle", v.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) vehicleExists(ctx context.Context, id string) error {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return fmt.Errorf("look up vehicle: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: vehicle %s", core.ErrNotFound, id)
	}
	return nil
}

func (r *SQLiteRepository) ListServiceRecords(ctx context.Context, vehicleID string) ([]core.ServiceRecord, error) {
	if err := r.vehicleExists(ctx, vehicleID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, vehicle_id, service_date, description, cost_cents, location
		 FROM service_records WHERE vehicle_id = ? ORDER BY seq`, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list service records: %w", err)
	}
	defer rows.Close()

	records := []core.ServiceRecord{}
	for rows.Next() {
		var (
			rec  core.ServiceRecord
			date string
		)
		if err := rows.Scan(&rec.ID, &rec.VehicleID, &date, &rec.Description, &rec.Cost.Cents, &rec.Location); err != nil {
			return nil, fmt.Errorf("scan service record: %w", err)
		}
		if rec.Date, err = parseStoredDate(date); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SQLiteRepository) AddServiceRecord(ctx context.Context, rec core.ServiceRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := r.vehicleExists(ctx, rec.VehicleID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO service_records (id, vehicle_id, service_date, description, cost_cents, location) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.VehicleID, rec.Date.String(), rec.Description, rec.Cost.Cents, rec.Location,
	)
	if err != nil {
		return insertErr("service record", rec.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ListPasswords(ctx context.Context) ([]core.PasswordEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, username, category, last_updated, strength FROM password_entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list password entries: %w", err)
	}
	defer rows.Close()

	entries := []core.PasswordEntry{}
	for rows.Next() {
		var (
			p                  core.PasswordEntry
			category, strength string
			updated            string
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Username, &category, &updated, &strength); err != nil {
			return nil, fmt.Errorf("scan password entry: %w", err)
		}
		if p.LastUpdated, err = parseStoredDate(updated); err != nil {
			return nil, err
		}
		p.Category = core.PasswordCategory(category)
		p.Strength = core.PasswordStrength(strength)
		entries = append(entries, p)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) AddPassword(ctx context.Context, p core.PasswordEntry) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_entries (id, title, username, category, last_updated, strength) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Username, string(p.Category), p.LastUpdated.String(), string(p.Strength),
	)
	if err != nil {
		return insertErr("password entry", p.ID, err)
	}
	return nil
}

const taskColumns = `id, title, completed, due_label`

func scanTask(s rowScanner) (core.Task, error) {
	var t core.Task
	err := s.Scan(&t.ID, &t.Title, &t.Completed, &t.DueLabel)
	return t, err
}

func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]core.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []core.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (core.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Task{}, fmt.Errorf("%w: task %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) AddTask(ctx context.Context, t core.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?)`,
		t.ID, t.Title, t.Completed, t.DueLabel,
	)
	if err != nil {
		return insertErr("task", t.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) SetTaskCompleted(ctx context.Context, id string, completed bool) (core.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET completed = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, completed, id)
	if err != nil {
		return core.Task{}, fmt.Errorf("update task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.Task{}, fmt.Errorf("%w: task %s", core.ErrNotFound, id)
	}
	return r.GetTask(ctx, id)
}
