// Package storage is the persistence gateway: it owns the SQLite database
// file and exposes the parameterized CRUD operations the services build on.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finledger/internal/core"

	_ "modernc.org/sqlite"
)

// Repository wraps the single long-lived database handle. All queries bind
// parameters; SQL is never assembled from user input.
type Repository struct {
	db   *sql.DB
	path string
}

// Open creates the parent directory and database file if absent, enables
// foreign-key enforcement, runs migrations, and returns a ready repository.
func Open(ctx context.Context, dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		slog.InfoContext(ctx, "Database not found, creating a new one", "path", dbPath)
	}

	r := &Repository{path: dbPath}
	if err := r.open(ctx); err != nil {
		return nil, err
	}

	if err := RunMigrations(dbPath); err != nil {
		r.db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return r, nil
}

func (r *Repository) open(ctx context.Context) error {
	// _pragma applies per connection; a single connection keeps the handle
	// semantics of one sequential session.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", r.path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	r.db = db
	return nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Reopen cycles the database handle. Required after a restore overwrites the
// backing file, since the old handle may serve stale cached state.
func (r *Repository) Reopen(ctx context.Context) error {
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			return fmt.Errorf("close stale handle: %w", err)
		}
		r.db = nil
	}
	return r.open(ctx)
}

// Path returns the location of the backing database file.
func (r *Repository) Path() string {
	return r.path
}

// CreateUser inserts a new user row. Uniqueness is checked by the account
// service before calling; a racing duplicate still fails on the primary key.
func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser fetches one user row, or core.ErrUserNotFound.
func (r *Repository) GetUser(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT username, password_hash, created_at FROM users WHERE username = ?`,
		username).Scan(&u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// UserExists reports whether a username is already taken.
func (r *Repository) UserExists(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE username = ?`, username).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// DeleteUser removes a user; transactions and budgets cascade via the
// foreign keys.
func (r *Repository) DeleteUser(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrUserNotFound
	}
	slog.InfoContext(ctx, "User deleted with cascading rows", "username", username)
	return nil
}

// CreateTransaction persists a transaction and returns it with the assigned
// id and creation timestamp.
func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO transactions (username, kind, amount_cents, category, date)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id, created_at`,
		t.Username, string(t.Kind), t.Amount.Cents, t.Category, t.Date).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"username", t.Username,
		"kind", string(t.Kind),
		"amount_cents", t.Amount.Cents,
		"category", t.Category)
	return t, nil
}

// ListTransactions returns all of a user's transactions, id-ascending.
func (r *Repository) ListTransactions(ctx context.Context, username string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, kind, amount_cents, category, date, created_at
		 FROM transactions WHERE username = ? ORDER BY id ASC`,
		username)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t    core.Transaction
			kind string
		)
		if err := rows.Scan(&t.ID, &t.Username, &kind, &t.Amount.Cents, &t.Category, &t.Date, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.Kind(kind)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// SumByCategoryKind aggregates a user's transactions for the period, grouped
// by category and kind. Month and year are matched against the stored date
// string the way the report defines the period: zero-padded month and
// four-digit year components, any day.
func (r *Repository) SumByCategoryKind(ctx context.Context, username string, period core.Period) ([]core.CategorySum, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, kind, SUM(amount_cents)
		 FROM transactions
		 WHERE username = ? AND strftime('%m', date) = ? AND strftime('%Y', date) = ?
		 GROUP BY category, kind
		 ORDER BY category, kind`,
		username, fmt.Sprintf("%02d", period.Month), fmt.Sprintf("%04d", period.Year))
	if err != nil {
		return nil, fmt.Errorf("sum transactions: %w", err)
	}
	defer rows.Close()

	var out []core.CategorySum
	for rows.Next() {
		var (
			s    core.CategorySum
			kind string
		)
		if err := rows.Scan(&s.Category, &kind, &s.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		s.Kind = core.Kind(kind)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sums: %w", err)
	}
	return out, nil
}

// UpsertBudget sets the budget ceiling for a (category, month, year),
// replacing any previous amount for the same key.
func (r *Repository) UpsertBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (username, category, amount_cents, month, year)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (username, category, month, year)
		 DO UPDATE SET amount_cents = excluded.amount_cents`,
		b.Username, b.Category, b.Amount.Cents, b.Month, b.Year)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget set",
		"username", b.Username,
		"category", b.Category,
		"amount_cents", b.Amount.Cents,
		"month", b.Month,
		"year", b.Year)
	return nil
}

// ListBudgets returns the user's budget ceilings for the period as a
// category-keyed map, the shape the report computation consumes.
func (r *Repository) ListBudgets(ctx context.Context, username string, period core.Period) (map[string]core.Money, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, amount_cents FROM budgets
		 WHERE username = ? AND month = ? AND year = ?`,
		username, period.Month, period.Year)
	if err != nil {
		return nil, fmt.Errorf("select budgets: %w", err)
	}
	defer rows.Close()

	out := make(map[string]core.Money)
	for rows.Next() {
		var (
			category string
			cents    int64
		)
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out[category] = core.Money{Cents: cents}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}
