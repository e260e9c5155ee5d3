package logentry

import (
	"context"
	"database/sql"
	"fmt"

	"trainingpanel/internal/adapters/storage"
	domain "trainingpanel/internal/domain/logentry"
)

// SQLStore implements Store on a tenant database.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new SQLStore.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Add appends a log entry and returns its id.
// PRE: entry has been validated
// POST: Entry is persisted with a new, strictly increasing id
func (s *SQLStore) Add(ctx context.Context, e domain.LogEntry) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO log_entry (date, activity, amount) VALUES (?, ?, ?) RETURNING id`,
		e.Date, e.Activity, e.Amount).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert log entry: %w", err)
	}
	return id, nil
}

// Last returns the entry with the highest id.
// POST: Returns an error wrapping sql.ErrNoRows when the log is empty
func (s *SQLStore) Last(ctx context.Context) (domain.LogEntry, error) {
	var e domain.LogEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, activity, amount FROM log_entry ORDER BY id DESC LIMIT 1`).
		Scan(&e.ID, &e.Date, &e.Activity, &e.Amount)
	if err == sql.ErrNoRows {
		return domain.LogEntry{}, fmt.Errorf("log is empty: %w", err)
	}
	return e, err
}

// Delete removes a log entry by id.
// PRE: id > 0
// POST: Entry with given id is removed
func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM log_entry WHERE id = ?`, id)
	return err
}

// AggregateSince sums amounts per activity for entries dated on or after since.
// PRE: since is YYYY-MM-DD
// POST: Returns one Aggregate per activity with at least one entry
func (s *SQLStore) AggregateSince(ctx context.Context, since string) ([]Aggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT activity, COALESCE(SUM(amount), 0), COUNT(*)
		 FROM log_entry WHERE date >= ? GROUP BY activity ORDER BY activity`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Aggregate
	for rows.Next() {
		var a Aggregate
		if err := rows.Scan(&a.Activity, &a.Sum, &a.Count); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListSince returns raw entries dated on or after since for the given activities.
// PRE: since is YYYY-MM-DD
// POST: Returns entries ordered by date then id; empty activities yields nil
func (s *SQLStore) ListSince(ctx context.Context, since string, activities []string) ([]domain.LogEntry, error) {
	if len(activities) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(activities)+1)
	args = append(args, since)
	for _, a := range activities {
		args = append(args, a)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, activity, amount FROM log_entry
		 WHERE date >= ? AND activity IN (`+storage.Placeholders(len(activities))+`)
		 ORDER BY date, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Activity, &e.Amount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByActivity returns how many entries reference activity.
func (s *SQLStore) CountByActivity(ctx context.Context, activity string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM log_entry WHERE activity = ?`, activity).Scan(&n)
	return n, err
}
