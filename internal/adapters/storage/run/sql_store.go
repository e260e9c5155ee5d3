package run

import (
	"context"
	"database/sql"
	"fmt"

	"trainingpanel/internal/adapters/storage"
	domain "trainingpanel/internal/domain/run"
)

// columns maps editable columns onto table columns. It is the only source of
// column names interpolated into SQL.
var columns = map[string]string{
	domain.ColumnDistance: "distance_km",
	domain.ColumnTimeMin:  "time_min",
	domain.ColumnNote:     "note",
	domain.ColumnDate:     "date",
}

// SQLStore implements Store on a tenant database.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new SQLStore.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Add inserts a run and returns its id.
// PRE: run has been validated and Pace derived
// POST: Run is persisted
func (s *SQLStore) Add(ctx context.Context, r domain.Run) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO run (date, distance_km, time_min, pace_min_km, note) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		r.Date, r.DistanceKm, r.TimeMin, r.Pace, r.Note).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// Get retrieves a run by id.
// POST: Returns an error wrapping sql.ErrNoRows if absent
func (s *SQLStore) Get(ctx context.Context, id int64) (domain.Run, error) {
	var r domain.Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, distance_km, time_min, pace_min_km, note FROM run WHERE id = ?`, id).
		Scan(&r.ID, &r.Date, &r.DistanceKm, &r.TimeMin, &r.Pace, &r.Note)
	if err == sql.ErrNoRows {
		return domain.Run{}, fmt.Errorf("run not found: %w", err)
	}
	return r, err
}

// UpdateColumn writes one allow-listed column.
// PRE: value was produced by domain.ParseColumnValue for column
// POST: Returns domain.ErrColumnNotAllowed without writing for unknown columns,
// domain.ErrNotFound when no run has that id
func (s *SQLStore) UpdateColumn(ctx context.Context, id int64, column string, value any) error {
	col, ok := columns[column]
	if !ok {
		return domain.ErrColumnNotAllowed
	}
	res, err := s.db.ExecContext(ctx, `UPDATE run SET `+col+` = ? WHERE id = ?`, value, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecomputePace derives pace from the stored distance and time.
// POST: pace_min_km = time_min / distance_km, or 0 when distance is not positive
func (s *SQLStore) RecomputePace(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE run SET pace_min_km = CASE WHEN distance_km > 0 THEN time_min / distance_km ELSE 0 END WHERE id = ?`, id)
	return err
}

// Delete removes a run row. Log entries written alongside it stay.
// POST: Returns false if no run has that id
func (s *SQLStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM run WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// List returns runs newest first.
// PRE: limit > 0, offset >= 0
func (s *SQLStore) List(ctx context.Context, limit, offset int) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, distance_km, time_min, pace_min_km, note FROM run
		 ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Run
	for rows.Next() {
		var r domain.Run
		if err := rows.Scan(&r.ID, &r.Date, &r.DistanceKm, &r.TimeMin, &r.Pace, &r.Note); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of runs.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM run`).Scan(&n)
	return n, err
}
