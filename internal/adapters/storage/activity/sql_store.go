package activity

import (
	"context"
	"database/sql"
	"fmt"

	"trainingpanel/internal/adapters/storage"
	domain "trainingpanel/internal/domain/activity"
)

// SQLStore implements Store on a tenant database.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new SQLStore.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// List returns every activity ordered by category, then name.
func (s *SQLStore) List(ctx context.Context) ([]domain.Config, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, category, is_bad_habit FROM activity_config ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Config
	for rows.Next() {
		var c domain.Config
		var bad int
		if err := rows.Scan(&c.Name, &c.Category, &bad); err != nil {
			return nil, err
		}
		c.IsBadHabit = bad == 1
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get retrieves one activity by name.
// PRE: name is non-empty
// POST: Returns an error wrapping sql.ErrNoRows if absent
func (s *SQLStore) Get(ctx context.Context, name string) (domain.Config, error) {
	var c domain.Config
	var bad int
	err := s.db.QueryRowContext(ctx,
		`SELECT name, category, is_bad_habit FROM activity_config WHERE name = ?`, name).
		Scan(&c.Name, &c.Category, &bad)
	if err == sql.ErrNoRows {
		return domain.Config{}, fmt.Errorf("activity not found: %w", err)
	}
	c.IsBadHabit = bad == 1
	return c, err
}

// Insert adds a new activity. A duplicate name surfaces as a unique violation.
// PRE: config has been validated
func (s *SQLStore) Insert(ctx context.Context, c domain.Config) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_config (name, category, is_bad_habit) VALUES (?, ?, ?)`,
		c.Name, c.Category, boolToInt(c.IsBadHabit))
	return err
}

// InsertIgnore adds an activity unless the name already exists.
// POST: Returns true if a row was inserted
func (s *SQLStore) InsertIgnore(ctx context.Context, c domain.Config) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_config (name, category, is_bad_habit) VALUES (?, ?, ?)
		 ON CONFLICT (name) DO NOTHING`,
		c.Name, c.Category, boolToInt(c.IsBadHabit))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Upsert inserts an activity or overwrites its category and bad-habit flag.
// PRE: config has been validated
func (s *SQLStore) Upsert(ctx context.Context, c domain.Config) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_config (name, category, is_bad_habit) VALUES (?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET category = excluded.category, is_bad_habit = excluded.is_bad_habit`,
		c.Name, c.Category, boolToInt(c.IsBadHabit))
	return err
}

// Update rewrites category and bad-habit flag of an existing activity.
// POST: Returns false if no activity has that name
func (s *SQLStore) Update(ctx context.Context, c domain.Config) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE activity_config SET category = ?, is_bad_habit = ? WHERE name = ?`,
		c.Category, boolToInt(c.IsBadHabit), c.Name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes an activity's config row. Logs and goals are not touched.
// POST: Returns false if no activity has that name
func (s *SQLStore) Delete(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM activity_config WHERE name = ?`, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Rename changes an activity's name in the config table only.
// POST: Returns false if oldName does not exist; a taken newName is a unique violation
func (s *SQLStore) Rename(ctx context.Context, oldName, newName string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE activity_config SET name = ? WHERE name = ?`, newName, oldName)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RenameCategory moves every activity of oldCategory to newCategory.
// POST: Returns the number of activities moved
func (s *SQLStore) RenameCategory(ctx context.Context, oldCategory, newCategory string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE activity_config SET category = ? WHERE category = ?`, newCategory, oldCategory)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of configured activities.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_config`).Scan(&n)
	return n, err
}
