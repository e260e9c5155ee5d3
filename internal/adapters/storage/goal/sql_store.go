package goal

import (
	"context"

	"trainingpanel/internal/adapters/storage"
	domain "trainingpanel/internal/domain/goal"
)

// SQLStore implements Store on a tenant database.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new SQLStore.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Upsert inserts or replaces the goal for (week key, activity).
// PRE: goal has been validated
// POST: Exactly one row exists for the key, holding g.Value
func (s *SQLStore) Upsert(ctx context.Context, g domain.Goal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goal (week_key, activity, value) VALUES (?, ?, ?)
		 ON CONFLICT (week_key, activity) DO UPDATE SET value = excluded.value`,
		g.WeekKey, g.Activity, g.Value)
	return err
}

// ListByWeek returns every goal set for one week.
// PRE: weekKey is non-empty
func (s *SQLStore) ListByWeek(ctx context.Context, weekKey string) ([]domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT week_key, activity, value FROM goal WHERE week_key = ? ORDER BY activity`, weekKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Goal
	for rows.Next() {
		var g domain.Goal
		if err := rows.Scan(&g.WeekKey, &g.Activity, &g.Value); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// SumForWeeks adds up an activity's goals across the given weeks.
// PRE: activity is non-empty
// POST: Returns 0 when weekKeys is empty or no goal matches
func (s *SQLStore) SumForWeeks(ctx context.Context, activity string, weekKeys []string) (float64, error) {
	if len(weekKeys) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(weekKeys)+1)
	args = append(args, activity)
	for _, k := range weekKeys {
		args = append(args, k)
	}
	var sum float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(value), 0) FROM goal
		 WHERE activity = ? AND week_key IN (`+storage.Placeholders(len(weekKeys))+`)`, args...).Scan(&sum)
	return sum, err
}

// DeleteByActivity removes every goal row of an activity, across all weeks.
// POST: Returns the number of rows removed
func (s *SQLStore) DeleteByActivity(ctx context.Context, activity string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goal WHERE activity = ?`, activity)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
