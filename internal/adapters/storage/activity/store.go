package activity

import (
	"context"

	domain "trainingpanel/internal/domain/activity"
)

// Store persists ActivityConfig rows keyed by name.
type Store interface {
	List(ctx context.Context) ([]domain.Config, error)
	Get(ctx context.Context, name string) (domain.Config, error)
	Insert(ctx context.Context, c domain.Config) error
	InsertIgnore(ctx context.Context, c domain.Config) (bool, error)
	Upsert(ctx context.Context, c domain.Config) error
	Update(ctx context.Context, c domain.Config) (bool, error)
	Delete(ctx context.Context, name string) (bool, error)
	Rename(ctx context.Context, oldName, newName string) (bool, error)
	RenameCategory(ctx context.Context, oldCategory, newCategory string) (int64, error)
	Count(ctx context.Context) (int, error)
}
