package content

import (
	"context"

	"github.com/noteflow-ai/noteflow/internal/model"
)

// Repository defines operations for Content persistence.
// Records are append-only: there is no update operation, re-processing a
// source creates a new record.
type Repository interface {
	Create(ctx context.Context, content *model.Content) error
	GetByID(ctx context.Context, id int64, ownerID string) (*model.Content, error)
	ListByOwner(ctx context.Context, ownerID string, kind model.ContentKind, limit, offset int) ([]*model.Content, error)
	Delete(ctx context.Context, id int64, ownerID string) error
}
