package content

import (
	"context"
	"errors"

	apperrors "github.com/noteflow-ai/noteflow/internal/errors"
	"github.com/noteflow-ai/noteflow/internal/model"
	"github.com/noteflow-ai/noteflow/internal/repository/common"
	"github.com/jackc/pgx/v5"
)

// contentRepository implements Repository using PostgreSQL
type contentRepository struct {
	pool common.Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool common.Pool) Repository {
	return &contentRepository{
		pool: pool,
	}
}

// Create creates a new content record and populates its ID and CreatedAt
func (r *contentRepository) Create(ctx context.Context, content *model.Content) error {
	sql := `INSERT INTO contents
		(owner_id, kind, title, source_name, transcript, summary, action_items)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, sql,
		content.OwnerID,
		content.Kind,
		content.Title,
		content.SourceName,
		content.Transcript,
		content.Summary,
		content.ActionItems,
	).Scan(&content.ID, &content.CreatedAt)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to create content record")
	}
	return nil
}

// GetByID retrieves a content record by ID, scoped to its owner
func (r *contentRepository) GetByID(ctx context.Context, id int64, ownerID string) (*model.Content, error) {
	sql := `SELECT id, owner_id, kind, title, source_name, transcript, summary, action_items, created_at
		FROM contents WHERE id = $1 AND owner_id = $2`
	row := r.pool.QueryRow(ctx, sql, id, ownerID)

	var content model.Content
	err := row.Scan(
		&content.ID,
		&content.OwnerID,
		&content.Kind,
		&content.Title,
		&content.SourceName,
		&content.Transcript,
		&content.Summary,
		&content.ActionItems,
		&content.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "content not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get content")
	}

	return &content, nil
}

// ListByOwner retrieves content records for an owner with optional kind filter and pagination
func (r *contentRepository) ListByOwner(ctx context.Context, ownerID string, kind model.ContentKind, limit, offset int) ([]*model.Content, error) {
	sql := `SELECT id, owner_id, kind, title, source_name, transcript, summary, action_items, created_at
		FROM contents WHERE owner_id = $1`
	args := []any{ownerID}

	if kind != "" {
		sql += " AND kind = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4"
		args = append(args, kind, limit, offset)
	} else {
		sql += " ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list contents")
	}
	defer rows.Close()

	contents := []*model.Content{}
	for rows.Next() {
		var content model.Content
		err := rows.Scan(
			&content.ID,
			&content.OwnerID,
			&content.Kind,
			&content.Title,
			&content.SourceName,
			&content.Transcript,
			&content.Summary,
			&content.ActionItems,
			&content.CreatedAt,
		)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan content row")
		}
		contents = append(contents, &content)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate content rows")
	}

	return contents, nil
}

// Delete removes a content record, scoped to its owner
func (r *contentRepository) Delete(ctx context.Context, id int64, ownerID string) error {
	sql := "DELETE FROM contents WHERE id = $1 AND owner_id = $2"
	tag, err := r.pool.Exec(ctx, sql, id, ownerID)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete content")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "content not found")
	}
	return nil
}
