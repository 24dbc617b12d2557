package content

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/noteflow-ai/noteflow/internal/errors"
	"github.com/noteflow-ai/noteflow/internal/model"
)

func strPtr(s string) *string { return &s }

func TestContentRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		content *model.Content
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr bool
	}{
		{
			name: "successful creation",
			content: &model.Content{
				OwnerID:    "user-1",
				Kind:       model.KindVideoURL,
				Title:      "YouTube Video (abc12345678)",
				SourceName: "https://youtu.be/abc12345678",
				Transcript: "hello world",
				Summary:    strPtr("1. Summary..."),
			},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("INSERT INTO contents").
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), time.Now()))
			},
			wantErr: false,
		},
		{
			name: "database error",
			content: &model.Content{
				OwnerID:    "user-1",
				Kind:       model.KindAudio,
				SourceName: "1700000000_standup.mp3",
				Transcript: "hello",
			},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("INSERT INTO contents").
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(assert.AnError)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setup(mock)

			repo := NewRepository(mock)
			err = repo.Create(context.Background(), tt.content)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				// Verify that ID was populated by database
				assert.Equal(t, int64(42), tt.content.ID)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContentRepository_GetByID(t *testing.T) {
	columns := []string{"id", "owner_id", "kind", "title", "source_name", "transcript", "summary", "action_items", "created_at"}

	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT (.+) FROM contents WHERE id").
			WithArgs(int64(7), "user-1").
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(7), "user-1", model.KindAudio, "Standup", "1700000000_standup.mp3",
					"transcript text", strPtr("notes"), nil, time.Now()))

		repo := NewRepository(mock)
		got, err := repo.GetByID(context.Background(), 7, "user-1")

		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, "user-1", got.OwnerID)
		assert.Equal(t, model.KindAudio, got.Kind)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found maps to NOT_FOUND", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT (.+) FROM contents WHERE id").
			WithArgs(int64(99), "user-1").
			WillReturnError(pgx.ErrNoRows)

		repo := NewRepository(mock)
		_, err = repo.GetByID(context.Background(), 99, "user-1")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.Code(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContentRepository_ListByOwner(t *testing.T) {
	columns := []string{"id", "owner_id", "kind", "title", "source_name", "transcript", "summary", "action_items", "created_at"}

	t.Run("without kind filter", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT (.+) FROM contents WHERE owner_id").
			WithArgs("user-1", 10, 0).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(2), "user-1", model.KindBook, "Report", "1700000001_report.pdf", "text", nil, nil, time.Now()).
				AddRow(int64(1), "user-1", model.KindAudio, "Standup", "1700000000_standup.mp3", "text", nil, nil, time.Now()))

		repo := NewRepository(mock)
		got, err := repo.ListByOwner(context.Background(), "user-1", "", 10, 0)

		require.NoError(t, err)
		assert.Len(t, got, 2)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("with kind filter", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT (.+) FROM contents WHERE owner_id").
			WithArgs("user-1", model.KindBook, 10, 0).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(2), "user-1", model.KindBook, "Report", "1700000001_report.pdf", "text", nil, nil, time.Now()))

		repo := NewRepository(mock)
		got, err := repo.ListByOwner(context.Background(), "user-1", model.KindBook, 10, 0)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, model.KindBook, got[0].Kind)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT (.+) FROM contents WHERE owner_id").
			WithArgs("user-2", 10, 0).
			WillReturnRows(pgxmock.NewRows(columns))

		repo := NewRepository(mock)
		got, err := repo.ListByOwner(context.Background(), "user-2", "", 10, 0)

		require.NoError(t, err)
		assert.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContentRepository_Delete(t *testing.T) {
	t.Run("deletes existing record", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM contents").
			WithArgs(int64(7), "user-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewRepository(mock)
		require.NoError(t, repo.Delete(context.Background(), 7, "user-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing record maps to NOT_FOUND", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM contents").
			WithArgs(int64(99), "user-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewRepository(mock)
		err = repo.Delete(context.Background(), 99, "user-1")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.Code(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
