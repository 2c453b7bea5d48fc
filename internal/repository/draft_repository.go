package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
)

type DraftRepository interface {
	Create(ctx context.Context, draft *models.Draft) error
	// Update replaces the state of a draft owned by userID and returns the new
	// version. found is false when no such draft exists.
	Update(ctx context.Context, userID int64, id string, state json.RawMessage) (version int, found bool, err error)
	GetByID(ctx context.Context, userID int64, id string) (*models.Draft, error)
	Remove(ctx context.Context, userID int64, id string) error
	RemoveStale(ctx context.Context, before time.Time) (int64, error)
}

type draftRepository struct {
	db *sql.DB
}

func NewDraftRepository(db *sql.DB) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Create(ctx context.Context, d *models.Draft) error {
	query := `
		INSERT INTO bulk_drafts (id, user_id, state, version)
		VALUES ($1, $2, $3, 1)
		RETURNING version, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, d.ID, d.UserID, []byte(d.State)).Scan(&d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *draftRepository) Update(ctx context.Context, userID int64, id string, state json.RawMessage) (int, bool, error) {
	query := `
		UPDATE bulk_drafts
		SET state = $1,
			version = version + 1,
			updated_at = $2
		WHERE id = $3 AND user_id = $4
		RETURNING version
	`
	var version int
	err := r.db.QueryRowContext(ctx, query, []byte(state), time.Now(), id, userID).Scan(&version)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		slog.Info(err.Error())
		return 0, false, err
	}
	return version, true, nil
}

func (r *draftRepository) GetByID(ctx context.Context, userID int64, id string) (*models.Draft, error) {
	query := `
		SELECT id, user_id, state, version, created_at, updated_at
		FROM bulk_drafts
		WHERE id = $1 AND user_id = $2
	`
	var d models.Draft
	var state []byte
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&d.ID, &d.UserID, &state, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	d.State = state
	return &d, nil
}

func (r *draftRepository) Remove(ctx context.Context, userID int64, id string) error {
	query := `DELETE FROM bulk_drafts WHERE id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *draftRepository) RemoveStale(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM bulk_drafts WHERE updated_at < $1`
	res, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return res.RowsAffected()
}
