package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaAssetCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO media_assets")).
		WithArgs("m1", int64(3), models.MediaKindImage, "shop.png", "image/png", int64(120), "https://cdn/m1.png").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	ma := &models.MediaAsset{ID: "m1", UserID: 3, Kind: models.MediaKindImage, Name: "shop.png", FileType: "image/png", FileSize: 120, DisplayURL: "https://cdn/m1.png"}
	require.NoError(t, NewMediaAssetRepository(db).Create(context.Background(), ma))
	assert.Equal(t, created, ma.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaAssetGetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM media_assets")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ma, err := NewMediaAssetRepository(db).GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, ma)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaAssetCountOwned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM media_assets WHERE user_id = $1 AND id = ANY($2)")).
		WithArgs(int64(3), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := NewMediaAssetRepository(db).CountOwned(context.Background(), 3, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
