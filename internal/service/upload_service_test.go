package service

import (
	"context"
	"errors"
	"testing"

	cfg "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/internal/media"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 0x49, 0x48, 0x44, 0x52}

type fakeObjectStore struct {
	keys []string
	err  error
}

func (f *fakeObjectStore) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type fakeAssets struct {
	created []*models.MediaAsset
}

func (f *fakeAssets) Create(_ context.Context, ma *models.MediaAsset) error {
	f.created = append(f.created, ma)
	return nil
}

func (f *fakeAssets) GetByID(_ context.Context, _ string) (*models.MediaAsset, error) {
	return nil, nil
}

func (f *fakeAssets) CountOwned(_ context.Context, _ int64, ids []string) (int, error) {
	return len(ids), nil
}

func TestUploadStoresAndRecordsAsset(t *testing.T) {
	store := &fakeObjectStore{}
	assets := &fakeAssets{}
	s := NewUploadService(assets, store, media.DefaultMaxBytes)

	asset, err := s.Upload(context.Background(), 3, "photos/shop.png", pngHeader)
	require.NoError(t, err)

	require.Len(t, store.keys, 1)
	assert.Equal(t, asset.ID+".png", store.keys[0])
	assert.Equal(t, "https://cdn.example.com/"+asset.ID+".png", asset.DisplayURL)
	assert.Equal(t, "shop.png", asset.Name)
	assert.Equal(t, models.MediaKindImage, asset.Kind)
	assert.Equal(t, int64(3), asset.UserID)
	assert.Len(t, assets.created, 1)
}

func TestUploadRejectsInvalidFiles(t *testing.T) {
	store := &fakeObjectStore{}
	s := NewUploadService(&fakeAssets{}, store, 8)

	_, err := s.Upload(context.Background(), 3, "x.png", nil)
	assert.ErrorIs(t, err, media.ErrEmptyFile)
	_, err = s.Upload(context.Background(), 3, "x.png", pngHeader)
	assert.ErrorIs(t, err, media.ErrFileTooLarge)
	assert.Empty(t, store.keys)
}

func TestUploadStoreFailure(t *testing.T) {
	s := NewUploadService(&fakeAssets{}, &fakeObjectStore{err: errors.New("bucket missing")}, media.DefaultMaxBytes)

	_, err := s.Upload(context.Background(), 3, "x.png", pngHeader)
	assert.ErrorIs(t, err, models.ErrCollaboratorFailure)
}

func TestR2PublicURL(t *testing.T) {
	r := NewR2Service(testR2Config("https://media.example.com/"))
	assert.Equal(t, "https://media.example.com/abc.png", r.PublicURL("abc.png"))

	r = NewR2Service(testR2Config(""))
	assert.Equal(t, "https://acct.r2.cloudflarestorage.com/bucket/abc.png", r.PublicURL("abc.png"))
}

func testR2Config(publicURL string) cfg.Config {
	return cfg.Config{R2: cfg.R2{AccountID: "acct", BucketName: "bucket", PublicURL: publicURL}}
}
