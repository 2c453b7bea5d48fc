package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/maheshrc27/postflow/internal/media"
	"github.com/maheshrc27/postflow/internal/metrics"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type UploadService interface {
	Upload(ctx context.Context, userID int64, fileName string, data []byte) (*models.MediaAsset, error)
}

type uploadService struct {
	ma       repository.MediaAssetRepository
	store    ObjectStore
	maxBytes int64
}

func NewUploadService(ma repository.MediaAssetRepository, store ObjectStore, maxBytes int64) UploadService {
	return &uploadService{ma: ma, store: store, maxBytes: maxBytes}
}

func (s *uploadService) Upload(ctx context.Context, userID int64, fileName string, data []byte) (*models.MediaAsset, error) {
	if userID == 0 {
		err := errors.New("user is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	info, err := media.Validate(data, s.maxBytes)
	if err != nil {
		metrics.Uploads.WithLabelValues("rejected").Inc()
		slog.Info(err.Error())
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	url, err := s.store.Put(ctx, id+"."+info.Extension, data, info.MIME)
	if err != nil {
		metrics.Uploads.WithLabelValues("failed").Inc()
		return nil, models.NewCollaboratorError("store media", err)
	}

	if fileName == "" {
		fileName = id + "." + info.Extension
	}
	asset := &models.MediaAsset{
		ID:         id,
		UserID:     userID,
		Kind:       info.Kind,
		Name:       path.Base(fileName),
		FileType:   info.MIME,
		FileSize:   info.Size,
		DisplayURL: url,
	}
	if err := s.ma.Create(ctx, asset); err != nil {
		metrics.Uploads.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("error saving media asset: %w", err)
	}

	metrics.Uploads.WithLabelValues("accepted").Inc()
	return asset, nil
}
