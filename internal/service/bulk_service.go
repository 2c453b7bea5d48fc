package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postflow/internal/metrics"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/queue"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/internal/schedule"
)

var ErrInvalidSubmission = errors.New("invalid submission")

// BulkService accepts the final output of the bulk upload wizard.
type BulkService interface {
	Submit(ctx context.Context, userID int64, sub *models.BulkSubmission) (*models.BulkSubmissionResult, error)
	List(ctx context.Context, userID int64) ([]*models.Post, error)
}

type bulkService struct {
	db  *sql.DB
	pr  repository.PostRepository
	pm  repository.PostMediaRepository
	ma  repository.MediaAssetRepository
	ds  DraftService
	q   queue.Enqueuer
	now func() time.Time
}

func NewBulkService(
	db *sql.DB,
	pr repository.PostRepository,
	pm repository.PostMediaRepository,
	ma repository.MediaAssetRepository,
	ds DraftService,
	q queue.Enqueuer) BulkService {
	return &bulkService{
		db:  db,
		pr:  pr,
		pm:  pm,
		ma:  ma,
		ds:  ds,
		q:   q,
		now: time.Now,
	}
}

func (s *bulkService) Submit(ctx context.Context, userID int64, sub *models.BulkSubmission) (res *models.BulkSubmissionResult, err error) {
	defer func() {
		metrics.Submissions.WithLabelValues(metrics.Outcome(err)).Inc()
	}()

	if userID == 0 {
		err = errors.New("user is not valid")
		slog.Info(err.Error())
		return nil, err
	}
	if err = s.validate(ctx, userID, sub); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	now := s.now()
	scheduled := make([]time.Time, len(sub.Posts))
	for i, p := range sub.Posts {
		scheduled[i] = now
		if p.ScheduledAt != nil && p.ScheduledAt.After(now) {
			scheduled[i] = *p.ScheduledAt
		}
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	ids := make([]int64, len(sub.Posts))
	for i, p := range sub.Posts {
		postType := models.PostTypeSingle
		if len(p.MediaIDs) > 1 {
			postType = models.PostTypeCarousel
		}
		post := models.Post{
			UserID:        userID,
			PostType:      postType,
			Caption:       p.Caption,
			Title:         p.DisplayName,
			Platforms:     p.Platforms,
			ScheduledTime: scheduled[i],
			Status:        models.PostStatusScheduled,
		}
		ids[i], err = s.pr.Create(ctx, tx, &post)
		if err != nil {
			return nil, fmt.Errorf("error creating post %d: %w", i, err)
		}
		for order, assetID := range p.MediaIDs {
			pm := models.PostMedia{PostID: ids[i], AssetID: assetID, DisplayOrder: order}
			if err = s.pm.Create(ctx, tx, &pm); err != nil {
				return nil, fmt.Errorf("error saving media for post %d: %w", i, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	res = &models.BulkSubmissionResult{
		TotalPosts:    len(sub.Posts),
		PerPostResult: make([]models.PostResult, len(sub.Posts)),
	}
	for i := range sub.Posts {
		r := models.PostResult{Index: i, PostID: ids[i], ScheduledAt: scheduled[i], Status: models.PostStatusScheduled}
		taskID, qerr := s.q.EnqueuePost(ctx, queue.PublishPostPayload{PostID: ids[i], UserID: userID}, scheduled[i])
		if qerr != nil {
			slog.Error("error scheduling post", "post_id", ids[i], "error", qerr)
			r.Status = models.PostStatusFailed
			if uerr := s.pr.UpdatePostStatus(ctx, models.PostStatusFailed, ids[i]); uerr != nil {
				slog.Info(uerr.Error())
			}
		}
		r.TaskID = taskID
		res.PerPostResult[i] = r
	}
	metrics.SubmittedPosts.Add(float64(len(sub.Posts)))

	if sub.DraftID != "" {
		if derr := s.ds.Remove(ctx, userID, sub.DraftID); derr != nil {
			slog.Info(derr.Error())
		}
	}

	return res, nil
}

func (s *bulkService) validate(ctx context.Context, userID int64, sub *models.BulkSubmission) error {
	if sub == nil || len(sub.Posts) == 0 {
		return fmt.Errorf("%w: no posts", ErrInvalidSubmission)
	}

	switch sub.ScheduleStrategy {
	case models.StrategyIndividual, models.StrategyOptimal, "":
	case models.StrategySpread:
		if err := schedule.ValidateSpread(sub.SpreadConfig); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown schedule strategy %q", models.ErrInvalidConfig, sub.ScheduleStrategy)
	}

	seen := make(map[string]int)
	all := make([]string, 0)
	for i, p := range sub.Posts {
		if len(p.MediaIDs) == 0 {
			return fmt.Errorf("%w: post %d has no media", ErrInvalidSubmission, i)
		}
		if len(p.Platforms) == 0 {
			return fmt.Errorf("%w: post %d has no platforms", ErrInvalidSubmission, i)
		}
		for _, id := range p.MediaIDs {
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("%w: media %q used by posts %d and %d", models.ErrInvariantViolation, id, prev, i)
			}
			seen[id] = i
			all = append(all, id)
		}
	}

	owned, err := s.ma.CountOwned(ctx, userID, all)
	if err != nil {
		return err
	}
	if owned != len(all) {
		return fmt.Errorf("%w: %d of %d media not found", models.ErrInvalidReference, len(all)-owned, len(all))
	}
	return nil
}

func (s *bulkService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return posts, nil
}
