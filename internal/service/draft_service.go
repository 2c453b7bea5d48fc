package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postflow/internal/metrics"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrDraftNotFound = errors.New("draft not found")

// DraftService is the server side of the wizard's draft store.
type DraftService interface {
	Create(ctx context.Context, userID int64, state models.WizardState) (*models.Draft, error)
	Update(ctx context.Context, userID int64, id string, state models.WizardState) (int, error)
	Get(ctx context.Context, userID int64, id string) (*models.WizardState, int, error)
	Remove(ctx context.Context, userID int64, id string) error
	RemoveStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type draftService struct {
	dr repository.DraftRepository
}

func NewDraftService(dr repository.DraftRepository) DraftService {
	return &draftService{dr: dr}
}

func (s *draftService) Create(ctx context.Context, userID int64, state models.WizardState) (*models.Draft, error) {
	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	state.DraftID = id

	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("error encoding draft: %w", err)
	}

	draft := &models.Draft{ID: id, UserID: userID, State: raw}
	err = s.dr.Create(ctx, draft)
	metrics.DraftSaves.WithLabelValues("create", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("error creating draft: %w", err)
	}
	return draft, nil
}

func (s *draftService) Update(ctx context.Context, userID int64, id string, state models.WizardState) (int, error) {
	if id == "" {
		return 0, ErrDraftNotFound
	}
	state.DraftID = id

	raw, err := json.Marshal(state)
	if err != nil {
		return 0, fmt.Errorf("error encoding draft: %w", err)
	}

	version, found, err := s.dr.Update(ctx, userID, id, raw)
	metrics.DraftSaves.WithLabelValues("update", metrics.Outcome(err)).Inc()
	if err != nil {
		return 0, fmt.Errorf("error updating draft: %w", err)
	}
	if !found {
		return 0, ErrDraftNotFound
	}
	return version, nil
}

func (s *draftService) Get(ctx context.Context, userID int64, id string) (*models.WizardState, int, error) {
	draft, err := s.dr.GetByID(ctx, userID, id)
	if err != nil {
		return nil, 0, err
	}
	if draft == nil {
		return nil, 0, ErrDraftNotFound
	}

	var state models.WizardState
	if err := json.Unmarshal(draft.State, &state); err != nil {
		slog.Info(err.Error())
		return nil, 0, fmt.Errorf("error decoding draft %s: %w", id, err)
	}
	state.DraftID = draft.ID
	return &state, draft.Version, nil
}

func (s *draftService) Remove(ctx context.Context, userID int64, id string) error {
	return s.dr.Remove(ctx, userID, id)
}

func (s *draftService) RemoveStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.dr.RemoveStale(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	metrics.DraftsPruned.Add(float64(n))
	return n, nil
}
