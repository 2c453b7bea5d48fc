// Package wizard holds one bulk upload session: the media registry, the post
// grouping, drag gestures, scheduling, autosave and the final submission.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/postflow/internal/autosave"
	"github.com/maheshrc27/postflow/internal/grouping"
	"github.com/maheshrc27/postflow/internal/media"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/schedule"
	"golang.org/x/sync/errgroup"
)

const defaultUploadWorkers = 4

var ErrClosed = errors.New("wizard session is closed")

// Uploader stores one file and returns its descriptor.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (models.MediaAsset, error)
}

// Suggester produces advisory captions and hashtags.
type Suggester interface {
	SuggestCaption(ctx context.Context, req models.CaptionRequest) (string, error)
	SuggestHashtags(ctx context.Context, req models.CaptionRequest) ([]string, error)
}

// Submitter sends the final bulk request.
type Submitter interface {
	SubmitBulk(ctx context.Context, sub models.BulkSubmission) (*models.BulkSubmissionResult, error)
}

// Collaborators are the external services a session talks to. Oracle and
// Suggester may be nil.
type Collaborators struct {
	Uploader  Uploader
	Drafts    autosave.Store
	Oracle    schedule.Oracle
	Suggester Suggester
	Submitter Submitter
}

type Options struct {
	MaxUploadBytes   int64
	UploadWorkers    int
	AutosaveDebounce time.Duration
	// DefaultPlatforms seeds the platform set of every freshly uploaded post.
	DefaultPlatforms []string
	Clock            func() time.Time
}

type File struct {
	Name string
	Data []byte
}

type Ticket int

// UploadResult reports the outcome of one file. Discarded is set when the
// pending upload was removed before it completed.
type UploadResult struct {
	Ticket    Ticket
	Name      string
	Asset     *models.MediaAsset
	Err       error
	Discarded bool
}

type Session struct {
	c    Collaborators
	opts Options

	engine *schedule.Engine
	saver  *autosave.Controller

	mu       sync.Mutex
	registry *grouping.Registry
	model    *grouping.Model
	drag     *grouping.DragAdapter
	strategy models.ScheduleStrategy
	spread   *models.SpreadConfig
	rev      uint64
	pending  map[Ticket]string
	ticket   Ticket
	closed   bool
}

// New opens an empty session.
func New(c Collaborators, opts Options) *Session {
	return newSession(c, opts, grouping.NewRegistry(), grouping.NewModel(), models.StrategyIndividual, nil, "")
}

// Resume reopens a session from a stored draft. Saves from the resumed session
// update that draft.
func Resume(c Collaborators, opts Options, state *models.WizardState) (*Session, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: no draft state", models.ErrInvalidReference)
	}
	model, err := grouping.ModelFromPosts(state.Posts)
	if err != nil {
		return nil, err
	}
	registry := grouping.RegistryFromSnapshot(state.MediaRegistry, state.Posts)
	for _, p := range state.Posts {
		for _, id := range p.MediaIDs {
			if !registry.Has(id) {
				return nil, fmt.Errorf("%w: media %q missing from draft registry", models.ErrInvalidReference, id)
			}
		}
	}
	strategy := state.ScheduleStrategy
	if strategy == "" {
		strategy = models.StrategyIndividual
	}
	var spread *models.SpreadConfig
	if state.SpreadConfig != nil {
		cp := *state.SpreadConfig
		cp.Times = append([]string(nil), state.SpreadConfig.Times...)
		spread = &cp
	}
	return newSession(c, opts, registry, model, strategy, spread, state.DraftID), nil
}

func newSession(c Collaborators, opts Options, registry *grouping.Registry, model *grouping.Model, strategy models.ScheduleStrategy, spread *models.SpreadConfig, draftID string) *Session {
	if opts.UploadWorkers <= 0 {
		opts.UploadWorkers = defaultUploadWorkers
	}
	s := &Session{
		c:        c,
		opts:     opts,
		registry: registry,
		model:    model,
		drag:     grouping.NewDragAdapter(model),
		strategy: strategy,
		spread:   spread,
		pending:  make(map[Ticket]string),
	}

	var engineOpts []schedule.Option
	if opts.Clock != nil {
		engineOpts = append(engineOpts, schedule.WithClock(opts.Clock))
	}
	s.engine = schedule.NewEngine(c.Oracle, engineOpts...)

	saveOpts := []autosave.Option{}
	if opts.AutosaveDebounce > 0 {
		saveOpts = append(saveOpts, autosave.WithDebounce(opts.AutosaveDebounce))
	}
	if draftID != "" {
		saveOpts = append(saveOpts, autosave.WithDraftID(draftID))
	}
	s.saver = autosave.New(c.Drafts, s.State, saveOpts...)
	return s
}

// State returns a deep copy of everything a draft stores.
func (s *Session) State() models.WizardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := models.WizardState{
		Posts:            s.model.Posts(),
		MediaRegistry:    s.registry.Snapshot(),
		ScheduleStrategy: s.strategy,
		DraftID:          s.saver.DraftID(),
	}
	if s.spread != nil {
		cp := *s.spread
		cp.Times = append([]string(nil), s.spread.Times...)
		state.SpreadConfig = &cp
	}
	return state
}

func (s *Session) Posts() []models.BulkPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Posts()
}

func (s *Session) Media(id string) (models.MediaAsset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Get(id)
}

func (s *Session) DraftID() string {
	return s.saver.DraftID()
}

// Autosave exposes the draft autosave controller, mainly to flush or wait on
// it before leaving the wizard.
func (s *Session) Autosave() *autosave.Controller {
	return s.saver
}

// mutate applies fn to the grouping under the session lock and schedules an
// autosave when it succeeds.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.rev++
	s.mu.Unlock()

	s.saver.Notify()
	return nil
}

// UploadFiles validates every file locally, then uploads the valid ones in
// parallel. Each completed upload is appended as its own single-item post.
// Results are returned in input order.
func (s *Session) UploadFiles(ctx context.Context, files []File) []UploadResult {
	results := make([]UploadResult, len(files))

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		for i, f := range files {
			results[i] = UploadResult{Name: f.Name, Err: ErrClosed}
		}
		return results
	}
	for i, f := range files {
		s.ticket++
		results[i] = UploadResult{Ticket: s.ticket, Name: f.Name}
		if _, err := media.Validate(f.Data, s.opts.MaxUploadBytes); err != nil {
			results[i].Err = fmt.Errorf("%s: %w", f.Name, err)
			continue
		}
		s.pending[s.ticket] = f.Name
	}
	s.mu.Unlock()

	var g errgroup.Group
	g.SetLimit(s.opts.UploadWorkers)
	for i := range files {
		if results[i].Err != nil {
			continue
		}
		g.Go(func() error {
			results[i] = s.upload(ctx, results[i].Ticket, files[i])
			return nil
		})
	}
	g.Wait()
	return results
}

func (s *Session) upload(ctx context.Context, ticket Ticket, f File) UploadResult {
	res := UploadResult{Ticket: ticket, Name: f.Name}
	asset, err := s.c.Uploader.Upload(ctx, f.Name, f.Data)

	s.mu.Lock()
	_, live := s.pending[ticket]
	delete(s.pending, ticket)
	switch {
	case !live || s.closed:
		res.Discarded = true
		s.mu.Unlock()
		return res
	case err != nil:
		s.mu.Unlock()
		res.Err = models.NewCollaboratorError("upload "+f.Name, err)
		slog.Info(res.Err.Error())
		return res
	}
	if err := s.registry.Add(asset); err != nil {
		s.mu.Unlock()
		res.Err = err
		return res
	}
	if err := s.model.AppendAsNewPosts([]string{asset.ID}, s.opts.DefaultPlatforms...); err != nil {
		s.registry.Remove(asset.ID)
		s.mu.Unlock()
		res.Err = err
		return res
	}
	s.rev++
	s.mu.Unlock()

	s.saver.Notify()
	res.Asset = &asset
	return res
}

// PendingUploads lists uploads that have started but not completed.
func (s *Session) PendingUploads() map[Ticket]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Ticket]string, len(s.pending))
	for k, v := range s.pending {
		out[k] = v
	}
	return out
}

// DiscardUpload removes a pending upload. The request still completes but its
// result is dropped. It reports whether the ticket was pending.
func (s *Session) DiscardUpload(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[t]; !ok {
		return false
	}
	delete(s.pending, t)
	return true
}

func (s *Session) ReorderWithinPost(postIndex int, fromID, toID string) error {
	return s.mutate(func() error { return s.model.ReorderWithinPost(postIndex, fromID, toID) })
}

func (s *Session) MoveAcrossPosts(fromPostIndex int, mediaID string, toPostIndex int, beforeID string) error {
	return s.mutate(func() error { return s.model.MoveAcrossPosts(fromPostIndex, mediaID, toPostIndex, beforeID) })
}

func (s *Session) MergeDown(postIndex int) error {
	return s.mutate(func() error { return s.model.MergeDown(postIndex) })
}

func (s *Session) Split(postIndex int, mediaID string) error {
	return s.mutate(func() error { return s.model.Split(postIndex, mediaID) })
}

// RemoveMedia drops an item from its post. The registry keeps the asset.
func (s *Session) RemoveMedia(mediaID string) error {
	return s.mutate(func() error { return s.model.RemoveMedia(mediaID) })
}

func (s *Session) RemovePost(postIndex int) error {
	return s.mutate(func() error { return s.model.RemovePost(postIndex) })
}

func (s *Session) SetCaption(postIndex int, caption string) error {
	return s.mutate(func() error { return s.model.SetCaption(postIndex, caption) })
}

func (s *Session) SetPlatforms(postIndex int, platforms []string) error {
	return s.mutate(func() error { return s.model.SetPlatforms(postIndex, platforms) })
}

func (s *Session) SetDisplayName(postIndex int, name string) error {
	return s.mutate(func() error { return s.model.SetDisplayName(postIndex, name) })
}

func (s *Session) SetScheduledAt(postIndex int, at *time.Time) error {
	return s.mutate(func() error { return s.model.SetScheduledAt(postIndex, at) })
}

func (s *Session) DragStart(mediaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.drag.Start(mediaID)
}

func (s *Session) DragCancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag.Cancel()
}

// DragDrop ends the current gesture over target and reports whether the
// grouping changed.
func (s *Session) DragDrop(target grouping.Target) (bool, error) {
	changed := false
	err := s.mutate(func() error {
		var err error
		changed, err = s.drag.Drop(target)
		if err == nil && !changed {
			return errUnchanged
		}
		return err
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	return changed, err
}

var errUnchanged = errors.New("unchanged")

// SetStrategy selects the schedule strategy. spread is kept as given and only
// validated when the schedule is computed.
func (s *Session) SetStrategy(strategy models.ScheduleStrategy, spread *models.SpreadConfig) error {
	switch strategy {
	case models.StrategyIndividual, models.StrategySpread, models.StrategyOptimal:
	default:
		return fmt.Errorf("%w: unknown schedule strategy %q", models.ErrInvalidConfig, strategy)
	}
	var cp *models.SpreadConfig
	if spread != nil {
		c := *spread
		c.Times = append([]string(nil), spread.Times...)
		cp = &c
	}
	return s.mutate(func() error {
		s.strategy = strategy
		s.spread = cp
		return nil
	})
}

// ComputeSchedule runs the selected strategy and writes the result onto the
// posts. The grouping may change while the oracle is consulted, in which case
// the computation is repeated against the new grouping.
func (s *Session) ComputeSchedule(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return ErrClosed
		}
		posts := s.model.Posts()
		strategy, spread, rev := s.strategy, s.spread, s.rev
		s.mu.Unlock()

		times, err := s.engine.Compute(ctx, posts, strategy, spread)
		if err != nil {
			return err
		}

		s.mu.Lock()
		if s.rev != rev {
			s.mu.Unlock()
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		if len(times) == 0 {
			s.mu.Unlock()
			return nil
		}
		err = s.model.ApplySchedule(times)
		if err == nil {
			s.rev++
		}
		s.mu.Unlock()
		if err == nil {
			s.saver.Notify()
		}
		return err
	}
}

func (s *Session) captionRequest(postIndex int, tone string) (models.CaptionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.model.Post(postIndex)
	if err != nil {
		return models.CaptionRequest{}, err
	}
	return models.CaptionRequest{Caption: p.Caption, Platforms: p.Platforms, Tone: tone}, nil
}

// SuggestCaption asks for a caption for the post. The post is not modified.
func (s *Session) SuggestCaption(ctx context.Context, postIndex int, tone string) (string, error) {
	if s.c.Suggester == nil {
		return "", models.NewCollaboratorError("suggest caption", errors.New("no suggester configured"))
	}
	req, err := s.captionRequest(postIndex, tone)
	if err != nil {
		return "", err
	}
	caption, err := s.c.Suggester.SuggestCaption(ctx, req)
	if err != nil {
		return "", asCollaborator("suggest caption", err)
	}
	return caption, nil
}

func (s *Session) SuggestHashtags(ctx context.Context, postIndex int) ([]string, error) {
	if s.c.Suggester == nil {
		return nil, models.NewCollaboratorError("suggest hashtags", errors.New("no suggester configured"))
	}
	req, err := s.captionRequest(postIndex, "")
	if err != nil {
		return nil, err
	}
	tags, err := s.c.Suggester.SuggestHashtags(ctx, req)
	if err != nil {
		return nil, asCollaborator("suggest hashtags", err)
	}
	return tags, nil
}

// Submit resolves the schedule and sends every post as one bulk request. On
// success the session is closed; on failure it stays open for another try.
func (s *Session) Submit(ctx context.Context) (*models.BulkSubmissionResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.model.Len() == 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: nothing to submit", models.ErrInvariantViolation)
	}
	strategy := s.strategy
	s.mu.Unlock()

	// a create still in flight must land before the draft id is read
	s.saver.Hold()

	if strategy != models.StrategyIndividual {
		if err := s.ComputeSchedule(ctx); err != nil {
			s.saver.Release()
			return nil, err
		}
	}

	state := s.State()
	sub := models.BulkSubmission{
		Posts:            state.Posts,
		ScheduleStrategy: state.ScheduleStrategy,
		SpreadConfig:     state.SpreadConfig,
		DraftID:          state.DraftID,
	}
	res, err := s.c.Submitter.SubmitBulk(ctx, sub)
	if err != nil {
		err = asCollaborator("submit", err)
		slog.Info(err.Error())
		s.saver.Release()
		return nil, err
	}

	s.mu.Lock()
	s.closed = true
	s.drag.Cancel()
	s.mu.Unlock()
	s.saver.Close()
	return res, nil
}

// Close abandons the session. An in-flight autosave is allowed to finish.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.saver.Close()
}

func asCollaborator(op string, err error) error {
	if errors.Is(err, models.ErrCollaboratorFailure) {
		return err
	}
	return models.NewCollaboratorError(op, err)
}
