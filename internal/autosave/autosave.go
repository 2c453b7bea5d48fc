// Package autosave persists wizard state to the draft store in the
// background. Edits are debounced, at most one save is in flight, and edits
// arriving mid-flight collapse into a single follow-up save.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
)

const (
	DefaultDebounce    = 2 * time.Second
	DefaultSaveTimeout = 30 * time.Second
)

// Store is the remote draft store.
type Store interface {
	CreateDraft(ctx context.Context, state models.WizardState) (string, error)
	UpdateDraft(ctx context.Context, draftID string, state models.WizardState) error
}

type Option func(*Controller)

func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

func WithSaveTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithDraftID starts the controller on an existing draft, as when a wizard
// is resumed.
func WithDraftID(id string) Option {
	return func(c *Controller) { c.draftID = id }
}

// OnDraftID is called once, after the first successful create.
func OnDraftID(fn func(id string)) Option {
	return func(c *Controller) { c.onDraftID = fn }
}

// OnSaved is called after every save attempt with its outcome.
func OnSaved(fn func(created bool, err error)) Option {
	return func(c *Controller) { c.onSaved = fn }
}

type Controller struct {
	store    Store
	snapshot func() models.WizardState
	debounce time.Duration
	timeout  time.Duration

	onDraftID func(string)
	onSaved   func(bool, error)

	mu       sync.Mutex
	timer    *time.Timer
	draftID  string
	inFlight bool
	pending  bool
	held     bool
	closed   bool
	idle     *sync.Cond
}

// New builds a controller that saves whatever snapshot returns at the
// moment a save starts.
func New(store Store, snapshot func() models.WizardState, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		snapshot: snapshot,
		debounce: DefaultDebounce,
		timeout:  DefaultSaveTimeout,
	}
	c.idle = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DraftID is empty until the first create succeeds.
func (c *Controller) DraftID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draftID
}

// Notify records that the wizard state changed.
func (c *Controller) Notify() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.inFlight || c.held {
		c.pending = true
		return
	}
	c.armLocked()
}

// Flush starts a save now instead of waiting for the debounce.
func (c *Controller) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.held {
		return
	}
	c.stopTimerLocked()
	c.startLocked()
}

// Wait blocks until no save is in flight or queued.
func (c *Controller) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.inFlight || (c.pending && !c.held) {
		c.idle.Wait()
	}
}

// Hold stops the debounce timer and blocks until no save is in flight, so
// DraftID is settled. Edits made while held are saved after Release.
func (c *Controller) Hold() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = true
	if c.timer != nil {
		c.stopTimerLocked()
		c.pending = true
	}
	for c.inFlight {
		c.idle.Wait()
	}
}

// Release resumes saving after Hold.
func (c *Controller) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = false
	if c.closed || c.inFlight || !c.pending {
		return
	}
	c.pending = false
	c.armLocked()
}

// Close stops further saves. An in-flight save is allowed to finish.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.pending = false
	c.stopTimerLocked()
	c.mu.Unlock()
	c.Wait()
}

func (c *Controller) armLocked() {
	c.stopTimerLocked()
	c.timer = time.AfterFunc(c.debounce, c.fire)
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) fire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer = nil
	if c.closed {
		return
	}
	if c.held {
		c.pending = true
		return
	}
	c.startLocked()
}

func (c *Controller) startLocked() {
	if c.inFlight {
		c.pending = true
		return
	}
	c.inFlight = true
	go c.save(c.draftID)
}

func (c *Controller) save(draftID string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	state := c.snapshot()
	created := false
	var err error
	if draftID == "" {
		var id string
		id, err = c.store.CreateDraft(ctx, state)
		if err == nil {
			draftID = id
			created = true
		}
	} else {
		state.DraftID = draftID
		err = c.store.UpdateDraft(ctx, draftID, state)
	}
	if err != nil {
		slog.Info("autosave failed", "draft_id", draftID, "error", err)
	}

	c.mu.Lock()
	if created {
		c.draftID = draftID
	}
	c.inFlight = false
	switch {
	case c.closed:
	case c.held:
		if err != nil {
			c.pending = true
		}
	case c.pending:
		c.pending = false
		c.inFlight = true
		go c.save(c.draftID)
	case err != nil:
		// retried on the next debounce cycle
		c.armLocked()
	}
	if !c.inFlight {
		c.idle.Broadcast()
	}
	c.mu.Unlock()

	if created && c.onDraftID != nil {
		c.onDraftID(draftID)
	}
	if c.onSaved != nil {
		c.onSaved(created, err)
	}
}
