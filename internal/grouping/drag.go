package grouping

import (
	"fmt"

	"github.com/maheshrc27/postflow/internal/models"
)

// DragContext exists only between a drag start and its drop or cancel.
type DragContext struct {
	ActiveMediaID   string
	SourcePostIndex int
}

// Target is what the pointer was released over: a media item, a post
// container, or nothing recognisable.
type Target struct {
	MediaID   string
	PostIndex int
}

// MediaTarget is a drop onto another media item.
func MediaTarget(mediaID string) Target { return Target{MediaID: mediaID, PostIndex: -1} }

// PostTarget is a drop onto a post container outside any of its items.
func PostTarget(postIndex int) Target { return Target{PostIndex: postIndex} }

// NoTarget is a release outside every drop zone.
var NoTarget = Target{PostIndex: -1}

// DragAdapter turns drag gestures into grouping operations. It holds at most
// one gesture at a time.
type DragAdapter struct {
	model  *Model
	active *DragContext
}

func NewDragAdapter(model *Model) *DragAdapter {
	return &DragAdapter{model: model}
}

// Start begins a gesture on mediaID. Any stale gesture is discarded first.
func (d *DragAdapter) Start(mediaID string) error {
	d.active = nil
	i := d.model.IndexOf(mediaID)
	if i < 0 {
		return fmt.Errorf("%w: drag of ungrouped media %q", models.ErrInvalidReference, mediaID)
	}
	d.active = &DragContext{ActiveMediaID: mediaID, SourcePostIndex: i}
	return nil
}

// Active reports the in-flight gesture, if any.
func (d *DragAdapter) Active() (DragContext, bool) {
	if d.active == nil {
		return DragContext{}, false
	}
	return *d.active, true
}

// Cancel ends the gesture without touching the model.
func (d *DragAdapter) Cancel() {
	d.active = nil
}

// Drop ends the gesture over target. It reports whether the model changed;
// an unresolvable target aborts without mutation.
func (d *DragAdapter) Drop(target Target) (bool, error) {
	ctx := d.active
	d.active = nil
	if ctx == nil {
		return false, nil
	}

	// the source index may be stale if the model changed mid-gesture
	src := d.model.IndexOf(ctx.ActiveMediaID)
	if src < 0 {
		return false, fmt.Errorf("%w: dragged media %q no longer grouped", models.ErrInvalidReference, ctx.ActiveMediaID)
	}

	dst, overID, ok := d.resolve(target)
	if !ok {
		return false, nil
	}

	if src == dst {
		if overID == "" {
			ids := d.model.posts[dst].MediaIDs
			overID = ids[len(ids)-1]
		}
		if overID == ctx.ActiveMediaID {
			return false, nil
		}
		if err := d.model.ReorderWithinPost(src, ctx.ActiveMediaID, overID); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := d.model.MoveAcrossPosts(src, ctx.ActiveMediaID, dst, overID); err != nil {
		return false, err
	}
	return true, nil
}

func (d *DragAdapter) resolve(t Target) (postIndex int, overID string, ok bool) {
	if t.MediaID != "" {
		i := d.model.IndexOf(t.MediaID)
		if i < 0 {
			return 0, "", false
		}
		return i, t.MediaID, true
	}
	if t.PostIndex >= 0 && t.PostIndex < d.model.Len() {
		return t.PostIndex, "", true
	}
	return 0, "", false
}
