// Package grouping owns the bulk upload grouping: the ordered list of posts,
// each an ordered list of media ids, and the operations that rearrange them.
//
// Every operation validates its arguments before touching state, so a
// rejected call leaves the model exactly as it was.
package grouping

import (
	"fmt"
	"sort"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
)

// Model is the ordered sequence of posts. A media id appears in at most one
// post and no post is ever left empty.
type Model struct {
	posts []models.BulkPost
}

func NewModel() *Model {
	return &Model{}
}

// ModelFromPosts rebuilds a model from persisted posts, rejecting input that
// breaks the grouping invariants.
func ModelFromPosts(posts []models.BulkPost) (*Model, error) {
	seen := make(map[string]int)
	m := &Model{posts: make([]models.BulkPost, 0, len(posts))}
	for i, p := range posts {
		if len(p.MediaIDs) == 0 {
			return nil, fmt.Errorf("%w: post %d has no media", models.ErrInvariantViolation, i)
		}
		for _, id := range p.MediaIDs {
			if prev, ok := seen[id]; ok {
				return nil, fmt.Errorf("%w: media %q in posts %d and %d", models.ErrInvariantViolation, id, prev, i)
			}
			seen[id] = i
		}
		c := p.Clone()
		c.Platforms = normalizePlatforms(c.Platforms)
		m.posts = append(m.posts, c)
	}
	return m, nil
}

func (m *Model) Len() int { return len(m.posts) }

// Posts returns a deep copy of the current grouping.
func (m *Model) Posts() []models.BulkPost {
	out := make([]models.BulkPost, len(m.posts))
	for i, p := range m.posts {
		out[i] = p.Clone()
	}
	return out
}

func (m *Model) Post(postIndex int) (models.BulkPost, error) {
	if err := m.checkIndex(postIndex); err != nil {
		return models.BulkPost{}, err
	}
	return m.posts[postIndex].Clone(), nil
}

// IndexOf returns the index of the post holding mediaID, or -1.
func (m *Model) IndexOf(mediaID string) int {
	for i, p := range m.posts {
		if indexOf(p.MediaIDs, mediaID) >= 0 {
			return i
		}
	}
	return -1
}

// MediaCount is the number of media ids across all posts.
func (m *Model) MediaCount() int {
	n := 0
	for _, p := range m.posts {
		n += len(p.MediaIDs)
	}
	return n
}

// ReorderWithinPost moves fromID to the position currently held by toID in
// the same post.
func (m *Model) ReorderWithinPost(postIndex int, fromID, toID string) error {
	if err := m.checkIndex(postIndex); err != nil {
		return err
	}
	ids := m.posts[postIndex].MediaIDs
	from := indexOf(ids, fromID)
	to := indexOf(ids, toID)
	if from < 0 || to < 0 {
		return fmt.Errorf("%w: %q or %q not in post %d", models.ErrInvalidReference, fromID, toID, postIndex)
	}
	if from == to {
		return nil
	}
	m.posts[postIndex].MediaIDs = arrayMove(ids, from, to)
	return nil
}

// MoveAcrossPosts removes mediaID from the source post and inserts it into
// the target post before beforeID, or at the end when beforeID is empty or
// not in the target. An emptied source post is removed, which shifts every
// later index down by one.
func (m *Model) MoveAcrossPosts(fromPostIndex int, mediaID string, toPostIndex int, beforeID string) error {
	if err := m.checkIndex(fromPostIndex); err != nil {
		return err
	}
	if err := m.checkIndex(toPostIndex); err != nil {
		return err
	}
	src := m.posts[fromPostIndex].MediaIDs
	at := indexOf(src, mediaID)
	if at < 0 {
		return fmt.Errorf("%w: %q not in post %d", models.ErrInvalidReference, mediaID, fromPostIndex)
	}
	if mediaID == beforeID {
		return nil
	}

	src = remove(src, at)
	m.posts[fromPostIndex].MediaIDs = src

	dst := m.posts[toPostIndex].MediaIDs
	pos := indexOf(dst, beforeID)
	if beforeID == "" || pos < 0 {
		pos = len(dst)
	}
	m.posts[toPostIndex].MediaIDs = insert(dst, pos, mediaID)

	if len(m.posts[fromPostIndex].MediaIDs) == 0 {
		m.posts = append(m.posts[:fromPostIndex], m.posts[fromPostIndex+1:]...)
	}
	return nil
}

// MergeDown appends the following post's media to postIndex and deletes the
// following post. The receiving post keeps its own caption and platforms.
func (m *Model) MergeDown(postIndex int) error {
	if err := m.checkIndex(postIndex); err != nil {
		return err
	}
	if postIndex == len(m.posts)-1 {
		return nil
	}
	next := m.posts[postIndex+1]
	m.posts[postIndex].MediaIDs = append(m.posts[postIndex].MediaIDs, next.MediaIDs...)
	m.posts = append(m.posts[:postIndex+1], m.posts[postIndex+2:]...)
	return nil
}

// Split moves mediaID out of postIndex into a new post inserted right after
// it. The new post copies the platforms but starts with an empty caption.
func (m *Model) Split(postIndex int, mediaID string) error {
	if err := m.checkIndex(postIndex); err != nil {
		return err
	}
	p := m.posts[postIndex]
	at := indexOf(p.MediaIDs, mediaID)
	if at < 0 {
		return fmt.Errorf("%w: %q not in post %d", models.ErrInvalidReference, mediaID, postIndex)
	}
	if len(p.MediaIDs) == 1 {
		return fmt.Errorf("%w: cannot split single-item post %d", models.ErrInvariantViolation, postIndex)
	}

	m.posts[postIndex].MediaIDs = remove(p.MediaIDs, at)
	split := models.BulkPost{
		MediaIDs:  []string{mediaID},
		Platforms: append([]string(nil), p.Platforms...),
	}
	m.posts = append(m.posts, models.BulkPost{})
	copy(m.posts[postIndex+2:], m.posts[postIndex+1:])
	m.posts[postIndex+1] = split
	return nil
}

// AppendAsNewPosts adds one single-item post per id, in the given order.
// platforms seeds each new post's platform set.
func (m *Model) AppendAsNewPosts(mediaIDs []string, platforms ...string) error {
	seen := make(map[string]struct{}, len(mediaIDs))
	for _, id := range mediaIDs {
		if id == "" {
			return fmt.Errorf("%w: empty media id", models.ErrInvalidReference)
		}
		if _, dup := seen[id]; dup || m.IndexOf(id) >= 0 {
			return fmt.Errorf("%w: media %q already grouped", models.ErrInvariantViolation, id)
		}
		seen[id] = struct{}{}
	}
	for _, id := range mediaIDs {
		m.posts = append(m.posts, models.BulkPost{
			MediaIDs:  []string{id},
			Platforms: normalizePlatforms(platforms),
		})
	}
	return nil
}

// RemoveMedia drops mediaID from whichever post holds it. The post goes away
// with its last item.
func (m *Model) RemoveMedia(mediaID string) error {
	i := m.IndexOf(mediaID)
	if i < 0 {
		return fmt.Errorf("%w: %q not grouped", models.ErrInvalidReference, mediaID)
	}
	ids := remove(m.posts[i].MediaIDs, indexOf(m.posts[i].MediaIDs, mediaID))
	if len(ids) == 0 {
		m.posts = append(m.posts[:i], m.posts[i+1:]...)
		return nil
	}
	m.posts[i].MediaIDs = ids
	return nil
}

// RemovePost deletes a whole post.
func (m *Model) RemovePost(postIndex int) error {
	if err := m.checkIndex(postIndex); err != nil {
		return err
	}
	m.posts = append(m.posts[:postIndex], m.posts[postIndex+1:]...)
	return nil
}

func (m *Model) SetCaption(postIndex int, caption string) error {
	if err := m.checkIndex(postIndex); err != nil {
		return err
	}
	m.posts[postIndex].Caption = caption
	return nil
}

func (m *Model) SetPlatforms(postIndex int, platforms []string) error {
	if err := m.checkIndex(postIndex); err != nil {
		return err
	}
	m.posts[postIndex].Platforms = normalizePlatforms(platforms)
	return nil
}

func (m *Model) SetDisplayName(postIndex int, name string) error {
	if err := m.checkIndex(postIndex); err != nil {
		return err
	}
	m.posts[postIndex].DisplayName = name
	return nil
}

// SetScheduledAt stores a user supplied time. nil means publish immediately.
func (m *Model) SetScheduledAt(postIndex int, at *time.Time) error {
	if err := m.checkIndex(postIndex); err != nil {
		return err
	}
	m.posts[postIndex].ScheduledAt = copyTime(at)
	return nil
}

// ApplySchedule overwrites every post's scheduled time with times, which
// must hold exactly one entry per post.
func (m *Model) ApplySchedule(times []*time.Time) error {
	if len(times) != len(m.posts) {
		return fmt.Errorf("%w: %d times for %d posts", models.ErrInvalidReference, len(times), len(m.posts))
	}
	for i, t := range times {
		m.posts[i].ScheduledAt = copyTime(t)
	}
	return nil
}

func (m *Model) checkIndex(postIndex int) error {
	if postIndex < 0 || postIndex >= len(m.posts) {
		return fmt.Errorf("%w: post index %d out of range [0,%d)", models.ErrInvalidReference, postIndex, len(m.posts))
	}
	return nil
}

func indexOf(ids []string, id string) int {
	if id == "" {
		return -1
	}
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func remove(ids []string, at int) []string {
	out := make([]string, 0, len(ids)-1)
	out = append(out, ids[:at]...)
	return append(out, ids[at+1:]...)
}

func insert(ids []string, at int, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:at]...)
	out = append(out, id)
	return append(out, ids[at:]...)
}

func arrayMove(ids []string, from, to int) []string {
	id := ids[from]
	return insert(remove(ids, from), to, id)
}

func normalizePlatforms(platforms []string) []string {
	set := make(map[string]struct{}, len(platforms))
	out := make([]string, 0, len(platforms))
	for _, p := range platforms {
		if p == "" {
			continue
		}
		if _, ok := set[p]; ok {
			continue
		}
		set[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
