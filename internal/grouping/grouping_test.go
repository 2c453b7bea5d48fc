package grouping

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, groups ...[]string) *Model {
	t.Helper()
	posts := make([]models.BulkPost, len(groups))
	for i, g := range groups {
		posts[i] = models.BulkPost{MediaIDs: g, Caption: "caption " + g[0], Platforms: []string{"instagram"}}
	}
	m, err := ModelFromPosts(posts)
	require.NoError(t, err)
	return m
}

func mediaIDs(m *Model) [][]string {
	out := make([][]string, 0, m.Len())
	for _, p := range m.Posts() {
		out = append(out, p.MediaIDs)
	}
	return out
}

func TestModelFromPostsRejectsBrokenInvariants(t *testing.T) {
	_, err := ModelFromPosts([]models.BulkPost{{MediaIDs: nil}})
	assert.ErrorIs(t, err, models.ErrInvariantViolation)

	_, err = ModelFromPosts([]models.BulkPost{{MediaIDs: []string{"a"}}, {MediaIDs: []string{"b", "a"}}})
	assert.ErrorIs(t, err, models.ErrInvariantViolation)
}

func TestReorderWithinPost(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"forward", "a", "c", []string{"b", "c", "a", "d"}},
		{"backward", "d", "b", []string{"a", "d", "b", "c"}},
		{"same id", "b", "b", []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, []string{"a", "b", "c", "d"})
			require.NoError(t, m.ReorderWithinPost(0, tt.from, tt.to))
			assert.Equal(t, [][]string{tt.want}, mediaIDs(m))
		})
	}
}

func TestReorderWithinPostInvalidReference(t *testing.T) {
	m := newModel(t, []string{"a", "b"}, []string{"c"})
	before := m.Posts()

	assert.ErrorIs(t, m.ReorderWithinPost(0, "a", "c"), models.ErrInvalidReference)
	assert.ErrorIs(t, m.ReorderWithinPost(0, "x", "a"), models.ErrInvalidReference)
	assert.ErrorIs(t, m.ReorderWithinPost(5, "a", "b"), models.ErrInvalidReference)
	assert.Equal(t, before, m.Posts())
}

func TestMoveAcrossPosts(t *testing.T) {
	m := newModel(t, []string{"a", "b"}, []string{"c", "d"})

	require.NoError(t, m.MoveAcrossPosts(0, "b", 1, "d"))
	assert.Equal(t, [][]string{{"a"}, {"c", "b", "d"}}, mediaIDs(m))

	// missing before id goes to the end, never the start
	require.NoError(t, m.MoveAcrossPosts(1, "c", 0, "zzz"))
	assert.Equal(t, [][]string{{"a", "c"}, {"b", "d"}}, mediaIDs(m))

	require.NoError(t, m.MoveAcrossPosts(1, "d", 0, ""))
	assert.Equal(t, [][]string{{"a", "c", "d"}, {"b"}}, mediaIDs(m))
}

func TestMoveAcrossPostsRemovesEmptiedSource(t *testing.T) {
	m := newModel(t, []string{"a"}, []string{"b"}, []string{"c"})

	require.NoError(t, m.MoveAcrossPosts(0, "a", 2, ""))
	assert.Equal(t, [][]string{{"b"}, {"c", "a"}}, mediaIDs(m))
	assert.Equal(t, "caption b", m.posts[0].Caption)
}

func TestMoveAcrossPostsInvalidReference(t *testing.T) {
	m := newModel(t, []string{"a"}, []string{"b"})
	before := m.Posts()

	assert.ErrorIs(t, m.MoveAcrossPosts(0, "b", 1, ""), models.ErrInvalidReference)
	assert.ErrorIs(t, m.MoveAcrossPosts(0, "a", 9, ""), models.ErrInvalidReference)
	assert.ErrorIs(t, m.MoveAcrossPosts(-1, "a", 1, ""), models.ErrInvalidReference)
	assert.Equal(t, before, m.Posts())
}

func TestMergeDown(t *testing.T) {
	m := newModel(t, []string{"a", "b"}, []string{"c"}, []string{"d"})
	m.posts[1].Caption = "other"
	m.posts[1].Platforms = []string{"tiktok"}

	require.NoError(t, m.MergeDown(0))
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d"}}, mediaIDs(m))
	assert.Equal(t, "caption a", m.posts[0].Caption)
	assert.Equal(t, []string{"instagram"}, m.posts[0].Platforms)

	require.NoError(t, m.MergeDown(1))
	assert.Equal(t, 2, m.Len())

	assert.ErrorIs(t, m.MergeDown(4), models.ErrInvalidReference)
}

func TestSplit(t *testing.T) {
	m := newModel(t, []string{"a", "b", "c"}, []string{"d"})

	require.NoError(t, m.Split(0, "b"))
	require.Equal(t, 3, m.Len())
	assert.Equal(t, [][]string{{"a", "c"}, {"b"}, {"d"}}, mediaIDs(m))

	split := m.posts[1]
	assert.Empty(t, split.Caption)
	assert.Equal(t, []string{"instagram"}, split.Platforms)
	assert.Nil(t, split.ScheduledAt)
}

func TestSplitSingleItemRejected(t *testing.T) {
	m := newModel(t, []string{"a"}, []string{"b", "c"})
	before := m.Posts()

	assert.ErrorIs(t, m.Split(0, "a"), models.ErrInvariantViolation)
	assert.ErrorIs(t, m.Split(1, "a"), models.ErrInvalidReference)
	assert.Equal(t, before, m.Posts())
}

func TestAppendAsNewPosts(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.AppendAsNewPosts([]string{"a", "b"}, "instagram", "facebook", "instagram"))
	require.NoError(t, m.AppendAsNewPosts([]string{"c"}))

	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, mediaIDs(m))
	assert.Equal(t, []string{"facebook", "instagram"}, m.posts[0].Platforms)

	assert.ErrorIs(t, m.AppendAsNewPosts([]string{"d", "a"}), models.ErrInvariantViolation)
	assert.ErrorIs(t, m.AppendAsNewPosts([]string{"e", "e"}), models.ErrInvariantViolation)
	assert.Equal(t, 3, m.Len())
}

func TestRemoveMedia(t *testing.T) {
	m := newModel(t, []string{"a", "b"}, []string{"c"})

	require.NoError(t, m.RemoveMedia("a"))
	require.NoError(t, m.RemoveMedia("c"))
	assert.Equal(t, [][]string{{"b"}}, mediaIDs(m))
	assert.ErrorIs(t, m.RemoveMedia("c"), models.ErrInvalidReference)
}

func TestApplySchedule(t *testing.T) {
	m := newModel(t, []string{"a"}, []string{"b"})
	at := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, m.ApplySchedule([]*time.Time{&at, nil}))
	assert.Equal(t, at, *m.posts[0].ScheduledAt)
	assert.Nil(t, m.posts[1].ScheduledAt)

	assert.ErrorIs(t, m.ApplySchedule([]*time.Time{&at}), models.ErrInvalidReference)
}

func TestPostsReturnsCopy(t *testing.T) {
	m := newModel(t, []string{"a", "b"})
	posts := m.Posts()
	posts[0].MediaIDs[0] = "mutated"
	assert.Equal(t, [][]string{{"a", "b"}}, mediaIDs(m))
}

func sortedIDs(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func TestRandomReordersKeepEachPostsMultiset(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := newModel(t, []string{"a", "b", "c", "d"}, []string{"e", "f"}, []string{"g"})
	want := make([][]string, m.Len())
	for i, p := range m.Posts() {
		want[i] = sortedIDs(p.MediaIDs)
	}

	for n := 0; n < 500; n++ {
		i := rng.Intn(m.Len())
		ids := m.posts[i].MediaIDs
		from := ids[rng.Intn(len(ids))]
		to := ids[rng.Intn(len(ids))]
		require.NoError(t, m.ReorderWithinPost(i, from, to))
	}

	for i, p := range m.Posts() {
		assert.Equal(t, want[i], sortedIDs(p.MediaIDs))
	}
}

func TestRandomMovesKeepPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := newModel(t, []string{"a", "b", "c"}, []string{"d", "e"}, []string{"f"}, []string{"g", "h"})
	total := m.MediaCount()

	for n := 0; n < 500 && m.Len() > 1; n++ {
		from := rng.Intn(m.Len())
		to := rng.Intn(m.Len())
		if from == to {
			continue
		}
		src := m.posts[from].MediaIDs
		id := src[rng.Intn(len(src))]
		before := ""
		if dst := m.posts[to].MediaIDs; rng.Intn(2) == 0 {
			before = dst[rng.Intn(len(dst))]
		}
		require.NoError(t, m.MoveAcrossPosts(from, id, to, before))

		require.Equal(t, total, m.MediaCount())
		seen := map[string]bool{}
		for _, p := range m.posts {
			require.NotEmpty(t, p.MediaIDs)
			for _, id := range p.MediaIDs {
				require.False(t, seen[id], "media %s in two posts", id)
				seen[id] = true
			}
		}
	}
}
