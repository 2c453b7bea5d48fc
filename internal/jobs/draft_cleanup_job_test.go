package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maheshrc27/postflow/internal/service"
	"github.com/stretchr/testify/assert"
)

type fakeDrafts struct {
	service.DraftService
	olderThan time.Duration
	err       error
	calls     int
}

func (f *fakeDrafts) RemoveStale(_ context.Context, olderThan time.Duration) (int64, error) {
	f.calls++
	f.olderThan = olderThan
	return 3, f.err
}

func TestRemoveStaleDraftsUsesRetention(t *testing.T) {
	ds := &fakeDrafts{}
	NewDraftCleanupJob(ds, 48*time.Hour).RemoveStaleDrafts()

	assert.Equal(t, 1, ds.calls)
	assert.Equal(t, 48*time.Hour, ds.olderThan)
}

func TestRemoveStaleDraftsSwallowsErrors(t *testing.T) {
	ds := &fakeDrafts{err: errors.New("db down")}
	assert.NotPanics(t, NewDraftCleanupJob(ds, time.Hour).RemoveStaleDrafts)
}
