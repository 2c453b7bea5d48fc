package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/postflow/internal/service"
)

type DraftCleanupJob struct {
	ds        service.DraftService
	retention time.Duration
}

func NewDraftCleanupJob(ds service.DraftService, retention time.Duration) *DraftCleanupJob {
	return &DraftCleanupJob{ds: ds, retention: retention}
}

// RemoveStaleDrafts deletes wizard drafts nobody has touched within the
// retention window.
func (j *DraftCleanupJob) RemoveStaleDrafts() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := j.ds.RemoveStale(ctx, j.retention)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if n > 0 {
		slog.Info("removed stale drafts", "count", n, "retention", j.retention.String())
	}
}
