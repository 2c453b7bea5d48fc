package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postflow/internal/models"
)

func (j *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	return j.PublishPost(ctx, payload.PostID)
}

// PublishPost hands a due post over to platform delivery by moving it to
// the publishing state. Delivery itself happens outside this service.
func (j *Queue) PublishPost(ctx context.Context, postID int64) error {
	post, err := j.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		log.Printf("Post %d no longer exists, dropping publish task", postID)
		return nil
	}
	if post.Status != models.PostStatusScheduled {
		log.Printf("Post %d is %s, skipping publish", postID, post.Status)
		return nil
	}

	media, err := j.pm.ListByPostID(ctx, postID)
	if err != nil {
		return err
	}
	if len(media) == 0 {
		log.Printf("Post %d has no media", postID)
		return j.pr.UpdatePostStatus(ctx, models.PostStatusFailed, postID)
	}

	if err := j.pr.UpdatePostStatus(ctx, models.PostStatusPublishing, postID); err != nil {
		return err
	}
	log.Printf("Post %d (%d media, %v) handed off for publishing", postID, len(media), post.Platforms)
	return nil
}
