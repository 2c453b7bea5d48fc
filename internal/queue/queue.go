package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer schedules a publish task for a post.
type Enqueuer interface {
	EnqueuePost(ctx context.Context, payload PublishPostPayload, at time.Time) (string, error)
}

type asynqEnqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) Enqueuer {
	return &asynqEnqueuer{client: client}
}

// NewPublishTask builds the task for payload, to be processed at at.
func NewPublishTask(payload PublishPostPayload) (*asynq.Task, error) {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePublishPost, taskPayload, asynq.MaxRetry(3)), nil
}

func (e *asynqEnqueuer) EnqueuePost(ctx context.Context, payload PublishPostPayload, at time.Time) (string, error) {
	task, err := NewPublishTask(payload)
	if err != nil {
		return "", err
	}

	info, err := e.client.EnqueueContext(ctx, task, asynq.ProcessAt(at))
	if err != nil {
		return "", err
	}

	log.Printf("Task scheduled: %+v at %s", payload, at.Format(time.RFC3339))
	return info.ID, nil
}
