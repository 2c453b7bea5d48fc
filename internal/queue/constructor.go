package queue

import (
	"github.com/maheshrc27/postflow/internal/repository"
)

// Queue handles publish tasks once their scheduled time arrives.
type Queue struct {
	pr repository.PostRepository
	pm repository.PostMediaRepository
}

func NewQueue(pr repository.PostRepository, pm repository.PostMediaRepository) *Queue {
	return &Queue{
		pr: pr,
		pm: pm,
	}
}

const TaskTypePublishPost = "bulk:publish_post"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
}
