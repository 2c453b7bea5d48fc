// Package metrics holds the prometheus collectors for the bulk composer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postflow_bulk_uploads_total",
		Help: "Media uploads by outcome (accepted, rejected, failed).",
	}, []string{"outcome"})

	DraftSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postflow_bulk_draft_saves_total",
		Help: "Draft store writes by operation (create, update) and outcome.",
	}, []string{"op", "outcome"})

	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postflow_bulk_submissions_total",
		Help: "Bulk submissions by outcome.",
	}, []string{"outcome"})

	SubmittedPosts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postflow_bulk_submitted_posts_total",
		Help: "Posts accepted through bulk submissions.",
	})

	DraftsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postflow_bulk_drafts_pruned_total",
		Help: "Stale drafts removed by the cleanup job.",
	})
)

func Outcome(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
