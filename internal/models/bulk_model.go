package models

import "time"

type ScheduleStrategy string

const (
	StrategyIndividual ScheduleStrategy = "individual"
	StrategySpread     ScheduleStrategy = "spread"
	StrategyOptimal    ScheduleStrategy = "optimal"
)

// BulkPost is one entry of the bulk upload grouping. MediaIDs is the
// carousel slide order and is never empty while the post exists.
type BulkPost struct {
	MediaIDs    []string   `json:"media_ids"`
	Caption     string     `json:"caption"`
	Platforms   []string   `json:"platforms"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
}

// Clone returns a deep copy of the post.
func (p BulkPost) Clone() BulkPost {
	c := p
	c.MediaIDs = append([]string(nil), p.MediaIDs...)
	c.Platforms = append([]string(nil), p.Platforms...)
	if p.ScheduledAt != nil {
		t := *p.ScheduledAt
		c.ScheduledAt = &t
	}
	return c
}

// SpreadConfig drives the spread strategy. StartDate is a calendar date
// (2006-01-02) and Times are times of day (15:04) in Timezone.
type SpreadConfig struct {
	StartDate    string   `json:"start_date"`
	PostsPerDay  int      `json:"posts_per_day"`
	Times        []string `json:"times"`
	SkipWeekends bool     `json:"skip_weekends"`
	Timezone     string   `json:"timezone,omitempty"`
}

// WizardState is everything the bulk upload wizard persists in a draft.
type WizardState struct {
	Posts            []BulkPost            `json:"posts"`
	MediaRegistry    map[string]MediaAsset `json:"media_registry"`
	ScheduleStrategy ScheduleStrategy      `json:"schedule_strategy"`
	SpreadConfig     *SpreadConfig         `json:"spread_config,omitempty"`
	DraftID          string                `json:"draft_id,omitempty"`
}

// BulkSubmission is the single request sent when the user confirms the wizard.
type BulkSubmission struct {
	Posts            []BulkPost       `json:"posts"`
	ScheduleStrategy ScheduleStrategy `json:"schedule_strategy"`
	SpreadConfig     *SpreadConfig    `json:"spread_config,omitempty"`
	DraftID          string           `json:"draft_id,omitempty"`
}

type PostResult struct {
	Index       int       `json:"index"`
	PostID      int64     `json:"post_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	TaskID      string    `json:"task_id,omitempty"`
}

type BulkSubmissionResult struct {
	TotalPosts    int          `json:"total_posts"`
	PerPostResult []PostResult `json:"per_post_result"`
}

// BestTimeSlot is one ranked candidate returned by the optimal-time oracle.
type BestTimeSlot struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

type CaptionRequest struct {
	Caption   string   `json:"caption"`
	Platforms []string `json:"platforms"`
	Tone      string   `json:"tone,omitempty"`
}

type CaptionSuggestion struct {
	Caption  string   `json:"caption,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
}
