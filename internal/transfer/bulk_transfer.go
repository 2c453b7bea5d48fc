package transfer

import "github.com/maheshrc27/postflow/internal/models"

// DraftResponse is returned by every draft endpoint. State is only set when
// a draft is fetched.
type DraftResponse struct {
	DraftID string              `json:"draft_id"`
	Version int                 `json:"version"`
	State   *models.WizardState `json:"state,omitempty"`
}

type BestTimesRequest struct {
	Platforms []string `json:"platforms"`
	// Date is a calendar date, 2006-01-02.
	Date     string `json:"date"`
	Timezone string `json:"timezone,omitempty"`
}

type BestTimesResponse struct {
	Slots []models.BestTimeSlot `json:"slots"`
}

type CaptionResponse struct {
	Caption string `json:"caption"`
}

type HashtagsResponse struct {
	Hashtags []string `json:"hashtags"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
