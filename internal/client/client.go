// Package client talks to the bulk API on behalf of a wizard session. It
// implements the upload, draft store, best-time, suggestion and submission
// collaborators.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/maheshrc27/postflow/internal/autosave"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/schedule"
	"github.com/maheshrc27/postflow/internal/transfer"
	"github.com/maheshrc27/postflow/internal/wizard"
)

var (
	_ wizard.Uploader  = (*Client)(nil)
	_ wizard.Suggester = (*Client)(nil)
	_ wizard.Submitter = (*Client)(nil)
	_ autosave.Store   = (*Client)(nil)
	_ schedule.Oracle  = (*Client)(nil)
)

const defaultTimeout = 60 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	rc      *resty.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.rc = resty.NewWithClient(c.http).
		SetBaseURL(c.baseURL).
		SetHeader("Accept", "application/json")
	if c.token != "" {
		c.rc.SetAuthToken(c.token)
	}
	return c
}

func (c *Client) Upload(ctx context.Context, name string, data []byte) (models.MediaAsset, error) {
	var asset models.MediaAsset
	req := c.request(ctx, &asset).
		SetFileReader("file", name, bytes.NewReader(data))
	err := c.send(req, http.MethodPost, "/api/bulk/uploads")
	return asset, models.NewCollaboratorError("upload", err)
}

func (c *Client) CreateDraft(ctx context.Context, state models.WizardState) (string, error) {
	var resp transfer.DraftResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/bulk/drafts", state, &resp); err != nil {
		return "", models.NewCollaboratorError("create draft", err)
	}
	if resp.DraftID == "" {
		return "", models.NewCollaboratorError("create draft", errors.New("response carries no draft id"))
	}
	return resp.DraftID, nil
}

func (c *Client) UpdateDraft(ctx context.Context, draftID string, state models.WizardState) error {
	var resp transfer.DraftResponse
	err := c.doJSON(ctx, http.MethodPut, "/api/bulk/drafts/"+draftID, state, &resp)
	return models.NewCollaboratorError("update draft", err)
}

// GetDraft fetches a stored draft so a wizard can be resumed.
func (c *Client) GetDraft(ctx context.Context, draftID string) (*models.WizardState, error) {
	var resp transfer.DraftResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/bulk/drafts/"+draftID, nil, &resp); err != nil {
		return nil, models.NewCollaboratorError("get draft", err)
	}
	if resp.State == nil {
		return nil, models.NewCollaboratorError("get draft", fmt.Errorf("draft %s has no state", draftID))
	}
	resp.State.DraftID = resp.DraftID
	return resp.State, nil
}

func (c *Client) BestTimes(ctx context.Context, platforms []string, date time.Time) ([]models.BestTimeSlot, error) {
	req := transfer.BestTimesRequest{
		Platforms: platforms,
		Date:      date.Format("2006-01-02"),
	}
	if loc := date.Location(); loc != time.Local {
		req.Timezone = loc.String()
	}
	var resp transfer.BestTimesResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/bulk/best-times", req, &resp); err != nil {
		return nil, models.NewCollaboratorError("best times", err)
	}
	return resp.Slots, nil
}

func (c *Client) SuggestCaption(ctx context.Context, req models.CaptionRequest) (string, error) {
	var resp transfer.CaptionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/bulk/captions/suggest", req, &resp); err != nil {
		return "", models.NewCollaboratorError("suggest caption", err)
	}
	return resp.Caption, nil
}

func (c *Client) SuggestHashtags(ctx context.Context, req models.CaptionRequest) ([]string, error) {
	var resp transfer.HashtagsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/bulk/captions/hashtags", req, &resp); err != nil {
		return nil, models.NewCollaboratorError("suggest hashtags", err)
	}
	return resp.Hashtags, nil
}

func (c *Client) SubmitBulk(ctx context.Context, sub models.BulkSubmission) (*models.BulkSubmissionResult, error) {
	var resp models.BulkSubmissionResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/bulk/submit", sub, &resp); err != nil {
		return nil, models.NewCollaboratorError("submit", err)
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	req := c.request(ctx, out)
	if in != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(in)
	}
	return c.send(req, method, path)
}

func (c *Client) request(ctx context.Context, out any) *resty.Request {
	req := c.rc.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetError(&transfer.ErrorResponse{})
	if out != nil {
		req.SetResult(out)
	}
	return req
}

func (c *Client) send(req *resty.Request, method, path string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if resp.IsSuccess() {
		return nil
	}

	msg := strings.TrimSpace(resp.String())
	if errResp, ok := resp.Error().(*transfer.ErrorResponse); ok && errResp.Error != "" {
		msg = errResp.Error
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: msg}
}
