package handlers

import (
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/media"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/service"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type BulkHandler struct {
	us       service.UploadService
	ds       service.DraftService
	bt       service.BestTimeService
	cs       service.CaptionService
	bs       service.BulkService
	maxBytes int64
}

func NewBulkHandler(
	us service.UploadService,
	ds service.DraftService,
	bt service.BestTimeService,
	cs service.CaptionService,
	bs service.BulkService,
	maxBytes int64) *BulkHandler {
	if maxBytes <= 0 {
		maxBytes = media.DefaultMaxBytes
	}
	return &BulkHandler{us: us, ds: ds, bt: bt, cs: cs, bs: bs, maxBytes: maxBytes}
}

func (h *BulkHandler) Upload(c *fiber.Ctx) error {
	userID := GetUserID(c)

	fh, err := c.FormFile("file")
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file selected",
		})
	}
	if fh.Size > h.maxBytes {
		return sendError(c, media.ErrFileTooLarge)
	}

	f, err := fh.Open()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read file",
		})
	}

	asset, err := h.us.Upload(c.Context(), userID, fh.Filename, data)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(asset)
}

func (h *BulkHandler) CreateDraft(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var state models.WizardState
	if err := c.BodyParser(&state); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	draft, err := h.ds.Create(c.Context(), userID, state)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(transfer.DraftResponse{
		DraftID: draft.ID,
		Version: draft.Version,
	})
}

func (h *BulkHandler) UpdateDraft(c *fiber.Ctx) error {
	userID := GetUserID(c)
	draftID := c.Params("id")

	var state models.WizardState
	if err := c.BodyParser(&state); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	version, err := h.ds.Update(c.Context(), userID, draftID, state)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(transfer.DraftResponse{DraftID: draftID, Version: version})
}

func (h *BulkHandler) GetDraft(c *fiber.Ctx) error {
	userID := GetUserID(c)
	draftID := c.Params("id")

	state, version, err := h.ds.Get(c.Context(), userID, draftID)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(transfer.DraftResponse{DraftID: draftID, Version: version, State: state})
}

func (h *BulkHandler) BestTimes(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.BestTimesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	loc := time.UTC
	if req.Timezone != "" {
		l, err := time.LoadLocation(req.Timezone)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown timezone",
			})
		}
		loc = l
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Date must be in YYYY-MM-DD format",
		})
	}

	slots, err := h.bt.BestTimes(c.Context(), userID, req.Platforms, date)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(transfer.BestTimesResponse{Slots: slots})
}

func (h *BulkHandler) SuggestCaption(c *fiber.Ctx) error {
	var req models.CaptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	caption, err := h.cs.SuggestCaption(c.Context(), req)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(transfer.CaptionResponse{Caption: caption})
}

func (h *BulkHandler) SuggestHashtags(c *fiber.Ctx) error {
	var req models.CaptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	tags, err := h.cs.SuggestHashtags(c.Context(), req)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(transfer.HashtagsResponse{Hashtags: tags})
}

func (h *BulkHandler) Submit(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var sub models.BulkSubmission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	res, err := h.bs.Submit(c.Context(), userID, &sub)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(res)
}

// RegisterRoutes mounts the bulk endpoints on an authenticated router.
func (h *BulkHandler) RegisterRoutes(r fiber.Router) {
	bulk := r.Group("/bulk")
	bulk.Post("/uploads", h.Upload)
	bulk.Post("/drafts", h.CreateDraft)
	bulk.Put("/drafts/:id", h.UpdateDraft)
	bulk.Get("/drafts/:id", h.GetDraft)
	bulk.Post("/best-times", h.BestTimes)
	bulk.Post("/captions/suggest", h.SuggestCaption)
	bulk.Post("/captions/hashtags", h.SuggestHashtags)
	bulk.Post("/submit", h.Submit)
}
