package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/media"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/service"
)

func GetUserID(c *fiber.Ctx) int64 {
	raw, _ := c.Locals("user_id").(string)
	userID, _ := strconv.Atoi(raw)
	return int64(userID)
}

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrDraftNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, media.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, media.ErrUnsupportedType):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, media.ErrEmptyFile),
		errors.Is(err, service.ErrInvalidSubmission),
		errors.Is(err, models.ErrInvalidReference),
		errors.Is(err, models.ErrInvariantViolation),
		errors.Is(err, models.ErrInvalidConfig):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrCaptionsDisabled):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, models.ErrCollaboratorFailure):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		slog.Error(err.Error())
		return c.Status(status).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
