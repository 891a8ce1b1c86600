package server

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"

	"socialhub/internal/middleware"
	"socialhub/internal/models"
	"socialhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// normalizer is implemented by request bodies that fold aliases or trim
// fields before validation.
type normalizer interface {
	normalize()
}

// parseBody decodes the JSON body into dst and validates it against its
// `validate` tags. A missing required field is reported as missingMsg when
// one is given. The returned error is always an *models.AppError.
func parseBody(c *fiber.Ctx, dst any, missingMsg string) error {
	if err := c.BodyParser(dst); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	if err := validation.Struct(dst); err != nil {
		var fe *validation.FieldError
		if !errors.As(err, &fe) {
			return models.NewValidationError("Invalid request body")
		}
		if fe.IsMissing() && missingMsg != "" {
			return models.NewValidationError(missingMsg)
		}
		return models.NewValidationError(fe.Error())
	}
	return nil
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param, label string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+label))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the id stored by middleware.AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// mapServiceError maps an AppError code onto an HTTP status.
func mapServiceError(err error) int {
	switch models.AsAppError(err).Code {
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as a JSON error. Internal errors are logged with
// their cause; the client only sees a generic message.
func respondError(c *fiber.Ctx, err error) error {
	status := mapServiceError(err)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, err)
}

// readUpload returns the named multipart file. Missing parts and empty file
// names come back as validation errors.
func readUpload(c *fiber.Ctx, field string) (*multipart.FileHeader, []byte, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, nil, models.NewValidationError("No file part")
	}
	if file.Filename == "" {
		return nil, nil, models.NewValidationError("No selected file")
	}

	src, err := file.Open()
	if err != nil {
		return nil, nil, models.NewValidationError("Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, nil, models.NewValidationError("Unable to read uploaded file")
	}
	return file, content, nil
}
