package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"github.com/rs/zerolog/log"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends the standard error body
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":     message,
		"status":    status,
		"ok":        false,
		"type":      errorType,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	})
}

// ErrorFrom maps any error to a response. Unexpected errors are logged
// and replaced with a generic message.
func ErrorFrom(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ErrorResponse(c, fe.Message, fe.Code, "http")
	}

	ce, ok := types.AsCustomError(err)
	if !ok {
		ce = types.UnexpectedError(err)
	}

	if ce.Kind == types.KindUnexpected {
		log.Error().
			Err(ce.Err).
			Str("method", c.Method()).
			Str("url", c.OriginalURL()).
			Msg("unexpected error")
	}

	body := fiber.Map{
		"error":     ce.Message,
		"status":    ce.Kind.Status(),
		"ok":        false,
		"type":      ce.Kind.String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	}
	if ce.Field != "" {
		body["field"] = ce.Field
	}
	return c.Status(ce.Kind.Status()).JSON(body)
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, types.KindNotFound.String())
}

// MessageResponse sends {message, ...extra}
func MessageResponse(c *fiber.Ctx, status int, message string, extra fiber.Map) error {
	body := fiber.Map{"message": message}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// Pagination is the navigation block of every list response
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Error     string `json:"error"`
	Status    int    `json:"status"`
	Ok        bool   `json:"ok"`
	Type      string `json:"type"`
	Field     string `json:"field,omitempty"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
}

// MessageResponseStruct defines the schema for bare acknowledgements
type MessageResponseStruct struct {
	Message string `json:"message"`
}
