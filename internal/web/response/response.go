// Package response renders the uniform JSON envelope of the API.
package response

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mineralhub/mineralhub/internal/validation"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Meta    *Meta             `json:"meta,omitempty"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Errors  validation.Errors `json:"errors,omitempty"`
	Code    string            `json:"code,omitempty"`
	Setting string            `json:"setting,omitempty"`
}

// Meta carries pagination details of list responses.
type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

// NewMeta computes the last page from total and perPage.
func NewMeta(total int64, page, perPage int) *Meta {
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}

	return &Meta{Total: total, Page: page, PerPage: perPage, LastPage: last}
}

// OK responds 200 with data.
func OK(c *fiber.Ctx, data any, message string) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Data: data, Message: message})
}

// Created responds 201 with data.
func Created(c *fiber.Ctx, data any, message string) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data, Message: message})
}

// Paginated responds 200 with data and pagination meta.
func Paginated(c *fiber.Ctx, data any, meta *Meta) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Data: data, Meta: meta})
}

// Fail responds with status, a message and an optional error detail.
func Fail(c *fiber.Ctx, status int, message, detail string) error {
	return c.Status(status).JSON(Envelope{Message: message, Error: detail})
}

// Invalid responds 422 with per-field messages.
func Invalid(c *fiber.Ctx, errs validation.Errors) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(Envelope{
		Message: "The given data was invalid.",
		Errors:  errs,
	})
}

// BadBody responds 400 for an unparsable request body.
func BadBody(c *fiber.Ctx, err error) error {
	return Fail(c, fiber.StatusBadRequest, "Malformed request body.", err.Error())
}

// NotFound responds 404.
func NotFound(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusNotFound, message, "")
}

// ServerError responds 500 without leaking err.
func ServerError(c *fiber.Ctx) error {
	return Fail(c, fiber.StatusInternalServerError, "Internal Server Error", "")
}

// WantsJSON reports whether the caller expects a JSON body: the Accept header mentions
// json or the request is an XMLHttpRequest.
func WantsJSON(c *fiber.Ctx) bool {
	if strings.Contains(strings.ToLower(c.Get(fiber.HeaderAccept)), "json") {
		return true
	}

	return c.Get(fiber.HeaderXRequestedWith) == "XMLHttpRequest"
}
