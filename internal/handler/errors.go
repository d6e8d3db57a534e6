package handler

import (
	"errors"
	"strconv"

	"erp-pdv-api/internal/service"
	"erp-pdv-api/pkg/jwt"
	"erp-pdv-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const (
	kindNotFound          = "not_found"
	kindInvalidRequest    = "invalid_request"
	kindInsufficientStock = "insufficient_stock"
	kindConflict          = "conflict"
	kindUnauthorized      = "unauthorized"
	kindInternal          = "internal"
)

// classify maps a service error to its HTTP status and kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound, kindNotFound
	case errors.Is(err, service.ErrInvalidRequest):
		return fiber.StatusBadRequest, kindInvalidRequest
	case errors.Is(err, service.ErrInsufficientStock):
		return fiber.StatusBadRequest, kindInsufficientStock
	case errors.Is(err, service.ErrConflict):
		return fiber.StatusConflict, kindConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive),
		errors.Is(err, service.ErrSessionReplaced),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrMissingToken):
		return fiber.StatusUnauthorized, kindUnauthorized
	}
	return fiber.StatusInternalServerError, kindInternal
}

// respondError writes the error body. Unexpected errors are logged and
// answered with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	status, kind := classify(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		logger.Error("%s %s", err, c.Method(), c.Path())
		msg = "Internal Server Error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg, "kind": kind})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg, "kind": kindInvalidRequest})
}

// ErrorHandler is installed on the fiber app for errors returned by handlers
// and middleware, including fiber's own 404 and 405.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		kind := kindInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			kind = kindNotFound
		case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
			kind = kindInvalidRequest
		case fiber.StatusUnauthorized:
			kind = kindUnauthorized
		}
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message, "kind": kind})
	}
	return respondError(c, err)
}

// paramID parses a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
