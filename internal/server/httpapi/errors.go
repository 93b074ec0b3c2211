package httpapi

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/dmitrijs2005/racelog/internal/common"
)

// statusFromError maps the core's typed errors to HTTP status codes.
// Not-found covers other users' records too, so existence never leaks.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrUsernameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(c fiber.Ctx, err error) error {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Context(), "request failed", "path", c.Path(), "error", err.Error())
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
