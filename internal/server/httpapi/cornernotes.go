package httpapi

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/dmitrijs2005/racelog/internal/server/models"
)

func (s *Server) handleListCornerNotes(c fiber.Ctx) error {
	var filters []func(*models.CornerNote) bool
	if sessionID := c.Query("sessionId"); sessionID != "" {
		filters = append(filters, func(n *models.CornerNote) bool { return n.SessionID == sessionID })
	}
	notes, err := s.repos.CornerNotes.List(ownerID(c), filters...)
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(notes)
}

func (s *Server) handleUpsertCornerNote(c fiber.Ctx) error {
	var req struct {
		SessionID  string `json:"sessionId"`
		CornerName string `json:"cornerName"`
		Field      string `json:"field"`
		Value      string `json:"value"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	note, status, err := s.cornerNotes.Upsert(ownerID(c), req.SessionID, req.CornerName, req.Field, req.Value)
	if err != nil {
		return s.handleError(c, err)
	}
	httpStatus := http.StatusOK
	if status == "created" {
		httpStatus = http.StatusCreated
	}
	return c.Status(httpStatus).JSON(fiber.Map{"note": note, "status": status})
}

func (s *Server) handleDeleteCornerNote(c fiber.Ctx) error {
	if err := s.repos.CornerNotes.Delete(ownerID(c), c.Params("id")); err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
