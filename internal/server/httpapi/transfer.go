package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/dmitrijs2005/racelog/internal/server/services"
)

type exportRequest struct {
	services.ExportSelection
	services.ExportFlags
}

func (s *Server) handleExport(c fiber.Ctx) error {
	var req exportRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	env, err := s.transfer.Export(c.Context(), ownerID(c), req.ExportSelection, req.ExportFlags)
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(env)
}

func (s *Server) handleImport(c fiber.Ctx) error {
	var req struct {
		Mode     services.ImportMode `json:"mode"`
		Envelope *services.Envelope  `json:"envelope"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	summary, err := s.transfer.Import(c.Context(), ownerID(c), req.Envelope, req.Mode)
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(summary)
}

func (s *Server) handleBulkDelete(c fiber.Ctx) error {
	var req struct {
		CarIDs   []string `json:"carIds"`
		TrackIDs []string `json:"trackIds"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	counts, err := s.bulk.Run(c.Context(), ownerID(c), req.CarIDs, req.TrackIDs)
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(counts)
}

// handleTrackImage downloads an external track image to local storage and
// rewrites the track's imageUrl. A failed download leaves the stored URL
// untouched and reports downloaded=false instead of erroring the request.
func (s *Server) handleTrackImage(c fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.Bind().Body(&req); err != nil || req.URL == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	owner := ownerID(c)
	trackID := c.Params("id")
	track, err := s.repos.Tracks.Get(owner, trackID)
	if err != nil {
		return s.handleError(c, err)
	}

	localURL, err := s.images.Download(c.Context(), trackID, req.URL)
	if err != nil {
		return c.JSON(fiber.Map{"downloaded": false, "imageUrl": track.ImageURL})
	}

	raw, err := json.Marshal(localURL)
	if err != nil {
		return s.handleError(c, err)
	}
	updated, err := s.repos.Tracks.Update(owner, trackID, map[string]json.RawMessage{"imageUrl": raw})
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(fiber.Map{"downloaded": true, "imageUrl": updated.ImageURL})
}
