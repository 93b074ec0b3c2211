package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/dmitrijs2005/racelog/internal/server/models"
	"github.com/dmitrijs2005/racelog/internal/server/repositories"
	"github.com/dmitrijs2005/racelog/internal/server/services"
)

// entityOptions customizes the generic CRUD routes: query-parameter
// filters for list, and the cascade hook fired after a successful delete.
type entityOptions[PT any] struct {
	filters  func(c fiber.Ctx) []func(PT) bool
	onDelete func(ctx context.Context, ownerID, id string) (services.CascadeCounts, error)
}

// registerEntityRoutes wires the standard five routes for one entity kind.
// Everything is owner-scoped through the session middleware; create and
// update bodies are raw JSON field maps so that explicit nulls survive
// into the partial-update merge.
func registerEntityRoutes[T any, PT interface {
	*T
	models.Entity
}](s *Server, grp fiber.Router, path string, repo *repositories.Repository[T, PT], opts entityOptions[PT]) {

	grp.Get(path, s.requireAuth, func(c fiber.Ctx) error {
		var filters []func(PT) bool
		if opts.filters != nil {
			filters = opts.filters(c)
		}
		items, err := repo.List(ownerID(c), filters...)
		if err != nil {
			return s.handleError(c, err)
		}
		return c.JSON(items)
	})

	grp.Get(path+"/:id", s.requireAuth, func(c fiber.Ctx) error {
		item, err := repo.Get(ownerID(c), c.Params("id"))
		if err != nil {
			return s.handleError(c, err)
		}
		return c.JSON(item)
	})

	grp.Post(path, s.requireAuth, func(c fiber.Ctx) error {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &fields); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		item, err := repo.Create(ownerID(c), fields)
		if err != nil {
			return s.handleError(c, err)
		}
		return c.Status(http.StatusCreated).JSON(item)
	})

	grp.Put(path+"/:id", s.requireAuth, func(c fiber.Ctx) error {
		var patch map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &patch); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		item, err := repo.Update(ownerID(c), c.Params("id"), patch)
		if err != nil {
			return s.handleError(c, err)
		}
		return c.JSON(item)
	})

	grp.Delete(path+"/:id", s.requireAuth, func(c fiber.Ctx) error {
		owner := ownerID(c)
		id := c.Params("id")
		if err := repo.Delete(owner, id); err != nil {
			return s.handleError(c, err)
		}
		result := fiber.Map{"deleted": true}
		if opts.onDelete != nil {
			counts, err := opts.onDelete(c.Context(), owner, id)
			if err != nil {
				return s.handleError(c, err)
			}
			result["cascade"] = counts
		}
		return c.JSON(result)
	})
}
