package httpapi

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
)

// sessionCookie is the name of the HttpOnly cookie carrying the opaque
// session token.
const sessionCookie = "racelog_session"

// requireAuth resolves the session cookie to a user id and stores it in
// the request locals for downstream handlers.
func (s *Server) requireAuth(c fiber.Ctx) error {
	token := c.Cookies(sessionCookie)
	userID, err := s.sessions.Verify(token)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authenticated",
		})
	}
	c.Locals("userID", userID)
	return c.Next()
}

func ownerID(c fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}
