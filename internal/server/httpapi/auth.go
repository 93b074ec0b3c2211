package httpapi

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/dmitrijs2005/racelog/internal/server/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse is the API shape of an account; the password hash never
// leaves the server.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

func (s *Server) setSessionCookie(c fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) handleRegister(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	user, err := s.users.Register(c.Context(), req.Username, req.Password)
	if err != nil {
		return s.handleError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(toUserResponse(user))
}

func (s *Server) handleLogin(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	user, token, err := s.users.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return s.handleError(c, err)
	}
	s.setSessionCookie(c, token, time.Now().Add(s.sessions.TTL()))
	return c.JSON(toUserResponse(user))
}

func (s *Server) handleLogout(c fiber.Ctx) error {
	s.users.Logout(c.Context(), c.Cookies(sessionCookie))
	c.ClearCookie(sessionCookie)
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (s *Server) handleMe(c fiber.Ctx) error {
	user, err := s.users.Get(c.Context(), ownerID(c))
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(toUserResponse(user))
}

func (s *Server) handleChangePassword(c fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.users.ChangePassword(c.Context(), ownerID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return s.handleError(c, err)
	}
	c.ClearCookie(sessionCookie)
	return c.JSON(fiber.Map{"message": "password changed"})
}

func (s *Server) handleDeleteAccount(c fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.users.DeleteAccount(c.Context(), ownerID(c), req.Password); err != nil {
		return s.handleError(c, err)
	}
	c.ClearCookie(sessionCookie)
	return c.JSON(fiber.Map{"message": "account deleted"})
}
