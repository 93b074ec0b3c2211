// Package httpapi exposes the repositories and services over a
// session-cookie-authenticated REST API, plus static serving for the
// front-end and locally stored track images.
package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"

	"github.com/dmitrijs2005/racelog/internal/logging"
	"github.com/dmitrijs2005/racelog/internal/server/auth"
	"github.com/dmitrijs2005/racelog/internal/server/models"
	"github.com/dmitrijs2005/racelog/internal/server/repositories"
	"github.com/dmitrijs2005/racelog/internal/server/services"
)

type Server struct {
	app       *fiber.App
	addr      string
	staticDir string
	logger    logging.Logger

	repos       *repositories.Manager
	sessions    *auth.SessionManager
	users       *services.UserService
	cascade     *services.CascadeEngine
	cornerNotes *services.CornerNoteResolver
	transfer    *services.Transfer
	bulk        *services.BulkDelete
	images      *services.ImageService
}

func NewServer(
	addr, staticDir string,
	logger logging.Logger,
	repos *repositories.Manager,
	sessions *auth.SessionManager,
	users *services.UserService,
	cascade *services.CascadeEngine,
	cornerNotes *services.CornerNoteResolver,
	transfer *services.Transfer,
	bulk *services.BulkDelete,
	images *services.ImageService,
) *Server {
	s := &Server{
		app:         fiber.New(),
		addr:        addr,
		staticDir:   staticDir,
		logger:      logger.With("module", "httpapi"),
		repos:       repos,
		sessions:    sessions,
		users:       users,
		cascade:     cascade,
		cornerNotes: cornerNotes,
		transfer:    transfer,
		bulk:        bulk,
		images:      images,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	authGrp := api.Group("/auth")
	authGrp.Post("/register", s.handleRegister)
	authGrp.Post("/login", s.handleLogin)
	authGrp.Post("/logout", s.requireAuth, s.handleLogout)
	authGrp.Get("/me", s.requireAuth, s.handleMe)
	authGrp.Put("/password", s.requireAuth, s.handleChangePassword)
	authGrp.Delete("/account", s.requireAuth, s.handleDeleteAccount)

	registerEntityRoutes(s, api, "/cars", s.repos.Cars, entityOptions[*models.Car]{
		onDelete: s.cascade.CarDeleted,
	})
	registerEntityRoutes(s, api, "/tracks", s.repos.Tracks, entityOptions[*models.Track]{
		onDelete: s.cascade.TrackDeleted,
	})
	registerEntityRoutes(s, api, "/setups", s.repos.Setups, entityOptions[*models.Setup]{
		filters: func(c fiber.Ctx) []func(*models.Setup) bool {
			var fs []func(*models.Setup) bool
			if carID := c.Query("carId"); carID != "" {
				fs = append(fs, func(x *models.Setup) bool { return x.CarID != nil && *x.CarID == carID })
			}
			if trackID := c.Query("trackId"); trackID != "" {
				fs = append(fs, func(x *models.Setup) bool { return x.TrackID != nil && *x.TrackID == trackID })
			}
			return fs
		},
	})
	registerEntityRoutes(s, api, "/sessions", s.repos.Sessions, entityOptions[*models.Session]{
		filters: func(c fiber.Ctx) []func(*models.Session) bool {
			var fs []func(*models.Session) bool
			if carID := c.Query("carId"); carID != "" {
				fs = append(fs, func(x *models.Session) bool { return x.CarID != nil && *x.CarID == carID })
			}
			if trackID := c.Query("trackId"); trackID != "" {
				fs = append(fs, func(x *models.Session) bool { return x.TrackID != nil && *x.TrackID == trackID })
			}
			return fs
		},
		onDelete: s.cascade.SessionDeleted,
	})
	registerEntityRoutes(s, api, "/track-notes", s.repos.TrackNotes, entityOptions[*models.TrackNote]{
		filters: func(c fiber.Ctx) []func(*models.TrackNote) bool {
			var fs []func(*models.TrackNote) bool
			if carID := c.Query("carId"); carID != "" {
				fs = append(fs, func(x *models.TrackNote) bool { return x.CarID != nil && *x.CarID == carID })
			}
			if trackID := c.Query("trackId"); trackID != "" {
				fs = append(fs, func(x *models.TrackNote) bool { return x.TrackID != nil && *x.TrackID == trackID })
			}
			return fs
		},
	})
	registerEntityRoutes(s, api, "/maintenance", s.repos.Maintenance, entityOptions[*models.MaintenanceTask]{
		filters: func(c fiber.Ctx) []func(*models.MaintenanceTask) bool {
			var fs []func(*models.MaintenanceTask) bool
			if carID := c.Query("carId"); carID != "" {
				fs = append(fs, func(x *models.MaintenanceTask) bool { return x.CarID != nil && *x.CarID == carID })
			}
			return fs
		},
	})

	// Corner notes write through the upsert resolver, not plain create.
	api.Get("/corner-notes", s.requireAuth, s.handleListCornerNotes)
	api.Post("/corner-notes", s.requireAuth, s.handleUpsertCornerNote)
	api.Delete("/corner-notes/:id", s.requireAuth, s.handleDeleteCornerNote)

	api.Post("/tracks/:id/image", s.requireAuth, s.handleTrackImage)
	api.Post("/export", s.requireAuth, s.handleExport)
	api.Post("/import", s.requireAuth, s.handleImport)
	api.Post("/bulk-delete", s.requireAuth, s.handleBulkDelete)

	s.app.Use("/images", static.New(s.images.Dir()))
	s.app.Use("/", static.New(s.staticDir))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "starting http server", "addr", s.addr)
	return s.app.Listen(s.addr, fiber.ListenConfig{
		GracefulContext:       ctx,
		DisableStartupMessage: true,
	})
}
