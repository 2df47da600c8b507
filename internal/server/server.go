package server

import (
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"

	"github.com/bagassaputradewa/Telegram-Bot/internal/bootstrap"
	"github.com/bagassaputradewa/Telegram-Bot/internal/config"
)

// Server exposes operational endpoints next to the bot: liveness and a
// small status view with the active-session count.
type Server struct {
	app *fiber.App
	cfg *config.Config
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	startedAt := time.Now()

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "ok",
			"uptime":          time.Since(startedAt).String(),
			"active_sessions": container.SessionService.ActiveSessions(c.Context()),
		})
	})

	return &Server{
		app: app,
		cfg: cfg,
	}
}

func (s *Server) Run() error {
	log.Printf("✅ Health server is running on http://localhost:%s", s.cfg.App.HealthPort)
	return s.app.Listen(":" + s.cfg.App.HealthPort)
}
