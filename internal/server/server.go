package server

import (
	"backend-globetrotter/internal/auth"
	"backend-globetrotter/internal/catalog"
	"backend-globetrotter/internal/config"
	"backend-globetrotter/internal/media"
	"backend-globetrotter/internal/trip"
	"backend-globetrotter/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Views *view.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		Views: view.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	tripSvc := trip.NewService(s.DB, s.Views)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB), jwtMiddleware, s.Views)
	trip.RegisterRoutes(s.App.Group("/trips"), tripSvc, jwtMiddleware)
	trip.RegisterShareRoutes(s.App.Group("/share"), tripSvc)
	catalog.RegisterRoutes(s.App.Group("/catalog"), catalog.NewService(s.DB))
	media.RegisterRoutes(s.App.Group("/media"), media.NewService(s.DB, s.Cfg.MediaBaseURL), jwtMiddleware)
	view.RegisterRoutes(s.App.Group("/views"), s.Views)
}
