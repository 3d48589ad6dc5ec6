// Package server wires the HTTP transport: middleware, the GraphQL endpoint
// and health checks.
package server

import (
	"context"
	"fmt"
	"time"

	"chirp/internal/auth"
	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/graph"
	"chirp/internal/media"
	"chirp/internal/middleware"
	"chirp/internal/observability"
	"chirp/internal/repository"
	"chirp/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/graphql-go/graphql"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	tokens         *auth.TokenService
	promMiddleware *fiberprometheus.FiberPrometheus
	schema         graphql.Schema
}

// NewServer creates a server instance, connecting the database and, when a
// bucket is configured, the media store.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	var store media.Store
	if cfg.MediaBucket != "" {
		s3Store, err := media.NewS3Store(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("media store setup failed: %w", err)
		}
		store = media.NewRetryStore(s3Store, 3, 200*time.Millisecond)
	}

	return NewServerWithDeps(cfg, db, store)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the database and
// media store itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, store media.Store) (*Server, error) {
	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)
	tweets := repository.NewTweetRepository(db)
	tokens := auth.NewTokenService(cfg.JWTSecret)

	authSvc := service.NewAuthService(users, tokens, store)
	userSvc := service.NewUserService(users, follows, store)
	tweetSvc := service.NewTweetService(tweets, follows, users, store)

	schema, err := graph.NewSchema(graph.NewResolver(authSvc, userSvc, tweetSvc))
	if err != nil {
		return nil, fmt.Errorf("schema setup failed: %w", err)
	}

	return &Server{
		config:         cfg,
		db:             db,
		tokens:         tokens,
		promMiddleware: observability.InitMetrics("chirp-api"),
		schema:         schema,
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and viewer ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	// Optional token extraction; the per-operation gate decides whether a
	// viewer is required.
	app.Use(middleware.ViewerExtractor(s.tokens))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Post("/graphql", s.GraphQL)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck reports whether the database connection is usable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "readiness check failed", "error", err.Error())
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
