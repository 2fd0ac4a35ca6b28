// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"time"

	"inkwell/internal/config"
	"inkwell/internal/middleware"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/store"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	redis          *redis.Client
	store          store.Store
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	postService    *service.PostService
	commentService *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	client, err := store.Connect(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, client), nil
}

// NewServerWithDeps creates a Server using an already-connected Redis client.
// Use this in tests or when a bootstrap layer establishes the store.
func NewServerWithDeps(cfg *config.Config, redisClient *redis.Client) *Server {
	middleware.InitMiddleware(cfg)

	st := store.New(redisClient)
	index := repository.NewIndexMaintainer(st)
	userRepo := repository.NewUserRepository(st)
	postRepo := repository.NewPostRepository(st, index)
	commentRepo := repository.NewCommentRepository(st, index)

	server := &Server{
		config:         cfg,
		redis:          redisClient,
		store:          st,
		promMiddleware: middleware.InitMetrics("inkwell-api"),
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
	}
	server.postService = service.NewPostService(postRepo, userRepo)
	server.commentService = service.NewCommentService(commentRepo, postRepo, userRepo)
	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for log correlation
	app.Use(requestid.New())

	// OpenTelemetry span per request
	app.Use(middleware.TracingMiddleware())

	// Propagate request ID into the request context for logging
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
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
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Post routes
	posts := api.Group("/posts")
	// Public reads; OptionalAuth personalizes is_liked / is_bookmarked
	posts.Get("/", middleware.OptionalAuth, s.ListPosts)
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id", middleware.OptionalAuth, s.GetPost)
	// Protected post routes
	posts.Post("/", middleware.AuthRequired, s.CreatePost)
	posts.Put("/:id", middleware.AuthRequired, s.UpdatePost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)
	posts.Post("/:id/comments", middleware.AuthRequired, s.CreateComment)
	posts.Put("/:id/like", middleware.AuthRequired, s.SetLike)
	posts.Put("/:id/bookmark", middleware.AuthRequired, s.SetBookmark)

	// User routes
	users := api.Group("/users")
	users.Get("/me", middleware.AuthRequired, s.GetMyProfile)
	users.Get("/:id", s.GetUserProfile)
}

// HealthCheck reports liveness and store reachability.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	storeStatus := "ok"
	if err := s.redis.Ping(c.UserContext()).Err(); err != nil {
		storeStatus = "unavailable"
	}
	return c.JSON(fiber.Map{
		"status": "ok",
		"store":  storeStatus,
	})
}
