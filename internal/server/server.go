// Package server contains the HTTP and WebSocket surface of the marketplace API.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	_ "skyhub/docs" // swagger docs
	"skyhub/internal/auth"
	"skyhub/internal/cache"
	"skyhub/internal/config"
	"skyhub/internal/database"
	"skyhub/internal/featureflags"
	"skyhub/internal/middleware"
	"skyhub/internal/models"
	"skyhub/internal/notifications"
	"skyhub/internal/repository"
	"skyhub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	authLimit  = 5
	authWindow = 15 * time.Minute
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	tokens         *auth.TokenManager
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	featureFlags   *featureflags.Manager
	images         *service.ImageProcessor

	authService     *service.AuthService
	userService     *service.UserService
	droneService    *service.DroneService
	messageService  *service.MessageService
	orderService    *service.OrderService
	paymentService  *service.PaymentService
	forumService    *service.ForumService
	reactionService *service.ReactionService
}

// NewServer connects to the database and Redis, then wires the server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil: caching, revocation and realtime delivery are then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("server requires config and database")
	}

	userRepo := repository.NewUserRepository(db)
	droneRepo := repository.NewDroneRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	forumRepo := repository.NewForumRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("skyhub-api"),
		tokens:         auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour, redisClient),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		images:         service.NewImageProcessor(cfg),
	}

	var publisher service.EventPublisher
	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
		s.hub = notifications.NewHub()
		publisher = s.notifier
	}

	s.authService = service.NewAuthService(userRepo, s.tokens)
	s.userService = service.NewUserService(userRepo, droneRepo, favoriteRepo, s.featureFlags)
	s.droneService = service.NewDroneService(droneRepo, repository.NewReviewRepository(db), userRepo, s.images)
	s.messageService = service.NewMessageService(repository.NewMessageRepository(db), userRepo, publisher)
	s.orderService = service.NewOrderService(orderRepo, droneRepo, s.featureFlags)
	s.paymentService = service.NewPaymentService(repository.NewPaymentRepository(db), orderRepo)
	s.forumService = service.NewForumService(forumRepo)
	s.reactionService = service.NewReactionService(repository.NewReactionRepository(db), forumRepo)

	return s, nil
}

// NewApp builds a Fiber app with the shared error handler.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   "Skyhub API",
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Static(service.MediaPrefix, s.images.UploadDir(), fiber.Static{
		MaxAge: 86400,
	})

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Skyhub Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", middleware.RateLimit(s.redis, authLimit, authWindow, "signup"), s.Signup)
	authRoutes.Post("/login", middleware.RateLimit(s.redis, authLimit, authWindow, "login"), s.Login)
	authRoutes.Post("/logout", s.AuthRequired(), s.Logout)

	// Public reads
	publicUsers := api.Group("/users")
	publicUsers.Get("/", s.ListUsers)
	publicUsers.Get("/:id/favorites", s.ListFavorites)
	publicUsers.Get("/:id/drones", s.ListSellerDrones)
	publicUsers.Get("/:id", s.GetUser)

	publicDrones := api.Group("/drones")
	publicDrones.Get("/", s.ListDrones)
	publicDrones.Get("/price", s.ListDronesByPrice)
	publicDrones.Get("/category/:category", s.ListDronesByCategory)
	publicDrones.Get("/legacy/:legacyId", s.GetDroneByLegacyID)
	publicDrones.Get("/:id", s.GetDrone)

	publicForum := api.Group("/forum")
	publicForum.Get("/", s.ListForumEntries)
	publicForum.Get("/reactions/count", s.CountReactions)
	publicForum.Get("/reactions/:postId", s.ListReactions)
	publicForum.Get("/:id", s.GetForumEntry)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	users := protected.Group("/users")
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)
	users.Post("/:id/favorites", s.AddFavorite)
	users.Delete("/:id/favorites/:droneId", s.RemoveFavorite)

	drones := protected.Group("/drones")
	drones.Post("/", s.CreateDrone)
	drones.Post("/:id/review", s.AddReview)
	drones.Post("/:id/images", middleware.RateLimit(s.redis, 20, time.Minute, "drone_image"), s.UploadDroneImage)
	drones.Put("/:id", s.UpdateDrone)
	drones.Delete("/:id", s.DeleteDrone)

	messages := protected.Group("/messages")
	messages.Post("/", middleware.RateLimit(s.redis, 30, time.Minute, "send_message"), s.SendMessage)
	messages.Get("/:contactId", s.GetConversation)

	orders := protected.Group("/orders")
	orders.Post("/", s.CreateOrder)
	orders.Get("/", s.ListOrders)
	orders.Patch("/:id/status", s.UpdateOrderStatus)

	payments := protected.Group("/payments")
	payments.Post("/", s.CreatePayment)
	payments.Get("/", s.ListPayments)
	payments.Patch("/:id/status", s.UpdatePaymentStatus)

	forum := protected.Group("/forum")
	forum.Post("/reactions", s.AddReaction)
	forum.Post("/", s.CreateForumEntry)
	forum.Put("/:id", s.UpdateForumEntry)
	forum.Delete("/:id", s.DeleteForumEntry)

	protected.Get("/ws", s.WebsocketHandler())

	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports 503 when the database or a configured Redis is unreachable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired verifies the bearer token and stores the caller's ID in
// c.Locals("userID") and the user context.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		// browsers cannot set headers on WebSocket upgrades
		if tokenString == "" && strings.HasPrefix(c.Path(), "/api/ws") {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Authorization required"))
		}

		claims, err := s.tokens.Verify(c.UserContext(), tokenString)
		if err != nil {
			msg := "Invalid or expired token"
			if err == auth.ErrTokenRevoked {
				msg = "Token has been revoked"
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError(msg))
		}
		userID, err := claims.UserID()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Invalid user ID in token"))
		}

		c.Locals("userID", userID)
		c.Locals("claims", claims)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), userID))
		return c.Next()
	}
}

// AdminRequired rejects non-admin callers with 403. Place it after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Authorization required"))
		}
		user, err := s.userService.Get(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, mapServiceError(err), err)
		}
		if !user.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// Start wires the notification hub and listens on the configured port.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := NewApp()
	s.app = app
	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.notifier != nil && s.hub != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start %s wiring: %v", s.hub.Name(), err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			log.Printf("error shutting down %s: %v", s.hub.Name(), err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
