package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"shop-admin/internal/config"
	"shop-admin/internal/imagehost"
	custommiddleware "shop-admin/internal/middleware"
	"shop-admin/internal/repository"
	"shop-admin/internal/service"
	"shop-admin/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))

	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 300,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit:api",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	productService := service.NewProductService(productRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo, productRepo)
	userService := service.NewUserService(userRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo)

	// Image hosting is optional and degrades to disabled when unconfigured
	var uploader imagehost.Uploader = imagehost.Disabled{}
	if cfg.Media.CloudName != "" && cfg.Media.APIKey != "" && cfg.Media.APISecret != "" {
		uploader = imagehost.New(cfg.Media.CloudName, cfg.Media.APIKey, cfg.Media.APISecret, cfg.Media.Folder)
	} else {
		logger.Warn("Image hosting credentials not configured, uploads disabled")
	}

	// Admin routes require a valid token with the admin role. Without a
	// configured secret there is no way to verify tokens, so the gate is a
	// passthrough and the deployment is expected to sit behind its own auth.
	adminOnly := passthrough
	if cfg.Auth.TokenSecret != "" {
		authMiddleware := custommiddleware.AuthMiddleware(cfg.Auth.TokenSecret, logger)
		requireAdmin := custommiddleware.RequireAdmin(logger)
		adminOnly = func(next http.Handler) http.Handler {
			return authMiddleware(requireAdmin(next))
		}
	} else {
		logger.Warn("AUTH_TOKEN_SECRET not set, admin routes are unprotected")
	}

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, uploader, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)
	userHandler := transport.NewUserHandler(userService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	uploadHandler := transport.NewUploadHandler(uploader, logger)

	// Register routes
	productHandler.RegisterRoutes(router, adminOnly)
	categoryHandler.RegisterRoutes(router, adminOnly)
	userHandler.RegisterRoutes(router, adminOnly)
	orderHandler.RegisterRoutes(router, adminOnly)
	uploadHandler.RegisterRoutes(router, adminOnly)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func passthrough(next http.Handler) http.Handler {
	return next
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
