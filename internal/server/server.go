package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"authd/internal/config"
	"authd/internal/handler"
	"authd/internal/middleware"
	"authd/internal/repository"
	"authd/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	log    *logrus.Logger
	logger *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, log *logrus.Logger, logger *zap.Logger) *Server {
	router := gin.Default()

	// Initialize server with DB, config and loggers
	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		log:    log,
		logger: logger,
	}

	// Setup routes
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Initialize Auth components
	userRepo := repository.NewUserRepository(s.db, s.log)
	authService := service.NewAuthService(userRepo, []byte(s.cfg.JWTSecret), s.cfg.TokenTTL, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.log)

	s.router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          time.Hour,
	}))

	// Health check routes
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Server is running",
		})
	})
	s.router.GET("/db-health", func(c *gin.Context) {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Database connection failed: " + err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Database connected",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(authService, s.logger))
	{
		authRequired.GET("/me", authHandler.Me)
	}
}

// Run starts the HTTP server and shuts it down gracefully when ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("Server shutdown failed: %v", err)
		}
	}()

	s.log.Infof("Server starting on %s...", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
