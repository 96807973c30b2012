package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"online-panthi/pkg/cache"
	"online-panthi/pkg/config"
	"online-panthi/pkg/database"
	"online-panthi/pkg/jwt"
	"online-panthi/pkg/logger"
	"online-panthi/pkg/middleware"
	authHTTP "online-panthi/services/auth/internal/controller/http"
	"online-panthi/services/auth/internal/repo/persistent"
	"online-panthi/services/auth/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "online-panthi/services/auth/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		// Without Redis sign-out cannot revoke tokens and there is no rate limiting
		log.Error("Failed to connect to redis: %v", err)
		redisClient = nil
	}

	jwtService := jwt.NewService(cfg.JWTSecret).WithTTL(time.Duration(cfg.JWTTTLHours) * time.Hour)

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		jwtService:  jwtService,
	}, nil
}

func (a *App) Run() error {
	userRepo := persistent.NewUserRepository(a.db)
	profileRepo := persistent.NewProfileRepository(a.db)

	var revoker usecase.TokenRevoker
	var revocations []middleware.RevocationChecker
	if a.redisClient != nil {
		denylist := jwt.NewDenylist(a.redisClient)
		revoker = denylist
		revocations = append(revocations, denylist)
	}

	authUseCase := usecase.NewAuthUseCase(userRepo, profileRepo, a.jwtService, revoker, a.log)
	authHandler := authHTTP.NewAuthHandler(authUseCase)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		public := api.Group("/auth")
		if a.redisClient != nil {
			// Slows down password guessing
			public.Use(middleware.RateLimitMiddleware(middleware.NewRedisRateCounter(a.redisClient), "auth", 20, time.Minute))
		}
		public.POST("/signup", authHandler.SignUp)
		public.POST("/signin", authHandler.SignIn)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService, revocations...))
		{
			protected.GET("/auth/session", authHandler.Session)
			protected.POST("/auth/signout", authHandler.SignOut)
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
		}
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Auth service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down auth service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	a.log.Info("Auth service exited")
	return nil
}
