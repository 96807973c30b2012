package main

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
	"online-panthi/pkg/queue"
	"online-panthi/pkg/s3"
	"online-panthi/services/moderation/handlers"
	"online-panthi/services/moderation/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "online-panthi/services/moderation/docs" // Swagger docs
)

// @title           Moderation Service API
// @version         1.0
// @description     Admin gate, community moderation and contact messages
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@onlinepanthi.lk

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8004
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if cfg.AdminSecret == "" {
		log.Warn("ADMIN_SECRET is not set, admin unlock is disabled")
	}

	jwtService := jwt.NewService(cfg.JWTSecret)

	var invalidator handlers.CacheInvalidator
	var revocations []middleware.RevocationChecker
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (feed cache will expire on its own)", err)
		redisClient = nil
	} else {
		invalidator = redisClient
		revocations = append(revocations, jwt.NewDenylist(redisClient))
	}

	var publisher queue.Publisher
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without moderation events)", err)
		queueClient = nil
	} else {
		publisher = queueClient
	}

	var store handlers.ObjectRemover
	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to initialize S3 client: %v (images of removed posts are kept)", err)
	} else {
		store = s3Client
	}

	moderationRepo := repository.NewModerationRepository(db)
	moderationHandler := handlers.NewModerationHandler(moderationRepo, jwtService, cfg.AdminSecret, publisher, invalidator, log)
	eventHandler := handlers.NewEventHandler(store, invalidator, log)
	statsHandler := handlers.NewStatsHandler(repository.NewStatsRepository(db), redisClient, log)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if queueClient != nil {
		if err := queueClient.ConsumeModerationEvents(consumerCtx, eventHandler.Handle); err != nil {
			log.Error("Failed to start moderation consumer: %v", err)
		}
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.AuthMiddleware(jwtService, revocations...)

	api := r.Group("/api/v1")
	{
		contact := api.Group("/contact")
		unlock := api.Group("/admin/unlock", auth)
		if redisClient != nil {
			counter := middleware.NewRedisRateCounter(redisClient)
			contact.Use(middleware.RateLimitMiddleware(counter, "contact", 5, time.Minute))
			unlock.Use(middleware.RateLimitMiddleware(counter, "admin_unlock", 10, time.Minute))
		}
		contact.POST("", moderationHandler.SubmitContact)
		unlock.POST("", moderationHandler.Unlock)

		admin := api.Group("/admin", auth, middleware.RequireRole(jwt.RoleAdmin))
		{
			admin.GET("/posts/reported", moderationHandler.GetReportedPosts)
			admin.POST("/posts/:id/reset-reports", moderationHandler.ResetReports)
			admin.DELETE("/posts/:id", moderationHandler.DeletePost)
			admin.GET("/feedback", moderationHandler.GetFeedback)
			admin.GET("/stats", statsHandler.GetOverview)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Moderation service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down moderation service...")

	stopConsumer()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	if queueClient != nil {
		queueClient.Close()
	}

	log.Info("Moderation service exited")
}
