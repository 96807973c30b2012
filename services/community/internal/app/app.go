package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"online-panthi/pkg/config"
	"online-panthi/pkg/jwt"
	"online-panthi/pkg/logger"
	"online-panthi/pkg/middleware"
	"online-panthi/pkg/queue"
	communityHTTP "online-panthi/services/community/internal/controller/http"
	"online-panthi/services/community/internal/repo/cache"
	"online-panthi/services/community/internal/repo/persistent"
	"online-panthi/services/community/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "online-panthi/services/community/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	postRepo := persistent.NewPostRepository(db)

	feedCache := cache.NewNoopFeedCache()
	var revocations []middleware.RevocationChecker
	if redisClient != nil {
		feedCache = cache.NewRedisFeedCache(redisClient)
		revocations = append(revocations, jwt.NewDenylist(redisClient))
	}

	var publisher queue.Publisher
	if queueClient != nil {
		publisher = queueClient
	}

	communityUseCase := usecase.NewCommunityUseCase(postRepo, feedCache, publisher, cfg.ReportThreshold, log)
	communityHandler := communityHTTP.NewCommunityHandler(communityUseCase, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuthMiddleware(jwtService, revocations...))
	if redisClient != nil {
		api.Use(middleware.RateLimitMiddleware(middleware.NewRedisRateCounter(redisClient), "community", 100, time.Minute))
	}

	// Public routes
	api.GET("/posts", communityHandler.ListFeed)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService, revocations...))
	{
		protected.POST("/posts", communityHandler.CreatePost)
		protected.GET("/posts/interactions", communityHandler.GetInteractions)
		protected.GET("/posts/saved", communityHandler.ListSaved)
		protected.GET("/posts/activity", communityHandler.GetActivity)
		protected.PUT("/posts/:id/like", communityHandler.LikePost)
		protected.DELETE("/posts/:id/like", communityHandler.UnlikePost)
		protected.PUT("/posts/:id/save", communityHandler.SavePost)
		protected.DELETE("/posts/:id/save", communityHandler.UnsavePost)
		protected.POST("/posts/:id/report", communityHandler.ReportPost)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Community service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down community service...")

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

	log.Info("Community service exited")
}
