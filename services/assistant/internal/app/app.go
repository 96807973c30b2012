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
	assistantHTTP "online-panthi/services/assistant/internal/controller/http"
	"online-panthi/services/assistant/internal/repo/history"
	"online-panthi/services/assistant/internal/repo/webapi"
	"online-panthi/services/assistant/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "online-panthi/services/assistant/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, redisClient *redis.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	historyStore := history.NewMemoryStore()
	var revocations []middleware.RevocationChecker
	if redisClient != nil {
		historyStore = history.NewRedisStore(redisClient)
		revocations = append(revocations, jwt.NewDenylist(redisClient))
	}

	if cfg.MistralAPIKey == "" {
		log.Warn("MISTRAL_API_KEY is not set, the assistant will answer with a configuration notice")
	}
	mistral := webapi.NewMistralClient(cfg.MistralAPIKey, cfg.MistralAPIURL, cfg.MistralModel)

	assistantUseCase := usecase.NewAssistantUseCase(mistral, historyStore, log)
	assistantHandler := assistantHTTP.NewAssistantHandler(assistantUseCase, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Client-ID"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1/assistant")
	api.Use(middleware.OptionalAuthMiddleware(jwtService, revocations...))
	if redisClient != nil {
		api.Use(middleware.RateLimitMiddleware(middleware.NewRedisRateCounter(redisClient), "assistant", 20, time.Minute))
	}
	{
		api.POST("/messages", assistantHandler.Ask)
		api.GET("/history", assistantHandler.GetHistory)
		api.DELETE("/history", assistantHandler.ClearHistory)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Assistant service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down assistant service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	log.Info("Assistant service exited")
}
