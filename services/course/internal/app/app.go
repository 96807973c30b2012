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
	"online-panthi/pkg/s3"
	courseHTTP "online-panthi/services/course/internal/controller/http"
	"online-panthi/services/course/internal/repo/cache"
	"online-panthi/services/course/internal/repo/persistent"
	"online-panthi/services/course/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "online-panthi/services/course/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, s3Client *s3.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	courseRepo := persistent.NewCourseRepository(db)

	catalogCache := cache.NewNoopCatalogCache()
	var revocations []middleware.RevocationChecker
	if redisClient != nil {
		catalogCache = cache.NewRedisCatalogCache(redisClient)
		revocations = append(revocations, jwt.NewDenylist(redisClient))
	}

	var store usecase.ObjectStore
	if s3Client != nil {
		store = s3Client
	}

	courseUseCase := usecase.NewCourseUseCase(courseRepo, catalogCache, store, log)
	courseHandler := courseHTTP.NewCourseHandler(courseUseCase, log)

	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
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
	if redisClient != nil {
		api.Use(middleware.RateLimitMiddleware(middleware.NewRedisRateCounter(redisClient), "course", 100, time.Minute))
	}

	// Public routes
	api.GET("/courses", courseHandler.ListCourses)
	api.GET("/courses/:id", courseHandler.GetCourse)

	// Admin routes
	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(jwtService, revocations...), middleware.RequireRole(jwt.RoleAdmin))
	{
		admin.POST("/courses", courseHandler.CreateCourse)
		admin.POST("/uploads", courseHandler.UploadAsset)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Course service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down course service...")

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

	log.Info("Course service exited")
}
