package main

import (
	"online-panthi/pkg/cache"
	"online-panthi/pkg/config"
	"online-panthi/pkg/database"
	"online-panthi/pkg/logger"
	"online-panthi/pkg/s3"
	courseApp "online-panthi/services/course/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Course Service API
// @version         1.0
// @description     Course catalog, course pages and course authoring
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@onlinepanthi.lk

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8002
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

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing without catalog cache and rate limits)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to initialize S3 client: %v (uploads disabled)", err)
		s3Client = nil
	}

	courseApp.Run(cfg, log, db, redisClient, s3Client)
}
