package main

import (
	"online-panthi/pkg/cache"
	"online-panthi/pkg/config"
	"online-panthi/pkg/database"
	"online-panthi/pkg/logger"
	"online-panthi/pkg/queue"
	communityApp "online-panthi/services/community/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Community Service API
// @version         1.0
// @description     Community feed: posts, likes, saves and reports
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@onlinepanthi.lk

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8003
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
		log.Error("Failed to connect to redis: %v (continuing without feed cache and rate limits)", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	communityApp.Run(cfg, log, db, redisClient, queueClient)
}
