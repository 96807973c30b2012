package main

import (
	"online-panthi/pkg/cache"
	"online-panthi/pkg/config"
	"online-panthi/pkg/logger"
	assistantApp "online-panthi/services/assistant/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Assistant Service API
// @version         1.0
// @description     AI teacher chat for OnlinePanthi learners
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@onlinepanthi.lk

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8005
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

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (history kept in memory, no rate limits)", err)
		redisClient = nil
	}

	assistantApp.Run(cfg, log, redisClient)
}
