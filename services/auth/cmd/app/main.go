package main

import (
	"online-panthi/pkg/config"
	app "online-panthi/services/auth/internal/app"

	"github.com/gin-gonic/gin"
)

// @title           Auth Service API
// @version         1.0
// @description     Accounts, sessions and profiles for OnlinePanthi
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@onlinepanthi.lk

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8001
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Tokens issued here are trusted by every other service
	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
