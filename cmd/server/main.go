package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"nutritrack/docs"
	"nutritrack/internal/auth"
	"nutritrack/internal/cache"
	"nutritrack/internal/config"
	"nutritrack/internal/db"
	"nutritrack/internal/handler"
	"nutritrack/internal/repository"
	"nutritrack/internal/router"
	"nutritrack/internal/service"
)

// @title Nutrition Assistant API
// @version 1.0
// @description CRUD backend with JWT authentication and nutrition tracking (profiles, meals, daily trackers, mocked extraction workflow).
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	mongoClient, database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("mongo disconnect: %v", err)
		}
	}()

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	nutritionRepo := repository.NewNutritionRepository(database)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo)
	nutritionService := service.NewNutritionService(nutritionRepo, cacheClient)
	messageService := service.NewMessageService()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService, cfg)
	userHandler := handler.NewUserHandler(userService, authService)
	nutritionHandler := handler.NewNutritionHandler(nutritionService)
	messageHandler := handler.NewMessageHandler(messageService)

	if cfg.BypassAllowed() {
		log.Println("dev-token bypass enabled (ENVIRONMENT != production)")
	}

	authMiddleware := auth.Middleware(jwtService, authService, cfg.BypassAllowed())

	// Register routes
	router.Register(
		e,
		cfg,
		authMiddleware,
		authHandler,
		userHandler,
		nutritionHandler,
		messageHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
