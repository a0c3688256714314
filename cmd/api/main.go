package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/coursehub/backend/internal/config"
	"github.com/coursehub/backend/internal/database"
	"github.com/coursehub/backend/internal/middleware"
	"github.com/coursehub/backend/internal/routes"
	"github.com/coursehub/backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogPretty)

	db, err := database.Connect(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("database init failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		appLogger.Fatal().Err(err).Msg("migration failed")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(appLogger),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logging(appLogger))

	routes.SetupRoutes(app, db, cfg, appLogger)

	appLogger.Info().Str("port", cfg.ServerPort).Msg("starting server")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		appLogger.Fatal().Err(err).Msg("server stopped")
	}
}
