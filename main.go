package main

import (
	"log"

	"folio-cms/auth"
	"folio-cms/config"
	"folio-cms/helper"
	"folio-cms/migration"
	"folio-cms/repositories"
	"folio-cms/routes"
	"folio-cms/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	validate, _ := helper.NewValidator()
	userRepo := repositories.NewUserRepository(db)
	gate := auth.NewGate(userRepo, auth.NewTokenIssuer(cfg.Auth))
	if err := services.NewAuthService(userRepo, gate, validate).SeedAdmin(cfg.Admin); err != nil {
		log.Fatalf("Failed to seed administrator: %v", err)
	}

	router, err := routes.SetupRouter(cfg, db)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(router.Run(":" + cfg.Port))
}
