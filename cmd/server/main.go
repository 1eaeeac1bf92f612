package main

import (
	"context"
	"log"

	"github.com/kjiyu/devlog/backend/internal/router"
	"github.com/kjiyu/devlog/backend/internal/validators"
	"github.com/kjiyu/devlog/backend/pkg/config"
	"github.com/kjiyu/devlog/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	client, err := config.InitMongo(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseMongo(client) // Ensure database connection is closed when main exits

	// Initialize Firebase storage for uploads (optional)
	var firebaseApp *firebase.App
	if cfg.FirebaseCredentialsPath != "" {
		ctx := context.Background()
		firebaseApp, err = firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, client.Database(cfg.MongoDatabase), firebaseApp)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
