package main

import (
	"context"
	"log"

	"github.com/bockster6669/blog-app/internal/router"
	"github.com/bockster6669/blog-app/internal/validators"
	"github.com/bockster6669/blog-app/pkg/config"
	"github.com/bockster6669/blog-app/pkg/firebase"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Validator
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, firebaseApp.AuthClient)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
