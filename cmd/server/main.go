package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/taleb-app/backend/internal/middleware"
	"github.com/taleb-app/backend/internal/router"
	"github.com/taleb-app/backend/internal/storage"
	"github.com/taleb-app/backend/internal/uploads"
	"github.com/taleb-app/backend/internal/validators"
	"github.com/taleb-app/backend/pkg/config"
	"github.com/taleb-app/backend/pkg/firebase"
)

func main() {
	// Load configuration
	cfg := config.Load()
	ctx := context.Background()

	// Pick the storage backend: PostgreSQL when configured, otherwise
	// the in-memory development store.
	var store storage.Storage
	if cfg.PostgresConnStr != "" {
		pg, err := storage.NewPostgresStorage(cfg.PostgresConnStr)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		defer pg.Close()
		store = pg
	} else {
		log.Println("POSTGRES_CONN_STR not set, using in-memory storage.")
		store = storage.NewMemStorage()
	}

	if cfg.IsDevelopment() {
		if err := storage.SeedDevUsers(ctx, store); err != nil {
			log.Fatalf("Failed to seed development users: %v", err)
		}
		log.Println("Development users seeded.")
	}

	// Pick the auth mode: Firebase ID tokens when credentials are
	// configured, otherwise dev tokens with a mock fallback.
	var authMW echo.MiddlewareFunc
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		authMW = middleware.FirebaseAuth(firebaseApp.AuthClient)
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set, using development auth.")
		authMW = middleware.DevAuth(cfg.JWTSecret)
	}

	files, err := uploads.NewSaver(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload directory: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, store, files, authMW)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
