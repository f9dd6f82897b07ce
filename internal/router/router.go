package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/taleb-app/backend/internal/handlers"
	"github.com/taleb-app/backend/internal/middleware"
	"github.com/taleb-app/backend/internal/storage"
	"github.com/taleb-app/backend/internal/uploads"
)

// SetupMiddleware configures global Echo middleware.
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects
// dependencies. The store is passed in explicitly so tests can wire an
// isolated instance.
func SetupRoutes(e *echo.Echo, store storage.Storage, files *uploads.Saver, authMW echo.MiddlewareFunc) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// Uploaded attachments are public static files.
	e.Static("/uploads", files.Dir())

	authHandler := handlers.NewAuthHandler(store)
	authHandler.RegisterPublicRoutes(e)

	// --- Protected routes (require authentication) ---
	api := e.Group("/api", authMW)

	authHandler.RegisterAuthRoutes(api)
	log.Println("Auth routes configured.")

	postHandler := handlers.NewPostHandler(store, files)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	commentHandler := handlers.NewCommentHandler(store)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	reportHandler := handlers.NewReportHandler(store)
	reportHandler.RegisterReportRoutes(api)
	log.Println("Report routes configured.")

	// --- Admin routes (require the admin role) ---
	admin := api.Group("/admin", middleware.RequireAdmin(store))
	adminHandler := handlers.NewAdminHandler(store)
	adminHandler.RegisterAdminRoutes(admin)
	log.Println("Admin routes configured.")
}
