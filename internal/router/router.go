package router

import (
	"context"
	"log"

	"github.com/kjiyu/devlog/backend/internal/handlers"
	"github.com/kjiyu/devlog/backend/internal/middleware"
	"github.com/kjiyu/devlog/backend/internal/repositories"
	"github.com/kjiyu/devlog/backend/internal/services"
	"github.com/kjiyu/devlog/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseApp may be nil; the upload routes are then left unregistered.
func SetupRoutes(e *echo.Echo, db *mongo.Database, firebaseApp *firebase.App) {
	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	categoryRepo := repositories.NewMongoCategoryRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	visitorRepo := repositories.NewMongoVisitorRepository(db)

	// The visit counter is a singleton document; seed it before any request
	// can hit the counter endpoints.
	if err := visitorRepo.EnsureSeed(context.Background()); err != nil {
		log.Fatalf("Failed to seed visitor counter: %v", err)
	}
	log.Println("Visitor counter seeded.")

	// --- Initialize Services ---
	integrity := services.NewIntegrityService(postRepo, categoryRepo, userRepo, commentRepo)
	postService := services.NewPostService(postRepo, categoryRepo, userRepo, commentRepo, visitorRepo, integrity)
	counterService := services.NewCounterService(visitorRepo)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"message": "Server is running"})
	})

	authRequired := middleware.JWTAuthMiddleware()

	// User routes (signup)
	userGroup := e.Group("/api/user")
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(userGroup)
	log.Println("User routes configured.")

	// Auth routes (signin, logout, current user)
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authGroup, authRequired)
	log.Println("Auth routes configured.")

	// Post routes
	postGroup := e.Group("/api/post")
	postHandler := handlers.NewPostHandler(postService)
	postHandler.RegisterPostRoutes(postGroup, authRequired)
	log.Println("Post routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(postService)
	commentHandler.RegisterCommentRoutes(postGroup)
	log.Println("Comment routes configured.")

	// Upload routes
	if firebaseApp != nil {
		uploadHandler := handlers.NewUploadHandler(firebaseApp.Bucket, firebaseApp.BucketName)
		uploadHandler.RegisterUploadRoutes(postGroup)
		log.Println("Upload routes configured.")
	} else {
		log.Println("No storage bucket configured, upload routes disabled.")
	}

	// Visitor routes
	visitorGroup := e.Group("/api/visitor")
	visitorHandler := handlers.NewVisitorHandler(counterService)
	visitorHandler.RegisterVisitorRoutes(visitorGroup)
	log.Println("Visitor routes configured.")

	log.Println("All routes configured.")
}
