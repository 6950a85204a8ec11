package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nursultan-qb/docvault/internal/config"
	"github.com/nursultan-qb/docvault/internal/database"
	"github.com/nursultan-qb/docvault/internal/handlers"
	"github.com/nursultan-qb/docvault/internal/jobs"
	"github.com/nursultan-qb/docvault/internal/presence"
	"github.com/nursultan-qb/docvault/internal/repository"
	"github.com/nursultan-qb/docvault/internal/scheduler"
	"github.com/nursultan-qb/docvault/internal/services"
	"github.com/nursultan-qb/docvault/pkg/logger"
	"github.com/nursultan-qb/docvault/pkg/middleware"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// Object storage
	storage, err := services.NewB2StorageService(context.Background(), cfg.B2KeyID, cfg.B2AppKey, cfg.B2BucketName)
	if err != nil {
		log.Fatalf("Object storage initialization error: %v", err)
	}

	// Presence registry for the real-time channel
	registry := presence.NewRegistry()

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, registry)
	activityService := services.NewActivityService(activityRepo)
	documentService := services.NewDocumentService(documentRepo, notificationService, activityService, userRepo, storage)
	commentService := services.NewCommentService(commentRepo, documentRepo)
	settingsService := services.NewSettingsService(settingsRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	documentHandler := handlers.NewDocumentHandler(documentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	activityHandler := handlers.NewActivityHandler(activityService)
	commentHandler := handlers.NewCommentHandler(commentService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	wsHandler := handlers.NewWSHandler(registry, cfg.JWTSecret)

	// Retention sweep, scheduled daily
	sweeper := jobs.NewRetentionSweeper(documentRepo, notificationRepo, settingsRepo, storage)
	retentionCron := scheduler.StartRetentionCron(sweeper)
	defer retentionCron.Stop()

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Real-time channel (token passed as query parameter)
	router.HandleFunc("/ws", wsHandler.ConnectHandler)

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/officers", userHandler.GetOfficersHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")

	// Document routes
	documentRoutes := router.PathPrefix("/documents").Subrouter()
	documentRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	documentRoutes.HandleFunc("", documentHandler.CreateDocumentHandler).Methods("POST")
	documentRoutes.HandleFunc("", documentHandler.ListDocumentsHandler).Methods("GET")
	documentRoutes.HandleFunc("/{id}", documentHandler.GetDocumentHandler).Methods("GET")
	documentRoutes.HandleFunc("/{id}", documentHandler.UpdateDocumentHandler).Methods("PATCH")
	documentRoutes.HandleFunc("/{id}", documentHandler.DeleteDocumentHandler).Methods("DELETE")
	documentRoutes.HandleFunc("/{id}/detail", documentHandler.GetDocumentDetailHandler).Methods("GET")
	documentRoutes.HandleFunc("/{id}/assign", documentHandler.AssignOfficerHandler).Methods("POST")
	documentRoutes.HandleFunc("/{id}/file", documentHandler.ReplaceFileHandler).Methods("PUT")
	documentRoutes.HandleFunc("/{id}/activities", activityHandler.GetDocumentActivitiesHandler).Methods("GET")
	documentRoutes.HandleFunc("/{id}/comments", commentHandler.CreateCommentHandler).Methods("POST")
	documentRoutes.HandleFunc("/{id}/comments", commentHandler.GetDocumentCommentsHandler).Methods("GET")

	// Notification routes
	notificationRoutes := router.PathPrefix("/notifications").Subrouter()
	notificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	notificationRoutes.HandleFunc("", notificationHandler.GetUserNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")
	notificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Comment moderation (admin only)
	moderationRoutes := router.PathPrefix("/comments").Subrouter()
	moderationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	moderationRoutes.Use(middleware.RequireRole("admin"))
	moderationRoutes.HandleFunc("/{id}/moderate", commentHandler.ModerateCommentHandler).Methods("POST")
	moderationRoutes.HandleFunc("/{id}", commentHandler.DeleteCommentHandler).Methods("DELETE")

	// Admin routes
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/users", userHandler.AdminGetAllUsersHandler).Methods("GET")
	adminRoutes.HandleFunc("/activities", activityHandler.GetRecentActivitiesHandler).Methods("GET")
	adminRoutes.HandleFunc("/settings/retention", settingsHandler.GetRetentionSettingHandler).Methods("GET")
	adminRoutes.HandleFunc("/settings/retention", settingsHandler.UpdateRetentionSettingHandler).Methods("PUT")
	adminRoutes.HandleFunc("/settings/storage", settingsHandler.GetStorageSettingHandler).Methods("GET")
	adminRoutes.HandleFunc("/settings/storage", settingsHandler.UpdateStorageSettingHandler).Methods("PUT")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
