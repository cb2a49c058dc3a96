package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"familytree/internal/config"
	"familytree/internal/database"
	"familytree/internal/handlers"
	"familytree/internal/repository"
	"familytree/internal/security"
	"familytree/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	// An unset secret gets a random one: sessions and API tokens then
	// survive only until the next restart.
	secret := cfg.SessionSecret
	if secret == "" {
		secret = randomSecret()
		log.Println("Warning: SESSION_SECRET not set, using a random secret for this run")
	}

	tokenService, err := security.NewTokenService(secret, 24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	familyService := service.NewFamilyService(memberRepo)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize handlers
	csrf := security.NewCSRFGenerator(secret)
	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, tokenService, csrf, limiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, templates)
	memberHandler := handlers.NewMemberHandler(familyService, middleware, templates)
	treeHandler := handlers.NewTreeHandler(familyService, templates)
	apiHandler := handlers.NewAPIHandler(authService, familyService, tokenService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /", authHandler.Home)
	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /register", authHandler.ShowRegister)
	mux.HandleFunc("POST /register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /forgot-password", authHandler.ShowForgotPassword)
	mux.HandleFunc("POST /forgot-password", middleware.RateLimit(authHandler.ForgotPassword))
	mux.HandleFunc("GET /reset-password", authHandler.ShowResetPassword)
	mux.HandleFunc("POST /reset-password", middleware.RateLimit(authHandler.ResetPassword))

	// Protected member routes
	mux.HandleFunc("GET /members", middleware.RequireAuth(memberHandler.ListMembers))
	mux.HandleFunc("POST /members", middleware.RequireAuth(middleware.CSRFProtect(memberHandler.CreateMember)))
	mux.HandleFunc("POST /members/{id}/delete", middleware.RequireAuth(middleware.CSRFProtect(memberHandler.DeleteMember)))

	// Tree routes
	mux.HandleFunc("GET /tree", middleware.RequireAuth(treeHandler.ShowTree))
	mux.HandleFunc("GET /tree.svg", middleware.RequireAuth(treeHandler.TreeSVG))
	mux.HandleFunc("GET /tree.dot", middleware.RequireAuth(treeHandler.TreeDOT))

	// JSON API routes
	mux.HandleFunc("POST /api/login", middleware.RateLimit(apiHandler.Login))
	mux.HandleFunc("GET /api/members", middleware.RequireToken(apiHandler.ListMembers))
	mux.HandleFunc("POST /api/members", middleware.RequireToken(apiHandler.CreateMember))
	mux.HandleFunc("DELETE /api/members/{id}", middleware.RequireToken(apiHandler.DeleteMember))
	mux.HandleFunc("GET /api/tree", middleware.RequireToken(apiHandler.Tree))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background cleanup of expired sessions and reset tokens
	go cleanupExpired(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	patterns := []string{
		filepath.Join(templatesPath, "auth/*.tmpl"),
		filepath.Join(templatesPath, "family/*.tmpl"),
	}

	files := []string{filepath.Join(templatesPath, "base.tmpl")}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	return template.ParseFiles(files...)
}

// cleanupExpired periodically removes expired sessions and reset tokens
func cleanupExpired(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up sessions: %v", err)
		}
		if err := authService.CleanupExpiredPasswordResetTokens(); err != nil {
			log.Printf("Error cleaning up reset tokens: %v", err)
		}
	}
}

// randomSecret generates a one-off HMAC key for development setups
func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate random secret: %v", err)
	}
	return hex.EncodeToString(buf)
}
