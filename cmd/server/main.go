package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/edudesk/edudesk/internal/models"
	"github.com/edudesk/edudesk/internal/server/handlers"
	"github.com/edudesk/edudesk/internal/server/middleware"
	"github.com/edudesk/edudesk/internal/server/storage"
	"github.com/edudesk/edudesk/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "edudesk.db", "Path to SQLite database")
	uploadDir := flag.String("uploads", "uploads", "Directory for uploaded student photos")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger, *addr, *dbPath, *uploadDir); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, addr, dbPath, uploadDir string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	secret := os.Getenv("EDUDESK_JWT_SECRET")
	if secret == "" {
		return errors.New("EDUDESK_JWT_SECRET environment variable is required")
	}

	if err := os.MkdirAll(uploadDir, 0o750); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	if err := bootstrapAdmin(ctx, logger, store); err != nil {
		return err
	}

	jwtConfig := handlers.JWTConfig{
		Secret:          []byte(secret),
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}

	authHandler := handlers.NewAuthHandler(logger, store, store, jwtConfig)
	schoolHandler := handlers.NewSchoolHandler(logger, store, uploadDir)
	healthHandler := handlers.NewHealthHandler(logger, Version)

	authMw := middleware.AuthMiddleware(logger, jwtConfig, store)
	loginLimiter := middleware.RateLimitMiddleware(10, time.Minute, logger)

	mux := http.NewServeMux()
	mux.Handle("POST /api/auth/login", loginLimiter(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("GET /api/auth/v1/who-is-me", authHandler.WhoIsMe)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.Handle("POST /api/auth/revoke/{userID}", authMw(http.HandlerFunc(authHandler.Revoke)))

	mux.Handle("GET /api/students", authMw(http.HandlerFunc(schoolHandler.ListStudents)))
	mux.Handle("POST /api/students", authMw(http.HandlerFunc(schoolHandler.CreateStudent)))
	mux.Handle("DELETE /api/students/{id}", authMw(http.HandlerFunc(schoolHandler.DeleteStudent)))
	mux.Handle("POST /api/students/{id}/photo", authMw(http.HandlerFunc(schoolHandler.UploadPhoto)))
	mux.Handle("GET /api/teachers", authMw(http.HandlerFunc(schoolHandler.ListTeachers)))

	mux.HandleFunc("GET /api/health", healthHandler.Health)

	handler := middleware.RecoveryMiddleware(logger)(
		middleware.LoggingWithSkip(logger, []string{"/api/health"})(mux))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			slog.String("addr", addr),
			slog.String("version", Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// bootstrapAdmin создает учетную запись администратора при первом запуске,
// если она задана через переменные окружения
func bootstrapAdmin(ctx context.Context, logger *slog.Logger, users storage.UserStorage) error {
	username := os.Getenv("EDUDESK_ADMIN_USER")
	password := os.Getenv("EDUDESK_ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	if _, err := users.GetUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:     username,
		Name:         "Administrator",
		Role:         "admin",
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created", slog.String("username", username))
	return nil
}

func printVersion() {
	fmt.Printf("EduDesk Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
