package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	clientapi "github.com/edudesk/edudesk/internal/client/api"
	"github.com/edudesk/edudesk/internal/client/cli"
	"github.com/edudesk/edudesk/internal/client/iocli"
	"github.com/edudesk/edudesk/internal/client/school"
	"github.com/edudesk/edudesk/internal/client/session"
	"github.com/edudesk/edudesk/internal/client/storage/boltdb"
	"github.com/edudesk/edudesk/internal/client/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "edudesk-client.db", "Path to local database")
	password := flag.String("password", "", "Password (not recommended, use env var or file)")
	passwordFile := flag.String("password-file", "", "Path to file containing password")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	u, err := url.Parse(*serverURL)
	if err != nil || u.Hostname() == "" {
		fmt.Fprintf(os.Stderr, "Invalid server URL %q\n", *serverURL)
		os.Exit(1)
	}

	// Создаем контекст
	ctx := context.Background()

	// Открываем BoltDB storage (persistent cookie jar)
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	stdio := iocli.NewStdio()

	// Собираем сервисы сессии
	apiClient := clientapi.NewClient(*serverURL, boltStorage)
	store := session.NewStore(boltStorage, u.Hostname())
	coordinator := session.NewCoordinator(store, token.NewValidator(0), apiClient)
	probe := session.NewProbe(store, apiClient)

	// Отзыв сессии сервером чистит все локальное состояние;
	// навигацию (подсказку про login) печатает только guard
	apiClient.OnRevoked(func() {
		coordinator.Clear()
		stdio.Println("⚠️  Your session has been revoked. Please login again.")
	})
	apiClient.OnWarning(func(msg string) {
		slog.Warn("server returned a client error", "message", msg)
	})
	apiClient.OnError(func(msg string) {
		slog.Error("server returned a server error", "message", msg)
	})

	guard := session.NewGuard(coordinator, func() {
		stdio.Println("Not authenticated. Run 'edudesk login' first.")
	})
	schoolService := school.NewService(apiClient, coordinator)

	c := cli.New(stdio, apiClient, store, coordinator, probe, guard, schoolService)
	passwords := cli.Passwords{
		FromFile: *passwordFile,
		FromArgs: *password,
	}

	if err := c.Run(ctx, command, args[1:], passwords); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("EduDesk Admin Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
