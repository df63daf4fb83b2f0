package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/VerenaSchrama/Decode-sub000/internal/api"
	"github.com/VerenaSchrama/Decode-sub000/internal/cli"
	"github.com/VerenaSchrama/Decode-sub000/internal/db"
	"github.com/VerenaSchrama/Decode-sub000/internal/services"
)

func main() {
	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	driver := getEnv("DB_DRIVER", db.DriverSQLite)
	dsn := getEnv("DB_DSN", filepath.Join("data", "decode.db"))

	if len(os.Args) > 1 {
		if err := runCommand(os.Args[1:], driver, dsn, location); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	secretKey, err := resolveSecretKey()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	port, err := resolvePort()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	sweepInterval, err := resolveSweepInterval()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	database, err := db.Open(driver, dsn)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	handler := api.NewHandler(database, secretKey, location)

	app := fiber.New(fiber.Config{
		AppName:               "Decode",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	handler.Scheduler().Start(lifecycleCtx, sweepInterval)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Decode listening on http://0.0.0.0:%s (db: %s %s, tz: %s)", port, driver, dsn, location.String())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func runCommand(args []string, driver string, dsn string, location *time.Location) error {
	switch args[0] {
	case "sweep":
		return runSweepCommand(driver, dsn, location)
	case "reset-password":
		email := ""
		prompt := false
		for _, arg := range args[1:] {
			if arg == "--prompt" {
				prompt = true
				continue
			}
			if email == "" {
				email = arg
			}
		}
		if email == "" {
			return errors.New("usage: decode reset-password <email> [--prompt]")
		}
		return cli.RunResetPasswordCommand(driver, dsn, email, prompt)
	default:
		return fmt.Errorf("unknown command %q (expected sweep or reset-password)", args[0])
	}
}

func runSweepCommand(driver string, dsn string, location *time.Location) error {
	database, err := db.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	repositories := db.NewRepositories(database)
	pipeline := services.NewCompletionPipeline(services.PipelineDeps{
		Periods:       repositories.Periods,
		Habits:        repositories.Habits,
		Tracking:      repositories.Tracking,
		Summaries:     repositories.Summaries,
		Notifications: repositories.Notifications,
	}, location)

	result, err := pipeline.Scheduler.Sweep()
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	log.Printf("sweep finished: %d due, %d completed, %d failed", result.Found, result.Completed, result.Failed)
	for _, detail := range result.Details {
		if detail.Err != nil {
			log.Printf("sweep: period %s (user %d) failed: %v", detail.PeriodID, detail.UserID, detail.Err)
		}
	}
	return nil
}

func resolveSecretKey() (string, error) {
	secretKey := os.Getenv("SECRET_KEY")
	if secretKey == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if secretKey == "change_me_in_production" || secretKey == "replace_with_at_least_32_random_characters" {
		return "", errors.New("SECRET_KEY still uses a placeholder value")
	}
	if len(secretKey) < 32 {
		return "", errors.New("SECRET_KEY must be at least 32 characters")
	}
	return secretKey, nil
}

func resolvePort() (string, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return "8080", nil
	}

	number, err := strconv.Atoi(port)
	if err != nil {
		return "", fmt.Errorf("invalid PORT %q: %w", port, err)
	}
	if number < 1 || number > 65535 {
		return "", fmt.Errorf("invalid PORT %d: must be between 1 and 65535", number)
	}
	return port, nil
}

// resolveSweepInterval reads SWEEP_INTERVAL as a Go duration. Zero disables
// the background sweep so deployments can rely on the sweep subcommand alone.
func resolveSweepInterval() (time.Duration, error) {
	raw := os.Getenv("SWEEP_INTERVAL")
	if raw == "" {
		return time.Hour, nil
	}

	interval, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid SWEEP_INTERVAL %q: %w", raw, err)
	}
	if interval < 0 {
		return 0, fmt.Errorf("invalid SWEEP_INTERVAL %q: must not be negative", raw)
	}
	return interval, nil
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
