package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"parceltrack/api"
	"parceltrack/cmd"
	"parceltrack/internal/adapters/out/kafka"
	"parceltrack/internal/adapters/out/metrics"
	"parceltrack/internal/adapters/out/postgres"
	redisadapter "parceltrack/internal/adapters/out/redis"
	"parceltrack/internal/core/application/usecases/commands"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB := mustOpenDatabase(ctx, configs)

	redisClient, err := redisadapter.New(ctx, configs.RedisURL)
	if err != nil {
		log.Fatalf("Error connecting to redis: %v", err)
	}
	if redisClient != nil {
		defer closeRedis(redisClient, logger)
	}

	publisher := newKafkaPublisher(configs)
	if publisher != nil {
		defer publisher.Close()
	}

	app, err := cmd.NewCompositionRoot(configs, cmd.Infrastructure{
		DB:      gormDB,
		Redis:   redisClient,
		Kafka:   publisher,
		Metrics: metrics.New(),
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	seedAdmin(ctx, app, configs, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	if err := startWebServer(ctx, app, configs.HTTPPort, logger); err != nil {
		log.Fatalf("Web server stopped: %v", err)
	}
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
	config, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return config
}

func mustOpenDatabase(ctx context.Context, configs cmd.Config) *gorm.DB {
	dsn := postgres.DSN(configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)
	gormDB, err := postgres.Open(ctx, dsn)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	return gormDB
}

func newKafkaPublisher(configs cmd.Config) *kafka.Publisher {
	if configs.KafkaHost == "" {
		return nil
	}
	client, err := kafka.NewClient(configs.KafkaHost, configs.KafkaParcelStatusTopic)
	if err != nil {
		log.Fatalf("Error connecting to kafka: %v", err)
	}
	publisher, err := kafka.NewPublisher(client, configs.KafkaParcelStatusTopic)
	if err != nil {
		log.Fatalf("Error creating kafka publisher: %v", err)
	}
	return publisher
}

func closeRedis(client *goredis.Client, logger *slog.Logger) {
	if err := client.Close(); err != nil {
		logger.Warn("Closing redis failed", "error", err)
	}
}

// seedAdmin makes sure the configured admin account exists. Failures are
// logged and the service starts anyway.
func seedAdmin(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) {
	if !configs.SeedsAdmin() {
		logger.InfoContext(ctx, "Admin seeding skipped, ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return
	}
	command, err := commands.NewSeedAdminCommand(configs.AdminName, configs.AdminEmail, configs.AdminPassword)
	if err != nil {
		logger.ErrorContext(ctx, "Admin seed configuration is invalid", "error", err)
		return
	}
	handler := app.CreateSeedAdminCommandHandler()
	created, err := handler.Handle(ctx, command)
	if err != nil {
		logger.ErrorContext(ctx, "Admin seeding failed", "error", err)
		return
	}
	if created {
		logger.InfoContext(ctx, "Admin account created", "email", configs.AdminEmail)
	}
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) error {
	doc, err := api.Load()
	if err != nil {
		return fmt.Errorf("load openapi document: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(app.MetricsHandler()))

	if err := app.CreateHTTPServer(doc).Register(e); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "HTTP server listening", "port", port)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down HTTP server")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
