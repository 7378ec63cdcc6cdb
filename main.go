// Package main provides the main entry point for the bookmark notes service
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/bkm-notes/app/handlers"
	"github.com/amirphl/bkm-notes/app/router"
	"github.com/amirphl/bkm-notes/app/services"
	businessflow "github.com/amirphl/bkm-notes/business_flow"
	"github.com/amirphl/bkm-notes/config"
	"github.com/amirphl/bkm-notes/repository"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.Config
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting bkm-notes...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logWriter := initializeLogging(cfg.Logging)

	app, err := initializeApplication(cfg, logWriter)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.router.Start(cfg.Server.Address()); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	// Stop background workers after in-flight requests are drained
	for _, fn := range app.stopFuncs {
		fn()
	}

	log.Println("Server stopped")
}

// initializeLogging points the standard logger at stdout, a rotating file, or both
func initializeLogging(cfg config.LoggingConfig) io.Writer {
	var w io.Writer = os.Stdout

	if cfg.Output == "file" || cfg.Output == "both" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		if cfg.Output == "both" {
			w = io.MultiWriter(os.Stdout, rotator)
		} else {
			w = rotator
		}
	}

	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.LUTC)
	return w
}

// initializeDatabase opens the configured driver with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN())
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// sqlite serializes writers
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established (driver=%s, max_open_conns=%d)", cfg.Driver, cfg.MaxOpenConns)
	return db, nil
}

// initializeCache connects to Redis when the cache is enabled
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established (db=%d)", cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor periodically pings Redis. The returned function stops it.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(monitorCtx, 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication builds repositories, flows, handlers and the router
func initializeApplication(cfg *config.Config, logWriter io.Writer) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), time.Minute)
	defer migrateCancel()
	if err := repository.Migrate(migrateCtx, db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	var limiterStorage fiber.Storage
	if rc != nil {
		limiterStorage = services.NewRedisStorage(rc, cfg.Cache.RedisPrefix)
		checks["cache"] = func(ctx context.Context) error {
			return rc.Ping(ctx).Err()
		}
		stopFuncs = append(stopFuncs,
			startCacheHealthMonitor(context.Background(), rc, cfg.Cache.HealthInterval),
			func() {
				if err := rc.Close(); err != nil {
					log.Printf("Error closing redis: %v", err)
				}
			},
		)
	}

	// Repositories
	noteRepo := repository.NewNoteRepository(db)
	tagRepo := repository.NewTagRepository(db)
	noteTagRepo := repository.NewNoteTagRepository(db)

	// Flows
	noteFlow := businessflow.NewNoteFlow(noteRepo, tagRepo, noteTagRepo, db)
	noteExportFlow := businessflow.NewNoteExportFlow(noteRepo, noteTagRepo)
	tagFlow := businessflow.NewTagFlow(tagRepo)

	throttle := services.NewIngestThrottle(services.IngestThrottleConfig{
		RPS:             cfg.Security.IngestRPS,
		Burst:           cfg.Security.IngestBurst,
		CleanupInterval: services.DefaultIngestThrottleConfig.CleanupInterval,
	})
	stopFuncs = append(stopFuncs, throttle.Stop)

	appRouter := router.NewFiberRouter(cfg, router.Handlers{
		Note:    handlers.NewNoteHandler(noteFlow, noteExportFlow),
		Tag:     handlers.NewTagHandler(tagFlow),
		AddNote: handlers.NewAddNoteHandler(noteFlow),
		System:  handlers.NewSystemHandler(cfg.Deployment.Version, checks),
	}, router.Options{
		Storage:   limiterStorage,
		Throttle:  throttle,
		LogWriter: logWriter,
	})

	if len(cfg.Security.AuthTokens) == 0 {
		log.Println("Warning: API_AUTHTOKEN is empty, /addNote will reject every request")
	}

	return &Application{
		router:    appRouter,
		config:    cfg,
		server:    appRouter.GetApp(),
		stopFuncs: stopFuncs,
	}, nil
}
