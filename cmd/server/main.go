package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/rfpworks/rfpserver/internal/config"
	"github.com/rfpworks/rfpserver/internal/database"
	"github.com/rfpworks/rfpserver/internal/handler"
	"github.com/rfpworks/rfpserver/internal/pkg/redis"
	"github.com/rfpworks/rfpserver/internal/pkg/storage"
	"github.com/rfpworks/rfpserver/internal/trace"
)

func main() {
	// Load .env file if exists
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Tracing is optional; the close hook is a no-op when disabled.
	closeTrace := trace.InitCozeLoop(ctx)
	defer closeTrace(ctx)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	cache, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer cache.Close()

	var store storage.Store
	switch cfg.StorageBackend {
	case "s3":
		store, err = storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
	default:
		store, err = storage.NewLocalStore(cfg.StoragePath)
	}
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	r, err := handler.SetupRouter(cfg, db, cache, store)
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	addr := cfg.Host + ":" + cfg.Port
	log.Printf("RFP Response Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
