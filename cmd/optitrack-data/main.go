package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"optitrack-data/internal/config"
	"optitrack-data/internal/database"
	httpapi "optitrack-data/internal/http"
	"optitrack-data/internal/logger"
	"optitrack-data/internal/mqtt"
	"optitrack-data/internal/repository"
	"optitrack-data/internal/service"
	"optitrack-data/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	importSnapshot := flag.Bool("import-snapshot", false, "import the legacy TireData snapshot and exit")
	flag.Parse()

	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "optitrack-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	kv := store.NewRedisKV(redisClient)

	blobs, err := store.NewDiskBlobStore(cfg.Blob.Dir, cfg.Blob.BaseURL)
	if err != nil {
		log.Fatal("Failed to open blob store", zap.Error(err))
	}

	readingsRepo := repository.NewPostgresReadingsRepo(db, log)
	usersRepo := repository.NewPostgresUsersRepo(db, log)

	readingService := service.NewReadingService(readingsRepo, kv, cfg.Thresholds, log)
	authService := service.NewAuthService(usersRepo, kv, blobs, log)
	checklistService := service.NewChecklistService(readingService, readingsRepo, kv, log)

	if *importSnapshot {
		runImport(cfg, readingsRepo, log)
		return
	}

	router := httpapi.NewRouter(log)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authService, log))
	router.RegisterReadingRoutes(httpapi.NewReadingsHandler(readingService, authService, log))
	router.RegisterChecklistRoutes(httpapi.NewChecklistHandler(checklistService, authService, log))
	router.RegisterProfileRoutes(httpapi.NewProfileHandler(authService, log))
	router.RegisterStaticRoutes(cfg.Blob.BaseURL, blobs.Dir())

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tpms *mqtt.TPMSConsumer
	if cfg.MQTT.Enabled {
		mqttClient, err := mqtt.NewClient(&cfg.MQTT, log)
		if err != nil {
			log.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}
		defer mqttClient.Disconnect()

		tpms = mqtt.NewTPMSConsumer(&cfg.MQTT, mqttClient, readingService, log)
		go func() {
			if err := tpms.Start(ctx); err != nil {
				log.Error("TPMS consumer stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		log.Error("HTTP server exited", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if tpms != nil {
		_ = tpms.Stop(shutdownCtx)
	}
	_ = srv.Stop(shutdownCtx)
}

// runImport performs a one-shot migration from the legacy realtime database
// export into Postgres.
func runImport(cfg *config.Config, repo repository.ReadingsRepository, log *zap.Logger) {
	if cfg.RTDB.BaseURL == "" {
		log.Fatal("RTDB_BASE_URL is required for -import-snapshot")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := service.NewRTDBClient(cfg.RTDB.BaseURL, cfg.RTDB.Auth, log)
	imported, err := client.ImportSnapshot(ctx, repo)
	if err != nil {
		log.Fatal("Snapshot import failed", zap.Int("imported", imported), zap.Error(err))
	}
	log.Info("Snapshot import finished", zap.Int("imported", imported))
}
