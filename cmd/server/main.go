// Command server starts the MuseMind API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/musemind/musemind-server/internal/api"
	"github.com/musemind/musemind-server/internal/core/service"
	mongodb "github.com/musemind/musemind-server/internal/infrastructure/db/mongo"
	redisdb "github.com/musemind/musemind-server/internal/infrastructure/db/redis"
	"github.com/musemind/musemind-server/internal/infrastructure/generator"
	s3store "github.com/musemind/musemind-server/internal/infrastructure/storage/s3"
	"github.com/musemind/musemind-server/internal/pkg/config"
	"github.com/musemind/musemind-server/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = client.Disconnect(ctx) }()

	userRepo := mongodb.NewUserRepository(db)
	libraryRepo := mongodb.NewLibraryRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := libraryRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create library indexes")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()
	promptCache := redisdb.NewPromptCache(rdb)

	// --- Object storage ---
	assetStore, err := s3store.New(ctx, s3store.Config{
		Region:       cfg.Storage.Region,
		Bucket:       cfg.Storage.Bucket,
		BaseEndpoint: cfg.Storage.Endpoint,
		AccessKey:    cfg.Storage.AccessKey,
		SecretKey:    cfg.Storage.SecretKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise asset store")
	}

	// --- External generators ---
	musicGen := generator.NewMusicClient(cfg.Generator.MusicURL, cfg.Generator.Timeout)
	lyricsGen := generator.NewLyricsClient(cfg.Generator.LyricsURL, cfg.Generator.Timeout)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	generationService := service.NewGenerationService(userRepo, musicGen, lyricsGen, assetStore, promptCache, log)
	libraryService := service.NewLibraryService(libraryRepo, assetStore, log)

	e := api.NewRouter(api.Dependencies{
		Auth:       authService,
		Generation: generationService,
		Library:    libraryService,
		Users:      userRepo,
		Prompts:    promptCache,
		Mongo:      db,
		Redis:      rdb,
		JWTSecret:  cfg.JWTSecret,
		Logger:     log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
