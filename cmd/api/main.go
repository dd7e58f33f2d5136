package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"aiResume/internal/analysis"
	"aiResume/internal/api"
	"aiResume/internal/auth"
	"aiResume/internal/config"
	"aiResume/internal/database"
	"aiResume/internal/github"
	"aiResume/internal/llm"
	"aiResume/internal/pipeline"
	"aiResume/internal/storage"
	"aiResume/internal/store"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("api bootstrapped with db host=%s port=%d db=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	log.Printf("database migrated")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	storageClient, err := storage.NewClient(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	privateKey, publicKey, err := cfg.Auth.SigningKeys()
	if err != nil {
		log.Fatalf("load signing keys: %v", err)
	}
	authService, err := auth.NewAuthService(privateKey, publicKey, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	model, err := llm.NewGemini(ctx, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
	if err != nil {
		log.Fatalf("init llm client: %v", err)
	}
	log.Printf("llm client ready, model=%s", model.Model())

	githubClient := github.NewClient(cfg.GitHub.BaseURL, cfg.GitHub.Timeout,
		github.WithToken(cfg.GitHub.Token),
		github.WithLogger(logger),
	)

	st := store.New(db)
	analyzer := analysis.NewAnalyzer(githubClient, model, logger)
	generator := pipeline.NewService(st.Profiles, st.Users, st.Resumes, analyzer, logger)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer asynqClient.Close()

	router := api.NewRouter(logger, cfg.API.CORSAllowedOrigins)
	api.RegisterRoutes(router, api.Dependencies{
		Store:          st,
		AuthService:    authService,
		AuthConfig:     cfg.Auth,
		Redis:          redisClient,
		Generator:      generator,
		Queue:          asynqClient,
		Storage:        storageClient,
		DownloadTTL:    cfg.API.DownloadLinkTTL,
		AllowedOrigins: cfg.API.CORSAllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("api listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down api server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown failed", slog.Any("error", err))
	}
}
