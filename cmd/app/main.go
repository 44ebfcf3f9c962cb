package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"buildbid/internal/config"
	"buildbid/internal/domain/ports/adapter"
	aiAdapters "buildbid/internal/infra/adapters/ai"
	pushAdapters "buildbid/internal/infra/adapters/push"
	pg "buildbid/internal/infra/db/postgres"
	"buildbid/internal/infra/logging"
	"buildbid/internal/infra/metrics"
	red "buildbid/internal/infra/redis"
	"buildbid/internal/infra/sched"
	"buildbid/internal/infra/web"
	"buildbid/internal/infra/worker"
	"buildbid/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (relaxed config, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	if cfg.Database.AutoMigrate {
		if err := pg.MigrateUp(cfg.Database.URL, cfg.Database.MigrationsURL); err != nil {
			logger.Fatal().Err(err).Msg("schema migration failed")
		}
		logger.Info().Str("source", cfg.Database.MigrationsURL).Msg("schema migrations applied")
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	go samplePoolStats(ctx, pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	rateLimiter := red.NewRateLimiter(redisClient, cfg.AI.RatePerMinute, time.Minute)
	sessionRepo := red.NewChatSessionRepo(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	jobRepo := pg.NewJobRepoCacheDecorator(pg.NewJobRepo(pool), redisClient, cfg.Redis.TTL)
	bidRepo := pg.NewBidRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	notifRepo := pg.NewNotificationRepo(pool)
	reviewRepo := pg.NewReviewRepo(pool)
	taskRepo := pg.NewTaskRepo(pool)
	materialRepo := pg.NewMaterialRepo(pool)

	// ---- Push adapter ----
	var push adapter.PushAdapter
	if cfg.Push.FCMServerKey != "" {
		push, err = pushAdapters.NewFCMPush(cfg.Push.FCMEndpoint, cfg.Push.FCMServerKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("fcm adapter init failed")
		}
		logger.Info().Str("adapter", "fcm").Msg("push adapter ready")
	} else {
		push = pushAdapters.NewNoopPush()
		logger.Warn().Msg("no FCM key configured, push is a no-op")
	}
	push = pushAdapters.NewInstrumentedPush(push)

	// ---- AI adapter (OpenAI -> Gemini -> noop) ----
	var ai adapter.AIServiceAdapter
	switch {
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter init failed")
		}
		logger.Info().Str("adapter", "openai").Str("model", cfg.AI.DefaultModel).Msg("AI adapter ready")
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, 2048)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter init failed")
		}
		logger.Info().Str("adapter", "gemini").Str("model", cfg.AI.DefaultModel).Msg("AI adapter ready")
	default:
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("no AI provider configured, assistant is a no-op")
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)

	// ---- Worker pool for notification fan-out ----
	fanout := worker.NewPool(cfg.Worker.FanoutWorkers, logger)
	fanout.Start(ctx)
	defer fanout.Stop()

	// ---- Use cases ----
	bidUC := usecase.NewBidUseCase(jobRepo, bidRepo, userRepo, notifRepo, push, fanout, logger)
	jobUC := usecase.NewJobUseCase(jobRepo, userRepo, bidRepo, notifRepo, pg.NewTxManager(pool), logger)
	userUC := usecase.NewUserUseCase(userRepo)
	reviewUC := usecase.NewReviewUseCase(reviewRepo, jobRepo, userRepo, notifRepo, logger)
	notifUC := usecase.NewNotificationUseCase(notifRepo, userRepo, push, logger)
	assistantUC := usecase.NewAssistantUseCase(sessionRepo, ai, rateLimiter, cfg.AI.DefaultModel, cfg.AI.HistoryLimit, cfg.AI.MaxPromptTokens, logger)
	taskUC := usecase.NewTaskUseCase(taskRepo, jobRepo, logger)
	materialUC := usecase.NewMaterialUseCase(materialRepo, jobRepo, logger)

	// ---- HTTP API ----
	jwtSecret := cfg.API.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "dev-secret"
	}
	auth := web.NewAuthManager(jwtSecret, cfg.API.SessionTTL)
	srv := web.NewServer(jobUC, bidUC, userUC, reviewUC, notifUC, assistantUC, taskUC, materialUC, auth, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.API.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Background workers ----
	repairWorker := sched.NewAwardRepairWorker(cfg.Sched.AwardRepairInterval, jobRepo, bidRepo, bidUC, logger)
	go func() { _ = repairWorker.Run(ctx) }()

	dispatcher := sched.NewPushDispatcher(cfg.Sched.PushDispatchInterval, cfg.Sched.PushDispatchBatch, notifUC, logger)
	go func() { _ = dispatcher.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}

func samplePoolStats(ctx context.Context, pool *pgxpool.Pool) {
	t := time.NewTicker(15 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st := pool.Stat()
			metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
		}
	}
}
