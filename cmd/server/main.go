package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shaonsust/poll-app/internal/adapters/handler/http"
	"github.com/shaonsust/poll-app/internal/adapters/repository/memory"
	"github.com/shaonsust/poll-app/internal/adapters/repository/postgres"
	"github.com/shaonsust/poll-app/internal/config"
	"github.com/shaonsust/poll-app/internal/core/ports"
	"github.com/shaonsust/poll-app/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	flag.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend (postgres or memory)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	questionRepo, choiceRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	clock := services.SystemClock{}

	// Initialize Services
	pollService := services.NewPollService(questionRepo, clock)
	voteService := services.NewVoteService(questionRepo, choiceRepo, logger)
	adminService := services.NewAdminService(questionRepo, choiceRepo, clock, logger)
	tokenService := services.NewTokenService(cfg.JWTSecret, clock)

	renderer, err := http.NewRenderer()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	// Initialize Handlers
	var adminHandler *http.AdminHandler
	if cfg.JWTSecret != "" {
		adminHandler = http.NewAdminHandler(adminService, logger)
	} else {
		logger.Warn("JWT_SECRET is not set, admin API disabled")
	}

	handler := http.NewHandler(
		http.NewPollHandler(pollService, voteService, renderer, clock, logger),
		adminHandler,
		http.NewHealthHandler(questionRepo, logger),
		tokenService,
		logger,
	)

	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.QuestionRepository, ports.ChoiceRepository, func(), error) {
	if cfg.Storage == config.StorageMemory {
		store := memory.NewStore()
		return store.Questions(), store.Choices(), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := postgres.Open(connectCtx, cfg.Postgres.ConnString())
	if err != nil {
		return nil, nil, nil, err
	}

	closeDB := func() {
		if err := db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			logger.Error("failed to close database", "error", err)
		}
	}
	return postgres.NewQuestionRepository(db), postgres.NewChoiceRepository(db), closeDB, nil
}
