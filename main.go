package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/shoplist/internal/config"
	"github.com/msomdec/shoplist/internal/domain"
	"github.com/msomdec/shoplist/internal/handler"
	"github.com/msomdec/shoplist/internal/repository/sqlite"
	"github.com/msomdec/shoplist/internal/service"
	"github.com/msomdec/shoplist/internal/suggest"
	"github.com/msomdec/shoplist/internal/vault"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.Level()
	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	// The key never changes after startup; a bad one stops the process here.
	secrets, err := vault.New(cfg.EncryptionKey)
	if err != nil {
		slog.Error("invalid encryption key", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	var provider domain.SuggestionProvider
	if cfg.SuggestionsEnabled() {
		provider = suggest.NewClient(cfg.SuggestionAPIURL, cfg.SuggestionModel, cfg.SuggestionTimeout, logger)
		slog.Info("suggestions enabled", "model", cfg.SuggestionModel)
	}

	loginLimiter := service.PerMinute(cfg.LoginRatePerMinute)
	defer loginLimiter.Stop()
	suggestLimiter := service.PerMinute(cfg.SuggestRatePerMin)
	defer suggestLimiter.Stop()

	lists := service.NewListService(db)
	accounts := service.NewAccountService(db, secrets)
	services := handler.Services{
		Auth:         service.NewAuthService(db, cfg.JWTSecret, cfg.BcryptCost),
		Lists:        lists,
		Items:        service.NewItemService(db),
		Transfer:     service.NewTransferService(db, cfg.MaxImportItems),
		Accounts:     accounts,
		Categories:   service.NewCategoryService(db),
		Suggestions:  service.NewSuggestionService(accounts, lists, provider, suggestLimiter),
		LoginLimiter: loginLimiter,
		DB:           db.SqlDB,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(services, cfg.Origins()),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
