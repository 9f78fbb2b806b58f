package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adsdash/internal/ads/googleads"
	"adsdash/internal/ads/meta"
	"adsdash/internal/cache"
	"adsdash/internal/config"
	"adsdash/internal/dashboard"
	"adsdash/internal/httpx"
	"adsdash/internal/ingest"
	"adsdash/internal/sheets"
	gsheet "adsdash/internal/sheets/google"
	mem "adsdash/internal/sheets/memory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reader sheets.TabReader
	switch cfg.Sheets.Backend {
	case "sheets":
		cli, err := gsheet.New(ctx, cfg.Sheets.SpreadsheetID)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		reader = cli
		if tabs, err := cli.Tabs(ctx); err == nil {
			logger.Info("Initialized Google Sheets backend",
				"spreadsheet", cfg.Sheets.SpreadsheetID, "tabs", tabs)
		} else {
			logger.Warn("Initialized Google Sheets backend, tab listing failed",
				"spreadsheet", cfg.Sheets.SpreadsheetID, "error", err)
		}
	default:
		reader = mem.NewDemo()
		logger.Info("Initialized demo backend")
	}

	fetcher := ingest.NewFetcher(reader, cfg.Sheets.CacheTTL, logger)
	metaClient := meta.New(meta.Config{
		AccessToken: cfg.Meta.AccessToken,
		AccountID:   cfg.Meta.AccountID,
		Timeout:     cfg.Meta.Timeout,
	}, cfg.Sheets.CacheTTL)
	googleClient := googleads.New(googleads.Config{
		DeveloperToken: cfg.Google.DeveloperToken,
		AccessToken:    cfg.Google.AccessToken,
		CustomerID:     cfg.Google.CustomerID,
		Timeout:        cfg.Google.Timeout,
	}, cfg.Sheets.CacheTTL)

	if !metaClient.Configured() {
		logger.Warn("Meta Ads credentials missing, metrics will read as zero")
	}
	if !googleClient.Configured() {
		logger.Warn("Google Ads credentials missing, metrics will read as zero")
	}

	caches := cache.NewManager()
	caches.Register(fetcher.Cache())
	for _, c := range metaClient.Caches() {
		caches.Register(c)
	}
	for _, c := range googleClient.Caches() {
		caches.Register(c)
	}
	caches.StartCleanup(cfg.Sheets.CacheTTL)
	defer caches.Stop()

	tabs := dashboard.Tabs{
		Leads:        cfg.Sheets.LeadTabs,
		Qualified:    cfg.Sheets.QualifiedTabs,
		Disqualified: cfg.Sheets.DisqualifiedTabs,
		Converted:    cfg.Sheets.ConvertedTabs,
	}
	svc := dashboard.NewService(fetcher, metaClient, googleClient, tabs, logger)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:        httpx.NewRouter(logger, svc),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting adsdash server", "port", cfg.HTTP.Port, "backend", cfg.Sheets.Backend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func newLogger(cfg config.Logger) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.SlogFormat() == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
