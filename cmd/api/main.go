package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hostel_picker/internal/adapters/advisor"
	server "hostel_picker/internal/adapters/http_server"
	"hostel_picker/internal/adapters/observability"
	redisad "hostel_picker/internal/adapters/redis"
	"hostel_picker/internal/adapters/sheets"
	"hostel_picker/internal/app"
	"hostel_picker/internal/domain"
	"hostel_picker/internal/matching"
	"hostel_picker/internal/shared"
	mysqlrepo "hostel_picker/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	reg := observability.InitRegistry()
	metricsSrv := observability.Serve(cfg.MetricsAddr, reg)

	if cfg.SheetURL == "" {
		log.Fatal().Msg("SHEET_URL is required")
	}

	scoring, err := matching.LoadConfig(cfg.ScoringConfig)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ScoringConfig).Msg("scoring config")
	}

	// deps
	var snaps domain.SnapshotRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		snaps = mysqlrepo.New(db)
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cache.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, reads will go to the sheet")
	}
	cancel()

	var adv domain.Advisor
	if cfg.OpenAIKey != "" {
		adv = advisor.New(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, 0)
	}

	svc := app.NewShortlistService(sheets.New(cfg.SheetRPS), cache, snaps, adv, matching.NewEngine(scoring), app.ShortlistConfig{
		Source:   cfg.SheetName,
		URL:      cfg.SheetURL,
		CacheTTL: cfg.CacheTTL,
		Options:  matching.Options{K: cfg.ShortlistK, FallbackPool: cfg.FallbackPool},
	})

	// http
	srv := server.New(cfg.HTTPTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(server.NewHandlers(svc))

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("sheet", cfg.SheetName).Bool("advisor", adv != nil).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
