package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hostel_picker/internal/adapters/observability"
	redisad "hostel_picker/internal/adapters/redis"
	"hostel_picker/internal/adapters/sheets"
	"hostel_picker/internal/app"
	"hostel_picker/internal/domain"
	"hostel_picker/internal/shared"
	mysqlrepo "hostel_picker/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "ingestor")

	log.Info().
		Int("sources", len(cfg.SheetSources)).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	if len(cfg.SheetSources) == 0 {
		log.Fatal().Msg("no sheet sources: set SHEET_SOURCES or SHEET_URL")
	}
	if cfg.MySQLDSN == "" {
		log.Fatal().Msg("MYSQL_DSN is required")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	syncer := app.NewSyncService(sheets.New(cfg.SheetRPS), repo, cache, cfg.CacheTTL)

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for _, src := range cfg.SheetSources {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(s domain.SheetSource) {
			defer wg.Done()
			defer sem.Release(1)

			if err := syncer.SyncSource(ctx, s); err != nil {
				log.Warn().Str("source", s.Name).Err(err).Msg("sync failed")
			}
		}(src)
	}

	wg.Wait()
	log.Info().Msg("sync completed")
}
