package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hostel_picker/internal/adapters/observability"
	"hostel_picker/internal/domain"
	"hostel_picker/internal/table"
)

type SyncService struct {
	sheets   domain.SheetClient
	repo     domain.SnapshotRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewSyncService(c domain.SheetClient, r domain.SnapshotRepository, cache domain.Cache, ttl time.Duration) *SyncService {
	return &SyncService{sheets: c, repo: r, cache: cache, cacheTTL: ttl, now: time.Now}
}

func (s *SyncService) SyncSource(ctx context.Context, src domain.SheetSource) error {
	// 1) Fetch. Known 404/401/403 are recorded as misses, not failures.
	text, err := s.sheets.FetchCSV(ctx, src.URL)
	if err != nil {
		status, reason := missOf(err)
		if status == 0 {
			observability.ObserveSync(src.Name, "error")
			return fmt.Errorf("sync %s: %w", src.Name, err)
		}
		_ = s.repo.LogMiss(ctx, src.Name, status, reason)
		// Evict so readers stop getting a table the sheet no longer publishes.
		if s.cache != nil {
			_ = s.cache.Del(ctx, SheetCacheKey(src.URL))
		}
		observability.ObserveSync(src.Name, "miss")
		log.Warn().Err(err).Str("source", src.Name).Int("status", status).Msg("sync miss")
		return nil
	}

	// 2) A table without a single usable row is never stored.
	records := table.Parse(text)
	if len(records) == 0 {
		_ = s.repo.LogMiss(ctx, src.Name, http.StatusOK, domain.ErrEmptyTable.Error())
		observability.ObserveSync(src.Name, "miss")
		log.Warn().Str("source", src.Name).Msg("sync miss: empty table")
		return nil
	}

	sum := sha1.Sum([]byte(text))
	snap := domain.Snapshot{
		ID:        uuid.NewString(),
		Source:    src.Name,
		URL:       src.URL,
		Checksum:  hex.EncodeToString(sum[:]),
		Records:   len(records),
		Body:      text,
		FetchedAt: s.now().UTC(),
	}
	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		observability.ObserveSync(src.Name, "error")
		return fmt.Errorf("save snapshot for %s: %w", src.Name, err)
	}

	// 3) Refresh the read cache with what was just stored.
	if s.cache != nil {
		_ = s.cache.Set(ctx, SheetCacheKey(src.URL), text, int(s.cacheTTL.Seconds()))
	}

	observability.ObserveSync(src.Name, "ok")
	log.Info().
		Str("source", src.Name).
		Str("snapshot", snap.ID).
		Str("checksum", snap.Checksum).
		Int("records", snap.Records).
		Msg("sync ok")
	return nil
}

func missOf(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	}
	return 0, ""
}
