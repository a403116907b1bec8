package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hostel_picker/internal/adapters/observability"
	"hostel_picker/internal/domain"
	"hostel_picker/internal/matching"
	"hostel_picker/internal/table"
)

// SheetCacheKey is the cache key under which the export text of url is kept.
func SheetCacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return "sheet:" + hex.EncodeToString(sum[:])
}

type ShortlistConfig struct {
	Source   string
	URL      string
	CacheTTL time.Duration
	Options  matching.Options
}

// ShortlistService serves shortlists (and optionally advice) for the one
// sheet it is configured with. Cache, snapshot store and advisor may be nil.
type ShortlistService struct {
	sheets  domain.SheetClient
	cache   domain.Cache
	snaps   domain.SnapshotRepository
	advisor domain.Advisor
	engine  *matching.Engine
	cfg     ShortlistConfig
}

func NewShortlistService(
	sheets domain.SheetClient,
	cache domain.Cache,
	snaps domain.SnapshotRepository,
	adv domain.Advisor,
	engine *matching.Engine,
	cfg ShortlistConfig,
) *ShortlistService {
	return &ShortlistService{sheets: sheets, cache: cache, snaps: snaps, advisor: adv, engine: engine, cfg: cfg}
}

// FetchTable returns the export text, from cache when fresh. When the sheet
// cannot be fetched the newest stored snapshot is served instead.
func (s *ShortlistService) FetchTable(ctx context.Context) (string, error) {
	key := SheetCacheKey(s.cfg.URL)
	if s.cache != nil {
		var text string
		if ok, _ := s.cache.Get(ctx, key, &text); ok {
			return text, nil
		}
	}

	text, err := s.sheets.FetchCSV(ctx, s.cfg.URL)
	if err != nil {
		if s.snaps != nil {
			snap, serr := s.snaps.LatestSnapshot(ctx, s.cfg.Source)
			if serr == nil {
				observability.ObserveFetchFailure(err, true)
				log.Warn().Err(err).
					Str("source", s.cfg.Source).
					Str("snapshot", snap.ID).
					Time("fetched_at", snap.FetchedAt).
					Msg("stale_snapshot")
				return snap.Body, nil
			}
			if !errors.Is(serr, domain.ErrNotFound) {
				log.Error().Err(serr).Str("source", s.cfg.Source).Msg("snapshot lookup failed")
			}
		}
		observability.ObserveFetchFailure(err, false)
		return "", fmt.Errorf("fetch sheet %s: %w", s.cfg.Source, err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, text, int(s.cfg.CacheTTL.Seconds()))
	}
	return text, nil
}

// Records returns the parsed table.
func (s *ShortlistService) Records(ctx context.Context) ([]domain.Record, error) {
	text, err := s.FetchTable(ctx)
	if err != nil {
		return nil, err
	}
	return table.Parse(text), nil
}

// Shortlist fetches and parses the table and ranks it for p. k <= 0 uses the
// configured K.
func (s *ShortlistService) Shortlist(ctx context.Context, p domain.UserProfile, k int) (matching.Shortlist, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return matching.Shortlist{}, err
	}

	opts := s.cfg.Options
	if k > 0 {
		opts.K = k
	}
	res := s.engine.Select(records, p, opts)

	observability.ObserveShortlist(res.Fallback, len(records))
	log.Info().
		Str("source", s.cfg.Source).
		Int("records", len(records)).
		Int("pool", res.Pool).
		Bool("fallback", res.Fallback).
		Int("candidates", len(res.Candidates)).
		Msg("shortlist")
	return res, nil
}

// Recommend shortlists for p and asks the advisor to pick from it. Images are
// kept out of the advisor payload and re-attached by exact venue name.
func (s *ShortlistService) Recommend(ctx context.Context, p domain.UserProfile, msgs []domain.ChatMessage) (domain.Advice, error) {
	if s.advisor == nil {
		return domain.Advice{}, domain.ErrAdvisorDisabled
	}
	res, err := s.Shortlist(ctx, p, 0)
	if err != nil {
		return domain.Advice{}, err
	}

	lean := make([]domain.RankedCandidate, len(res.Candidates))
	images := make(map[string]string, len(res.Candidates))
	for i, c := range res.Candidates {
		lean[i] = c
		lean[i].Record = c.Record.Without(imageField)
		if _, seen := images[c.Record.Name()]; !seen {
			images[c.Record.Name()] = c.Record.Str(imageField)
		}
	}

	adv, err := s.advisor.Advise(ctx, domain.AdviceRequest{Profile: p, Messages: msgs, Candidates: lean})
	if err != nil {
		return domain.Advice{}, fmt.Errorf("advise: %w", err)
	}
	for i := range adv.Recommendations {
		adv.Recommendations[i].HostelImg = images[adv.Recommendations[i].Name]
	}
	return adv, nil
}

const imageField = "hostel_img"
