package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"hostel_picker/internal/domain"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	HTTPTimeout time.Duration
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	SheetName    string
	SheetURL     string
	SheetSources []domain.SheetSource
	SheetRPS     int

	Workers       int
	CacheTTL      time.Duration
	ShortlistK    int
	FallbackPool  int
	ScoringConfig string

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
}

// Load reads the environment. A .env file in the working directory, when
// present, fills in variables that are not already set.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env not loaded")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		HTTPTimeout: time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 45)) * time.Second,
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", ""),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		SheetName: env("SHEET_NAME", "default"),
		SheetURL:  env("SHEET_URL", ""),
		SheetRPS:  atoi("SHEET_RPS", 5),

		Workers:       atoi("INGEST_WORKERS", 4),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 3600)) * time.Second,
		ShortlistK:    atoi("SHORTLIST_K", 15),
		FallbackPool:  atoi("FALLBACK_POOL", 15),
		ScoringConfig: env("SCORING_CONFIG", ""),

		OpenAIKey:     env("OPENAI_API_KEY", ""),
		OpenAIModel:   env("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: env("OPENAI_BASE_URL", ""),
	}

	srcs, err := ParseSources(env("SHEET_SOURCES", ""))
	if err != nil {
		log.Warn().Err(err).Msg("SHEET_SOURCES ignored")
	}
	c.SheetSources = srcs
	if len(c.SheetSources) == 0 && c.SheetURL != "" {
		c.SheetSources = []domain.SheetSource{{Name: c.SheetName, URL: c.SheetURL}}
	}

	if c.SheetURL == "" {
		log.Warn().Msg("SHEET_URL is empty")
	}
	if c.OpenAIKey == "" {
		log.Info().Msg("OPENAI_API_KEY is empty, advisor disabled")
	}
	return c
}

// ParseSources reads a comma separated list of name=url pairs.
func ParseSources(s string) ([]domain.SheetSource, error) {
	var out []domain.SheetSource
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, url, ok := strings.Cut(part, "=")
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("bad sheet source %q, want name=url", part)
		}
		out = append(out, domain.SheetSource{Name: name, URL: url})
	}
	return out, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
