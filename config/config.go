// Package config loads process configuration from the environment. No
// example repo in the pack reaches for a config-loading library such as
// viper; env vars plus spf13/cast for type coercion, already the teacher's
// own idiom for loose-to-typed conversion (ai/vectorstore/filter,
// ai/providers/vectorstores/qdrant/converter.go), is what this carries
// forward rather than introducing a new dependency for the concern.
package config

import (
	"os"
	"time"

	"github.com/spf13/cast"

	"github.com/i-dot-ai/lex/amendments"
	"github.com/i-dot-ai/lex/pipeline"
)

// Config is every environment-derived setting the ingest and search
// entrypoints need. Zero-value fields fall back to the defaults documented
// alongside each Load call below.
type Config struct {
	QdrantHost string
	QdrantPort int

	AzureEndpoint   string
	AzureAPIKey     string
	AzureDeployment string

	CacheDir           string
	CheckpointDir      string
	BatchSize          int
	EmbedWorkers       int
	RateLimitThreshold int

	DailyCronSpec   string
	RefreshCronSpec string
	RefreshLookback int

	RedisAddr string
	CacheTTL  time.Duration
}

// Load reads Config from the environment, falling back to defaults
// matched to a local development deployment (localhost Qdrant, /tmp scratch
// directories, a daily sweep at 03:00 and a refresh pass half an hour
// after).
func Load() Config {
	return Config{
		QdrantHost: getString("LEX_QDRANT_HOST", "localhost"),
		QdrantPort: getInt("LEX_QDRANT_PORT", 6334),

		AzureEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureAPIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureDeployment: getString("LEX_AZURE_DEPLOYMENT", "text-embedding-3-large"),

		CacheDir:           getString("LEX_CACHE_DIR", "/tmp/lex-scrape-cache"),
		CheckpointDir:      getString("LEX_CHECKPOINT_DIR", "/tmp/lex-checkpoints"),
		BatchSize:          getInt("LEX_BATCH_SIZE", pipeline.DefaultBatchSize),
		EmbedWorkers:       getInt("LEX_EMBED_WORKERS", 4),
		RateLimitThreshold: getInt("LEX_RATE_LIMIT_THRESHOLD", pipeline.DefaultRateLimitThreshold),

		DailyCronSpec:   getString("LEX_DAILY_CRON", "0 0 3 * * *"),
		RefreshCronSpec: getString("LEX_REFRESH_CRON", "0 30 3 * * *"),
		RefreshLookback: getInt("LEX_REFRESH_LOOKBACK_YEARS", amendments.DefaultLookbackWindowYears),

		RedisAddr: os.Getenv("LEX_REDIS_ADDR"),
		CacheTTL:  getDuration("LEX_CACHE_TTL", 5*time.Minute),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n := cast.ToInt(v)
	if n == 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d := cast.ToDuration(v)
	if d == 0 {
		return fallback
	}
	return d
}
