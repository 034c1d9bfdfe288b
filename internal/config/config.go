package config

import (
	"os"
	"strconv"
)

// Config carries the tunables of the engine. Values come from environment
// variables; cmd/biostar loads a .env file first.
type Config struct {
	// DatabaseURL is a postgres DSN. Empty selects the embedded sqlite
	// database at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	LogLevel string

	// VoteRankHours controls how many hours of rank a single up-vote is
	// worth (rank moves by 3600 * VoteRankHours).
	VoteRankHours float64

	// ViewRankBonus is added to a post's rank per counted view.
	ViewRankBonus float64

	// ContentIndexing enables the search indexer callback.
	ContentIndexing bool
}

func Load() Config {
	return Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      getenv("SQLITE_PATH", "biostar.db"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		VoteRankHours:   getfloat("VOTE_RANK_HOURS", 1),
		ViewRankBonus:   getfloat("VIEW_RANK_BONUS", 3600),
		ContentIndexing: getbool("CONTENT_INDEXING", false),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getfloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
