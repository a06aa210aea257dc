package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DrugInfoConfig defines settings for the openFDA drug-label lookups.  When
// Enabled is false the search endpoint answers with an empty result set.
// CacheTTL controls how long label responses stay in Redis; label data
// changes rarely, so the default keeps a full day.
type DrugInfoConfig struct {
	Enabled  bool
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	Limit    int
	Prefix   string
}

// LoadDrugInfoConfig reads environment variables to build a DrugInfoConfig.
// Defaults are used when variables are not set.
func LoadDrugInfoConfig() DrugInfoConfig {
	return DrugInfoConfig{
		Enabled:  getenv("DRUGINFO_ENABLED", "true") == "true",
		BaseURL:  getenv("DRUGINFO_BASE_URL", "https://api.fda.gov"),
		Timeout:  parseDur(getenv("DRUGINFO_TIMEOUT", "10s")),
		CacheTTL: parseDur(getenv("DRUGINFO_CACHE_TTL", "24h")),
		Limit:    atoi(getenv("DRUGINFO_LIMIT", "5")),
		Prefix:   strings.TrimSpace(getenv("DRUGINFO_CACHE_PREFIX", "druglabel")),
	}
}

// Helper functions shared with ratelimit.go and redis.go
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
