package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	APIBase       string
	WebBase       string
	Timeout       time.Duration
	MaxDepth      int
	MaxFanout     int
	MaxConcurrent int
	ScrapePages   int
	LogLevel      string
	RateLimits    RateLimits
}

type RateLimits struct {
	RequestsPerMinute int
}

func Load() Config {
	_ = godotenv.Load()

	addr := envString("HNSERVE_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}

	return Config{
		Addr:          addr,
		APIBase:       envString("HNSERVE_API_BASE", "https://hacker-news.firebaseio.com/v0"),
		WebBase:       envString("HNSERVE_WEB_BASE", "https://news.ycombinator.com"),
		Timeout:       envDuration("HNSERVE_TIMEOUT", 30*time.Second),
		MaxDepth:      envInt("HNSERVE_MAX_DEPTH", 50),
		MaxFanout:     envInt("HNSERVE_MAX_FANOUT", 512),
		MaxConcurrent: envInt("HNSERVE_MAX_CONCURRENT", 64),
		ScrapePages:   envInt("HNSERVE_SCRAPE_PAGES", 4),
		LogLevel:      envString("HNSERVE_LOG_LEVEL", "info"),
		RateLimits: RateLimits{
			RequestsPerMinute: envInt("HNSERVE_RL_PER_MIN", 300),
		},
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
