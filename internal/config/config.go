package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr           string        // API bind address, e.g., "127.0.0.1:8080" or ":8080"
	LogDir         string        // logs directory
	DatabaseDriver string        // "memory" | "sqlite" | "postgres"
	DatabaseURL    string        // DSN for sqlite (file path) or postgres
	ProbeTimeout   time.Duration // per-probe HTTP timeout
	WaveSize       int           // concurrent probes per wave
	RedThreshold   int           // error-bearing logs per day that make a day red
	LocalZone      string        // named zone for the second daily rollup pass
	AdminAPIKeys   []string      // keys allowed to fire the task triggers
	PublicAPIKeys  []string      // keys allowed on read routes
	PublicRPM      int           // rate limit on read routes, requests per minute
	PublicBurst    int
}

func FromEnv() Config {
	return Config{
		Addr:           getEnv("ADDR", "127.0.0.1:8080"),
		LogDir:         getEnv("LOG_DIR", "logs"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "memory"),
		DatabaseURL:    getEnv("DATABASE_URL", "pagewatch.db"),
		ProbeTimeout:   time.Duration(getEnvInt("PROBE_TIMEOUT_MS", 10_000)) * time.Millisecond,
		WaveSize:       getEnvInt("WAVE_SIZE", 10),
		RedThreshold:   getEnvInt("RED_THRESHOLD", 12),
		LocalZone:      getEnv("LOCAL_ZONE", "Europe/Prague"),
		AdminAPIKeys:   splitKeys(os.Getenv("ADMIN_API_KEYS")),
		PublicAPIKeys:  splitKeys(os.Getenv("PUBLIC_API_KEYS")),
		PublicRPM:      getEnvInt("PUBLIC_RPM", 120),
		PublicBurst:    getEnvInt("PUBLIC_BURST", 60),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// splitKeys parses a comma-separated key list, dropping empties.
func splitKeys(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
