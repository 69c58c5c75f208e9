package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	URLsFile      string        // target list, one URL per line
	DBFile        string        // SQLite store path
	LogDir        string        // logs directory
	HTTPTimeout   time.Duration // per-probe total timeout
	RetentionDays int           // rows older than this are pruned each run
	UserAgent     string        // identifying probe user-agent
}

func FromEnv() Config {
	urlsFile := os.Getenv("URLS_FILE")
	if urlsFile == "" {
		urlsFile = "urls.txt"
	}

	dbFile := os.Getenv("DB_FILE")
	if dbFile == "" {
		dbFile = "website_stats.db"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	timeout := 30 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}

	retention := 30
	if v := os.Getenv("RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			retention = n
		}
	}

	ua := os.Getenv("USER_AGENT")
	if ua == "" {
		ua = "Mozilla/5.0 (uptime-monitor)"
	}

	return Config{
		URLsFile:      urlsFile,
		DBFile:        dbFile,
		LogDir:        logDir,
		HTTPTimeout:   timeout,
		RetentionDays: retention,
		UserAgent:     ua,
	}
}
