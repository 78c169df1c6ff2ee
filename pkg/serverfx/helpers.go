package serverfx

import (
	"os"
	"time"
)

const reloadTimeout = 30 * time.Second

func envOr(k, def string) string {
	if k == "" {
		return def
	}
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func msDuration(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }
