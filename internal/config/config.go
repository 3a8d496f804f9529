package config

import "os"

const (
	defaultBaseURL = "http://localhost:8000/api"
	defaultDBFile  = "formfillui.db"
	defaultLogFile = "formfillui.log"
)

type Config struct {
	BaseURL string
	DBFile  string
	LogFile string
}

// NewConfig builds a Config from environment variables, falling back
// to local-development defaults.
func NewConfig() *Config {
	return &Config{
		BaseURL: getenv("FORMFILL_API_URL", defaultBaseURL),
		DBFile:  getenv("FORMFILL_DB_FILE", defaultDBFile),
		LogFile: getenv("FORMFILL_LOG_FILE", defaultLogFile),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
