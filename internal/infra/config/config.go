package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Getter is a flat key-value configuration lookup, normally os.Getenv.
type Getter func(key string) string

// AppConfig holds the run-wide (non-company) configuration.
type AppConfig struct {
	WorkbookFiles         []string
	Companies             []string
	AttachPath            string
	AuditLogDir           string
	DryRun                bool
	DelayBetweenSends     time.Duration
	DelayBetweenCompanies time.Duration
	StatusFilter          string // raw P_STATUS_FILTER value, interpreted by the birthday filter
	SMTPTimeout           time.Duration
	LogLevel              string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	return LoadFrom(os.Getenv)
}

// LoadFrom builds the AppConfig from an arbitrary lookup. Exposed so
// tests can feed a map instead of the process environment.
func LoadFrom(get Getter) (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.WorkbookFiles = parseList(get("WORKBOOK_FILES"))
	cfg.Companies = parseList(get("COMPANIES"))
	cfg.AttachPath = get("ATTACH_PATH")

	cfg.AuditLogDir = get("AUDIT_LOG_DIR")
	if cfg.AuditLogDir == "" {
		cfg.AuditLogDir = "logs"
	}

	cfg.DryRun = strings.EqualFold(get("DRY_RUN"), "true")

	var err error
	cfg.DelayBetweenSends, err = parseSeconds(get("DELAY_BETWEEN_SENDS"), 500*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("invalid DELAY_BETWEEN_SENDS: %w", err)
	}
	cfg.DelayBetweenCompanies, err = parseSeconds(get("DELAY_BETWEEN_COMPANIES"), 2500*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("invalid DELAY_BETWEEN_COMPANIES: %w", err)
	}
	cfg.SMTPTimeout, err = parseSeconds(get("SMTP_TIMEOUT"), 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_TIMEOUT: %w", err)
	}

	cfg.StatusFilter = strings.ToUpper(get("P_STATUS_FILTER"))
	if cfg.StatusFilter == "" {
		cfg.StatusFilter = "A"
	}

	cfg.LogLevel = strings.ToLower(get("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	return cfg, nil
}

// parseList splits a comma-separated env value, dropping blanks.
func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseSeconds interprets an env value as a (possibly fractional)
// number of seconds, e.g. "0.5".
func parseSeconds(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}
