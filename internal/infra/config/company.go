package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Security is the SMTP transport mode derived from the configured port.
type Security string

const (
	SecuritySSL      Security = "SSL"      // implicit TLS, port 465 convention
	SecurityStartTLS Security = "STARTTLS" // plaintext connect upgraded in place
)

// FallbackCompany is the label used when no known company token is
// found in a workbook filename. Its config resolves from the
// unprefixed (global) keys only.
const FallbackCompany = "Company"

const defaultSubjectTemplate = "🎉 Happy Birthday, {first_name}! - {company} Team"
const defaultTeamNameTemplate = "{company} HR Team"

// CompanyConfig is the effective per-company configuration, resolved
// with company-prefixed keys first, global keys second, and literal
// defaults last.
type CompanyConfig struct {
	Company          string
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPass         string
	CC               []string
	BCC              []string
	TeamNameTemplate string
	SubjectTemplate  string
	ReputationDomain string
	Security         Security
	CardImage        string
	Site             string
}

// MissingFieldError reports required SMTP fields that were empty when a
// company's config was requested.
type MissingFieldError struct {
	Company string
	Fields  []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing SMTP settings for %s: %s", e.Company, strings.Join(e.Fields, ", "))
}

// CompanyResolver hands out per-company configs. Configs are built
// eagerly at construction but validated lazily in Get, so a company
// with broken settings only fails when its source is actually
// processed.
type CompanyResolver struct {
	configs  map[string]CompanyConfig
	fallback CompanyConfig
	known    []string
}

// NewCompanyResolver builds the per-company config map from the lookup.
// companies is the known company set (the COMPANIES env list); each
// company's env prefix is its upper-cased name.
func NewCompanyResolver(get Getter, companies []string) *CompanyResolver {
	r := &CompanyResolver{
		configs: make(map[string]CompanyConfig, len(companies)),
		known:   companies,
	}
	for _, c := range companies {
		r.configs[c] = buildCompanyConfig(get, strings.ToUpper(c), c)
	}
	r.fallback = buildCompanyConfig(get, "", FallbackCompany)
	return r
}

// Get returns the config for the detected company, falling back to the
// generic entry for unrecognized companies. It returns a
// *MissingFieldError when any of host, port, user or pass is unset.
func (r *CompanyResolver) Get(company string) (CompanyConfig, error) {
	cfg, ok := r.configs[company]
	if !ok {
		cfg = r.fallback
	}

	var missing []string
	if cfg.SMTPHost == "" {
		missing = append(missing, "smtp_host")
	}
	if cfg.SMTPPort == 0 {
		missing = append(missing, "smtp_port")
	}
	if cfg.SMTPUser == "" {
		missing = append(missing, "smtp_user")
	}
	if cfg.SMTPPass == "" {
		missing = append(missing, "smtp_pass")
	}
	if len(missing) > 0 {
		return CompanyConfig{}, &MissingFieldError{Company: company, Fields: missing}
	}
	return cfg, nil
}

// DetectCompany finds a known company token in the workbook filename,
// case-insensitively. Unmatched files map to FallbackCompany.
func (r *CompanyResolver) DetectCompany(path string) string {
	name := strings.ToUpper(filepath.Base(path))
	for _, c := range r.known {
		if strings.Contains(name, strings.ToUpper(c)) {
			return c
		}
	}
	return FallbackCompany
}

func buildCompanyConfig(get Getter, prefix, label string) CompanyConfig {
	// gv resolves one field: company-prefixed key, then the global key,
	// then the literal default.
	gv := func(key, def string) string {
		if prefix != "" {
			if v := get(prefix + "_" + key); v != "" {
				return v
			}
		}
		if v := get(key); v != "" {
			return v
		}
		return def
	}

	cfg := CompanyConfig{
		Company:          label,
		SMTPHost:         gv("SMTP_HOST", ""),
		SMTPUser:         gv("SMTP_USER", ""),
		SMTPPass:         gv("SMTP_PASS", ""),
		CC:               parseList(gv("EMAIL_CC", "")),
		BCC:              parseList(gv("EMAIL_BCC", "")),
		TeamNameTemplate: gv("TEAM_NAME_TEMPLATE", defaultTeamNameTemplate),
		SubjectTemplate:  gv("SUBJECT_TEMPLATE", defaultSubjectTemplate),
		ReputationDomain: gv("EMAIL_REPUTATION_DOMAIN", ""),
		CardImage:        gv("CARD_IMAGE", ""),
		Site:             gv("SITE", ""),
	}

	port, err := strconv.Atoi(gv("SMTP_PORT", "587"))
	if err != nil {
		port = 587
	}
	cfg.SMTPPort = port

	if cfg.SMTPPort == 465 {
		cfg.Security = SecuritySSL
	} else {
		cfg.Security = SecurityStartTLS
	}
	return cfg
}
