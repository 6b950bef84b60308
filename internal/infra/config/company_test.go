package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fullEnv = map[string]string{
	"SMTP_HOST":      "smtp.global.example",
	"SMTP_PORT":      "587",
	"SMTP_USER":      "hr@global.example",
	"SMTP_PASS":      "secret",
	"ACME_SMTP_HOST": "smtp.acme.example",
	"ACME_SMTP_PORT": "465",
	"ACME_SMTP_USER": "hr@acme.example",
	"ACME_SMTP_PASS": "acme-secret",
	"ACME_EMAIL_CC":  "boss@acme.example, hrteam@acme.example",
}

func TestCompanyPrefixOverridesGlobal(t *testing.T) {
	r := NewCompanyResolver(mapGetter(fullEnv), []string{"Acme", "Globex"})

	cfg, err := r.Get("Acme")
	require.NoError(t, err)
	assert.Equal(t, "smtp.acme.example", cfg.SMTPHost)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "hr@acme.example", cfg.SMTPUser)
	assert.Equal(t, []string{"boss@acme.example", "hrteam@acme.example"}, cfg.CC)
}

func TestGlobalFallbackForUnprefixedCompany(t *testing.T) {
	r := NewCompanyResolver(mapGetter(fullEnv), []string{"Acme", "Globex"})

	cfg, err := r.Get("Globex")
	require.NoError(t, err)
	assert.Equal(t, "smtp.global.example", cfg.SMTPHost)
	assert.Equal(t, "hr@global.example", cfg.SMTPUser)
}

func TestUnknownCompanyUsesFallbackEntry(t *testing.T) {
	r := NewCompanyResolver(mapGetter(fullEnv), []string{"Acme"})

	cfg, err := r.Get("Initech")
	require.NoError(t, err)
	assert.Equal(t, FallbackCompany, cfg.Company)
	assert.Equal(t, "smtp.global.example", cfg.SMTPHost)
}

func TestPort465YieldsSSLOthersStartTLS(t *testing.T) {
	r := NewCompanyResolver(mapGetter(fullEnv), []string{"Acme", "Globex"})

	acme, err := r.Get("Acme")
	require.NoError(t, err)
	assert.Equal(t, SecuritySSL, acme.Security)

	globex, err := r.Get("Globex")
	require.NoError(t, err)
	assert.Equal(t, SecurityStartTLS, globex.Security)
}

func TestMissingFieldValidationIsDeferredToGet(t *testing.T) {
	env := map[string]string{
		"SMTP_HOST": "smtp.global.example",
		"SMTP_PORT": "587",
		"SMTP_USER": "hr@global.example",
		// SMTP_PASS intentionally absent
	}

	// Construction never fails, even with broken settings.
	r := NewCompanyResolver(mapGetter(env), []string{"Acme"})

	_, err := r.Get("Acme")
	require.Error(t, err)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Acme", missing.Company)
	assert.Contains(t, missing.Fields, "smtp_pass")
	assert.NotContains(t, missing.Fields, "smtp_host")
}

func TestDetectCompany(t *testing.T) {
	r := NewCompanyResolver(mapGetter(fullEnv), []string{"Acme", "Globex"})

	assert.Equal(t, "Acme", r.DetectCompany("/data/ACME_MASTER_EXCEL_HR_2026.xlsx"))
	assert.Equal(t, "Globex", r.DetectCompany("globex-hr.xlsx"))
	assert.Equal(t, FallbackCompany, r.DetectCompany("/data/unrelated.xlsx"))
}

func TestDefaultTemplatesApplied(t *testing.T) {
	r := NewCompanyResolver(mapGetter(fullEnv), []string{"Acme"})

	cfg, err := r.Get("Acme")
	require.NoError(t, err)
	assert.Equal(t, defaultTeamNameTemplate, cfg.TeamNameTemplate)
	assert.Equal(t, defaultSubjectTemplate, cfg.SubjectTemplate)
}
