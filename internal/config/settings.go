package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rgehrsitz/lktax/internal/domain"
)

// Environment variables recognised by LoadSettings
const (
	EnvRatesFile           = "LKTAX_RATES_FILE"
	EnvDefaultTaxYear      = "LKTAX_DEFAULT_TAX_YEAR"
	EnvDefaultBusinessType = "LKTAX_DEFAULT_BUSINESS_TYPE"
	EnvDefaultForeignType  = "LKTAX_DEFAULT_FOREIGN_TYPE"
	EnvLogLevel            = "LKTAX_LOG_LEVEL"
)

// Settings is the runtime configuration shared by the CLI and the TUI
type Settings struct {
	RatesFile           string
	DefaultYear         domain.TaxYear
	DefaultBusinessType domain.SubType
	DefaultForeignType  domain.SubType
	LogLevel            string
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		DefaultYear:         "2025",
		DefaultBusinessType: domain.SubTypeGeneral,
		DefaultForeignType:  domain.SubTypeOther,
		LogLevel:            "warn",
	}
}

// LoadSettings reads settings from the process environment, seeded from a .env file.
// Variables already set in the environment win over the file. A missing envFile is
// only an error when it was named explicitly.
func LoadSettings(envFile string) (Settings, error) {
	path := envFile
	if path == "" {
		path = ".env"
	}

	fileVars, err := godotenv.Read(path)
	if err != nil {
		if envFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		fileVars = map[string]string{}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVars[key]
	}
	return settingsFrom(lookup)
}

func settingsFrom(lookup func(string) string) (Settings, error) {
	s := DefaultSettings()

	if v := lookup(EnvRatesFile); v != "" {
		s.RatesFile = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		s.LogLevel = v
	}
	if v := lookup(EnvDefaultTaxYear); v != "" {
		year, err := domain.ParseTaxYear(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvDefaultTaxYear, err)
		}
		s.DefaultYear = year
	}
	if v := lookup(EnvDefaultBusinessType); v != "" {
		st, err := domain.ParseSubType(v)
		if err != nil || !domain.CategoryBusiness.AcceptsSubType(st) {
			return Settings{}, fmt.Errorf("%s: %w: %q is not a business type", EnvDefaultBusinessType, domain.ErrInvalidInput, v)
		}
		s.DefaultBusinessType = st
	}
	if v := lookup(EnvDefaultForeignType); v != "" {
		st, err := domain.ParseSubType(v)
		if err != nil || !domain.CategoryForeign.AcceptsSubType(st) {
			return Settings{}, fmt.Errorf("%s: %w: %q is not a foreign income type", EnvDefaultForeignType, domain.ErrInvalidInput, v)
		}
		s.DefaultForeignType = st
	}
	return s, nil
}

// DefaultSubTypes returns the fallback sub-type for each category that has sub-types
func (s Settings) DefaultSubTypes() map[domain.TaxCategory]domain.SubType {
	return map[domain.TaxCategory]domain.SubType{
		domain.CategoryBusiness: s.DefaultBusinessType,
		domain.CategoryForeign:  s.DefaultForeignType,
	}
}
