// Package runtimeconfig holds the module's runtime configuration model and
// its validation rules.
package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrSourceLocaleRequired indicates the source locale is blank.
	ErrSourceLocaleRequired = errors.New("runtimeconfig: source locale is required")
	// ErrLocaleBlank indicates a configured target locale is blank.
	ErrLocaleBlank = errors.New("runtimeconfig: locale must not be blank")
	// ErrStorageProviderUnknown indicates an unsupported storage provider.
	ErrStorageProviderUnknown = errors.New("runtimeconfig: unknown storage provider")
	// ErrCacheBudgetInvalid indicates a non-positive cache byte budget.
	ErrCacheBudgetInvalid = errors.New("runtimeconfig: cache max bytes must be positive")
	// ErrCacheTTLInvalid indicates a non-positive cache TTL.
	ErrCacheTTLInvalid = errors.New("runtimeconfig: cache ttl must be positive")
	// ErrLoggingLevelInvalid indicates an unsupported logging level.
	ErrLoggingLevelInvalid = errors.New("runtimeconfig: invalid logging level")
	// ErrLoggingFormatInvalid indicates an unsupported logging format.
	ErrLoggingFormatInvalid = errors.New("runtimeconfig: invalid logging format")
)

// Config is the module's runtime configuration.
type Config struct {
	I18N    I18NConfig
	Storage StorageConfig
	Cache   CacheConfig
	Logging LoggingConfig
}

// I18NConfig describes the document collection's locales.
type I18NConfig struct {
	// SourceLocale is the locale source documents are authored in.
	SourceLocale string
	// Locales lists the translation target locales.
	Locales []string
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Provider is "memory" or "bun". The bun provider requires a *bun.DB
	// supplied through the container options.
	Provider string
}

// CacheConfig tunes the process-wide bundle cache.
type CacheConfig struct {
	Enabled  bool
	MaxBytes int
	TTL      time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the baseline configuration: in-memory storage, the
// shared cache enabled with its default budget, console logging.
func DefaultConfig() Config {
	return Config{
		I18N: I18NConfig{
			SourceLocale: "en",
			Locales:      []string{},
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:  true,
			MaxBytes: 16 * 1024 * 1024,
			TTL:      5 * time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
	}
}

// Validate checks cross-field consistency before the container wires
// anything.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.I18N.SourceLocale) == "" {
		return ErrSourceLocaleRequired
	}
	for _, locale := range cfg.I18N.Locales {
		if strings.TrimSpace(locale) == "" {
			return ErrLocaleBlank
		}
	}
	switch normalize(cfg.Storage.Provider) {
	case "memory", "bun":
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Cache.Enabled {
		if cfg.Cache.MaxBytes <= 0 {
			return ErrCacheBudgetInvalid
		}
		if cfg.Cache.TTL <= 0 {
			return ErrCacheTTLInvalid
		}
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty", "text":
		return true
	default:
		return false
	}
}
