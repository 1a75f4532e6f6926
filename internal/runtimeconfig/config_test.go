package runtimeconfig

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "blank source locale",
			mutate:  func(cfg *Config) { cfg.I18N.SourceLocale = "  " },
			wantErr: ErrSourceLocaleRequired,
		},
		{
			name:    "blank target locale",
			mutate:  func(cfg *Config) { cfg.I18N.Locales = []string{"es", ""} },
			wantErr: ErrLocaleBlank,
		},
		{
			name:    "unknown storage provider",
			mutate:  func(cfg *Config) { cfg.Storage.Provider = "postgres" },
			wantErr: ErrStorageProviderUnknown,
		},
		{
			name:    "bun provider accepted",
			mutate:  func(cfg *Config) { cfg.Storage.Provider = "Bun " },
			wantErr: nil,
		},
		{
			name:    "zero cache budget",
			mutate:  func(cfg *Config) { cfg.Cache.MaxBytes = 0 },
			wantErr: ErrCacheBudgetInvalid,
		},
		{
			name:    "negative cache ttl",
			mutate:  func(cfg *Config) { cfg.Cache.TTL = -time.Second },
			wantErr: ErrCacheTTLInvalid,
		},
		{
			name: "disabled cache skips cache checks",
			mutate: func(cfg *Config) {
				cfg.Cache.Enabled = false
				cfg.Cache.MaxBytes = 0
				cfg.Cache.TTL = 0
			},
			wantErr: nil,
		},
		{
			name:    "unknown logging level",
			mutate:  func(cfg *Config) { cfg.Logging.Level = "verbose" },
			wantErr: ErrLoggingLevelInvalid,
		},
		{
			name:    "unknown logging format",
			mutate:  func(cfg *Config) { cfg.Logging.Format = "xml" },
			wantErr: ErrLoggingFormatInvalid,
		},
		{
			name:    "blank logging options use defaults",
			mutate:  func(cfg *Config) { cfg.Logging.Level = ""; cfg.Logging.Format = "" },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
