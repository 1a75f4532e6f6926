package translations

import "github.com/goliatone/go-translations/internal/runtimeconfig"

var (
	ErrSourceLocaleRequired   = runtimeconfig.ErrSourceLocaleRequired
	ErrLocaleBlank            = runtimeconfig.ErrLocaleBlank
	ErrStorageProviderUnknown = runtimeconfig.ErrStorageProviderUnknown
	ErrCacheBudgetInvalid     = runtimeconfig.ErrCacheBudgetInvalid
	ErrCacheTTLInvalid        = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	I18NConfig    = runtimeconfig.I18NConfig
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the baseline configuration: in-memory storage,
// shared cache enabled, console logging.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
