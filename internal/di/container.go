// Package di wires the module's components from configuration plus
// caller-supplied overrides.
package di

import (
	"errors"
	"fmt"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/catalog"
	"github.com/goliatone/go-translations/internal/align"
	"github.com/goliatone/go-translations/internal/cache"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/internal/logging/gologger"
	"github.com/goliatone/go-translations/internal/markup"
	"github.com/goliatone/go-translations/internal/runtimeconfig"
	"github.com/goliatone/go-translations/internal/storage"
	"github.com/goliatone/go-translations/pkg/interfaces"
	"github.com/goliatone/go-translations/reconcile"
	"github.com/goliatone/go-translations/render"
)

// ErrBunDBRequired indicates the bun storage provider was selected without
// supplying a database handle.
var ErrBunDBRequired = errors.New("di: bun storage provider requires a database; use WithBunDB")

// Container wires module dependencies.
type Container struct {
	cfg runtimeconfig.Config

	provider interfaces.LoggerProvider

	bunDB         *bun.DB
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	bundleRepo   bundle.Repository
	progressRepo bundle.ProgressRepository

	source    reconcile.Source
	memory    interfaces.TranslationMemory
	annotator render.Annotator

	transformer interfaces.ContentTransformer
	aligner     interfaces.Aligner

	builder  *reconcile.Builder
	updater  *reconcile.Updater
	exporter *catalog.Exporter
	importer *catalog.Importer

	bundleCache *cache.BundleCache
	getter      cache.Getter
}

// Option mutates the container before it is finalized.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider built from the logging
// configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.provider = provider
	}
}

// WithBunDB supplies the database handle for the bun storage provider.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithRepositoryCache places a repository cache in front of bun single-key
// reads.
func WithRepositoryCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithBundleRepository overrides the bundle store entirely.
func WithBundleRepository(repo bundle.Repository) Option {
	return func(c *Container) {
		c.bundleRepo = repo
	}
}

// WithProgressRepository overrides the progress store entirely.
func WithProgressRepository(repo bundle.ProgressRepository) Option {
	return func(c *Container) {
		c.progressRepo = repo
	}
}

// WithSource supplies the extraction layer enumerating translatable
// resources.
func WithSource(source reconcile.Source) Option {
	return func(c *Container) {
		c.source = source
	}
}

// WithTranslationMemory wires the best-effort translation memory.
func WithTranslationMemory(memory interfaces.TranslationMemory) Option {
	return func(c *Container) {
		c.memory = memory
	}
}

// WithAnnotator wires the diagnostic annotator applied to stale rendered
// values.
func WithAnnotator(annotator render.Annotator) Option {
	return func(c *Container) {
		c.annotator = annotator
	}
}

// WithContentTransformer overrides the HTML transformer.
func WithContentTransformer(transformer interfaces.ContentTransformer) Option {
	return func(c *Container) {
		c.transformer = transformer
	}
}

// WithAligner overrides the chunk alignment oracle.
func WithAligner(aligner interfaces.Aligner) Option {
	return func(c *Container) {
		c.aligner = aligner
	}
}

// NewContainer validates the configuration and wires every component,
// filling unset dependencies with defaults: in-memory repositories, the
// exact-match aligner, and the HTML transformer.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.provider == nil {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, fmt.Errorf("di: build logger: %w", err)
		}
		c.provider = provider
	}

	if err := c.wireStorage(); err != nil {
		return nil, err
	}

	if c.transformer == nil {
		c.transformer = markup.NewTransformer()
	}
	if c.aligner == nil {
		c.aligner = align.NewExactMatcher()
	}

	builderOpts := []reconcile.BuilderOption{
		reconcile.WithSourceLocale(cfg.I18N.SourceLocale),
		reconcile.WithBuilderLogger(logging.ReconcileLogger(c.provider)),
	}
	if c.memory != nil {
		builderOpts = append(builderOpts, reconcile.WithTranslationMemory(c.memory))
	}
	c.builder = reconcile.NewBuilder(c.transformer, c.aligner, builderOpts...)
	c.updater = reconcile.NewUpdater(reconcile.WithUpdaterLogger(logging.ReconcileLogger(c.provider)))

	if cfg.Cache.Enabled {
		c.bundleCache = cache.NewBundleCache(c.bundleRepo,
			cache.WithMaxBytes(cfg.Cache.MaxBytes),
			cache.WithTTL(cfg.Cache.TTL),
			cache.WithCacheLogger(logging.CacheLogger(c.provider)),
		)
		c.getter = c.bundleCache
	} else {
		c.getter = cache.NewPassthrough(c.bundleRepo)
	}

	if c.source != nil {
		catalogLogger := logging.CatalogLogger(c.provider)
		c.exporter = catalog.NewExporter(c.source, c.builder, c.updater, c.bundleRepo, c.progressRepo,
			catalog.WithExportLogger(catalogLogger))
		c.importer = catalog.NewImporter(c.source, c.builder, c.updater, c.bundleRepo, c.progressRepo,
			catalog.WithImportLogger(catalogLogger))
	}

	return c, nil
}

func (c *Container) wireStorage() error {
	provider := strings.ToLower(strings.TrimSpace(c.cfg.Storage.Provider))
	switch {
	case c.bundleRepo != nil && c.progressRepo != nil:
		// Fully overridden; nothing to wire.
	case provider == "bun":
		if c.bunDB == nil {
			return ErrBunDBRequired
		}
		if c.bundleRepo == nil {
			c.bundleRepo = storage.NewBunBundleRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		if c.progressRepo == nil {
			c.progressRepo = storage.NewBunProgressRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
	default:
		if c.bundleRepo == nil {
			c.bundleRepo = storage.NewMemoryBundleRepository()
		}
		if c.progressRepo == nil {
			c.progressRepo = storage.NewMemoryProgressRepository()
		}
	}
	return nil
}

// Config returns the validated configuration.
func (c *Container) Config() runtimeconfig.Config { return c.cfg }

// LoggerProvider returns the wired logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.provider }

// BundleRepository returns the bundle store.
func (c *Container) BundleRepository() bundle.Repository { return c.bundleRepo }

// ProgressRepository returns the progress store.
func (c *Container) ProgressRepository() bundle.ProgressRepository { return c.progressRepo }

// Builder returns the section builder.
func (c *Container) Builder() *reconcile.Builder { return c.builder }

// Updater returns the bundle/progress updater.
func (c *Container) Updater() *reconcile.Updater { return c.updater }

// Exporter returns the catalog exporter; nil until a source is wired.
func (c *Container) Exporter() *catalog.Exporter { return c.exporter }

// Importer returns the catalog importer; nil until a source is wired.
func (c *Container) Importer() *catalog.Importer { return c.importer }

// Source returns the extraction layer; may be nil.
func (c *Container) Source() reconcile.Source { return c.source }

// Annotator returns the render annotator; may be nil.
func (c *Container) Annotator() render.Annotator { return c.annotator }

// Transformer returns the content transformer.
func (c *Container) Transformer() interfaces.ContentTransformer { return c.transformer }

// Aligner returns the alignment oracle.
func (c *Container) Aligner() interfaces.Aligner { return c.aligner }

// BundleGetter returns the shared read path: the process-wide cache when
// enabled, otherwise a passthrough to the repository.
func (c *Container) BundleGetter() cache.Getter { return c.getter }

// BundleCache returns the process-wide cache; nil when disabled.
func (c *Container) BundleCache() *cache.BundleCache { return c.bundleCache }
