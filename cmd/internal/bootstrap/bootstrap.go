// Package bootstrap assembles a translations module for the catalog CLIs
// from flag-level options.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	translations "github.com/goliatone/go-translations"
	"github.com/goliatone/go-translations/internal/adapters/markdownsource"
	"github.com/goliatone/go-translations/internal/di"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/internal/storage"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// Options captures configuration shared by the catalog CLIs.
type Options struct {
	// ContentDir is the markdown content root backing the extraction layer.
	ContentDir string
	// ResourceType overrides the resource type recorded in bundle keys.
	ResourceType string
	// SourceLocale is the locale documents are authored in.
	SourceLocale string
	// Locales lists the translation target locales.
	Locales []string
	// DatabasePath selects sqlite persistence; blank keeps the in-memory
	// store, which only makes sense for one-shot inspection.
	DatabasePath string
	// LogLevel overrides the default logging level.
	LogLevel string
}

// Module wraps the translations module plus the logger the CLIs report
// through.
type Module struct {
	Module *translations.Module
	Logger interfaces.Logger

	db *bun.DB
}

// Close releases the database handle when one was opened.
func (m *Module) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

// BuildModule constructs a translations module wired to a markdown source
// and, when a database path is given, sqlite persistence.
func BuildModule(opts Options) (*Module, error) {
	contentDir := strings.TrimSpace(opts.ContentDir)
	if contentDir == "" {
		contentDir = "content"
	}
	info, err := os.Stat(contentDir)
	if err != nil {
		return nil, fmt.Errorf("content dir %q: %w", contentDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %q is not a directory", contentDir)
	}

	cfg := translations.DefaultConfig()
	if locale := strings.TrimSpace(opts.SourceLocale); locale != "" {
		cfg.I18N.SourceLocale = locale
	}
	if len(opts.Locales) > 0 {
		cfg.I18N.Locales = append([]string(nil), opts.Locales...)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}

	sourceOpts := []markdownsource.Option{}
	if typ := strings.TrimSpace(opts.ResourceType); typ != "" {
		sourceOpts = append(sourceOpts, markdownsource.WithResourceType(typ))
	}
	source := markdownsource.New(os.DirFS(contentDir), sourceOpts...)

	diOpts := []di.Option{di.WithSource(source)}

	var db *bun.DB
	if path := strings.TrimSpace(opts.DatabasePath); path != "" {
		cfg.Storage.Provider = "bun"

		sqldb, err := sql.Open("sqlite3", path+"?_fk=1")
		if err != nil {
			return nil, fmt.Errorf("open database %q: %w", path, err)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := storage.CreateTables(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
		diOpts = append(diOpts, di.WithBunDB(db))
	}

	module, err := translations.New(cfg, diOpts...)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("initialise translations module: %w", err)
	}

	return &Module{
		Module: module,
		Logger: logging.CatalogLogger(module.Container().LoggerProvider()),
		db:     db,
	}, nil
}

// SplitLocales parses a comma separated locale list into a trimmed slice.
func SplitLocales(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	locales := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			locales = append(locales, trimmed)
		}
	}
	return locales
}
