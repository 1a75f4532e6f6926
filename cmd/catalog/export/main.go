package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-translations/cmd/internal/bootstrap"
	"github.com/goliatone/go-translations/internal/commands/catalogcmd"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runExport(os.Args[1:]); err != nil {
		log.Fatalf("catalog export: %v", err)
	}
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("catalog-export", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	resourceType := fs.String("resource-type", "", "Resource type recorded in bundle keys")
	sourceLocale := fs.String("source-locale", "en", "Locale the documents are authored in")
	locales := fs.String("locales", "", "Comma separated list of locales to export")
	scope := fs.String("scope", "all", "Export scope: all or new_or_stale")
	database := fs.String("db", "", "Path to the sqlite database (blank uses in-memory storage)")
	output := fs.String("output", "catalog.zip", "Destination archive path")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:   *contentDir,
		ResourceType: *resourceType,
		SourceLocale: *sourceLocale,
		Locales:      bootstrap.SplitLocales(*locales),
		DatabasePath: *database,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	handler := catalogcmd.NewExportCatalogHandler(module.Module, module.Logger)
	cmd := catalogcmd.ExportCatalogCommand{
		Locales:    bootstrap.SplitLocales(*locales),
		Scope:      *scope,
		OutputPath: *output,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute export command: %w", err)
	}
	fmt.Fprintf(os.Stdout, "catalog exported to %s\n", *output)
	return nil
}
