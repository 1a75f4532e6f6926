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
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("catalog import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("catalog-import", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	resourceType := fs.String("resource-type", "", "Resource type recorded in bundle keys")
	sourceLocale := fs.String("source-locale", "en", "Locale the documents are authored in")
	database := fs.String("db", "", "Path to the sqlite database (blank uses in-memory storage)")
	input := fs.String("input", "", "Catalog archive or .po file to import")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("input is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:   *contentDir,
		ResourceType: *resourceType,
		SourceLocale: *sourceLocale,
		DatabasePath: *database,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	handler := catalogcmd.NewImportCatalogHandler(module.Module, module.Logger)
	cmd := catalogcmd.ImportCatalogCommand{InputPath: *input}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "catalog import command executed successfully")
	return nil
}
