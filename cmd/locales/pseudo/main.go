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
	if err := runPseudo(os.Args[1:]); err != nil {
		log.Fatalf("locales pseudo: %v", err)
	}
}

func runPseudo(args []string) error {
	fs := flag.NewFlagSet("locales-pseudo", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	resourceType := fs.String("resource-type", "", "Resource type recorded in bundle keys")
	database := fs.String("db", "", "Path to the sqlite database (blank uses in-memory storage)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:   *contentDir,
		ResourceType: *resourceType,
		DatabasePath: *database,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	handler := catalogcmd.NewPseudotranslateHandler(module.Module, module.Logger)
	if err := handler.Execute(context.Background(), catalogcmd.PseudotranslateCommand{}); err != nil {
		return fmt.Errorf("execute pseudotranslate command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "pseudo locale filled")
	return nil
}
