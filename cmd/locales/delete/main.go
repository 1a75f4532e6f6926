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
	if err := runDelete(os.Args[1:]); err != nil {
		log.Fatalf("locales delete: %v", err)
	}
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("locales-delete", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	database := fs.String("db", "", "Path to the sqlite database (blank uses in-memory storage)")
	locales := fs.String("locales", "", "Comma separated list of locales to delete")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:   *contentDir,
		DatabasePath: *database,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	handler := catalogcmd.NewDeleteLocalesHandler(module.Module, module.Logger)
	cmd := catalogcmd.DeleteLocalesCommand{Locales: bootstrap.SplitLocales(*locales)}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute delete command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "locale data deleted")
	return nil
}
