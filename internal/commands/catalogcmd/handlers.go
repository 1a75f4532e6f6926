package catalogcmd

import (
	"context"
	"fmt"
	"io"
	"os"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-translations/catalog"
	"github.com/goliatone/go-translations/internal/commands"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

const (
	exportOperation = "catalog.export"
	importOperation = "catalog.import"
	deleteOperation = "locales.delete"
	pseudoOperation = "locales.pseudotranslate"
)

// Service is the narrow surface the catalog commands drive; the module
// facade satisfies it.
type Service interface {
	Export(ctx context.Context, w io.Writer, locales []string, scope catalog.Scope) error
	Import(ctx context.Context, data []byte) (*catalog.ImportResult, error)
	DeleteLocales(ctx context.Context, locales ...string) error
	Pseudotranslate(ctx context.Context) error
}

var (
	_ command.Commander[ExportCatalogCommand] = (*ExportCatalogHandler)(nil)
	_ command.Commander[ImportCatalogCommand] = (*ImportCatalogHandler)(nil)
	_ command.Commander[DeleteLocalesCommand] = (*DeleteLocalesHandler)(nil)
	_ command.Commander[PseudotranslateCommand] = (*PseudotranslateHandler)(nil)
)

// ExportCatalogHandler writes catalog archives to the filesystem.
type ExportCatalogHandler struct {
	inner *commands.Handler[ExportCatalogCommand]
}

// NewExportCatalogHandler creates a handler bound to the supplied service.
func NewExportCatalogHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[ExportCatalogCommand]) *ExportCatalogHandler {
	exec := func(ctx context.Context, msg ExportCatalogCommand) error {
		out, err := os.Create(msg.OutputPath)
		if err != nil {
			return fmt.Errorf("create archive %q: %w", msg.OutputPath, err)
		}
		defer out.Close()

		if err := service.Export(ctx, out, msg.Locales, catalog.Scope(msg.Scope)); err != nil {
			return err
		}
		return out.Close()
	}

	handlerOpts := append([]commands.HandlerOption[ExportCatalogCommand]{
		commands.WithLogger[ExportCatalogCommand](logger),
		commands.WithOperation[ExportCatalogCommand](exportOperation),
		commands.WithMessageFields(func(msg ExportCatalogCommand) map[string]any {
			return map[string]any{
				"locales": msg.Locales,
				"scope":   msg.Scope,
				"output":  msg.OutputPath,
			}
		}),
	}, opts...)
	return &ExportCatalogHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander.
func (h *ExportCatalogHandler) Execute(ctx context.Context, msg ExportCatalogCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ImportCatalogHandler merges uploaded catalog archives back into storage.
type ImportCatalogHandler struct {
	inner *commands.Handler[ImportCatalogCommand]
}

// NewImportCatalogHandler creates a handler bound to the supplied service.
// Import diagnostics are logged one message per line.
func NewImportCatalogHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[ImportCatalogCommand]) *ImportCatalogHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportCatalogCommand) error {
		data, err := os.ReadFile(msg.InputPath)
		if err != nil {
			return fmt.Errorf("read catalog %q: %w", msg.InputPath, err)
		}

		result, err := service.Import(ctx, data)
		if err != nil {
			return err
		}
		for _, message := range result.Messages {
			baseLogger.Info("catalog.import.diagnostic", "message", message)
		}
		return nil
	}

	handlerOpts := append([]commands.HandlerOption[ImportCatalogCommand]{
		commands.WithLogger[ImportCatalogCommand](logger),
		commands.WithOperation[ImportCatalogCommand](importOperation),
		commands.WithMessageFields(func(msg ImportCatalogCommand) map[string]any {
			return map[string]any{"input": msg.InputPath}
		}),
	}, opts...)
	return &ImportCatalogHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander.
func (h *ImportCatalogHandler) Execute(ctx context.Context, msg ImportCatalogCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeleteLocalesHandler retires locales through the service.
type DeleteLocalesHandler struct {
	inner *commands.Handler[DeleteLocalesCommand]
}

// NewDeleteLocalesHandler creates a handler bound to the supplied service.
func NewDeleteLocalesHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteLocalesCommand]) *DeleteLocalesHandler {
	exec := func(ctx context.Context, msg DeleteLocalesCommand) error {
		return service.DeleteLocales(ctx, msg.Locales...)
	}

	handlerOpts := append([]commands.HandlerOption[DeleteLocalesCommand]{
		commands.WithLogger[DeleteLocalesCommand](logger),
		commands.WithOperation[DeleteLocalesCommand](deleteOperation),
		commands.WithMessageFields(func(msg DeleteLocalesCommand) map[string]any {
			return map[string]any{"locales": msg.Locales}
		}),
	}, opts...)
	return &DeleteLocalesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander.
func (h *DeleteLocalesHandler) Execute(ctx context.Context, msg DeleteLocalesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PseudotranslateHandler fills the reverse-case test locale.
type PseudotranslateHandler struct {
	inner *commands.Handler[PseudotranslateCommand]
}

// NewPseudotranslateHandler creates a handler bound to the supplied
// service.
func NewPseudotranslateHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[PseudotranslateCommand]) *PseudotranslateHandler {
	exec := func(ctx context.Context, msg PseudotranslateCommand) error {
		return service.Pseudotranslate(ctx)
	}

	handlerOpts := append([]commands.HandlerOption[PseudotranslateCommand]{
		commands.WithLogger[PseudotranslateCommand](logger),
		commands.WithOperation[PseudotranslateCommand](pseudoOperation),
	}, opts...)
	return &PseudotranslateHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander.
func (h *PseudotranslateHandler) Execute(ctx context.Context, msg PseudotranslateCommand) error {
	return h.inner.Execute(ctx, msg)
}
