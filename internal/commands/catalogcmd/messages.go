package catalogcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-translations/catalog"
)

const (
	exportMessageType        = "translations.catalog.export"
	importMessageType        = "translations.catalog.import"
	deleteLocalesMessageType = "translations.locales.delete"
	pseudoMessageType        = "translations.locales.pseudotranslate"
)

// ExportCatalogCommand builds the catalogs for the requested locales and
// writes them as a zip archive to OutputPath.
type ExportCatalogCommand struct {
	// Locales selects the target locales to export.
	Locales []string `json:"locales"`
	// Scope selects which chunks to include: "all" or "new_or_stale".
	Scope string `json:"scope"`
	// OutputPath is the archive destination on the local filesystem.
	OutputPath string `json:"output_path"`
}

// Type implements command.Message.
func (ExportCatalogCommand) Type() string { return exportMessageType }

// Validate ensures the export request is actionable before handlers run.
func (cmd ExportCatalogCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Locales, validation.Required, validation.Length(1, 0), validation.Each(validation.By(nonBlank("translations.catalog.export.locale_blank", "locale must not be blank")))),
		validation.Field(&cmd.Scope, validation.Required, validation.By(func(value any) error {
			if !catalog.Scope(value.(string)).Valid() {
				return validation.NewError("translations.catalog.export.scope_invalid", "scope must be \"all\" or \"new_or_stale\"")
			}
			return nil
		})),
		validation.Field(&cmd.OutputPath, validation.Required, validation.By(nonBlank("translations.catalog.export.output_required", "output path is required"))),
	)
}

// ImportCatalogCommand reads a previously exported archive (or a single PO
// file) from InputPath and merges its translations back in.
type ImportCatalogCommand struct {
	// InputPath is the archive or PO file to import.
	InputPath string `json:"input_path"`
}

// Type implements command.Message.
func (ImportCatalogCommand) Type() string { return importMessageType }

// Validate ensures the input path is present before handlers run.
func (cmd ImportCatalogCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.InputPath, validation.Required, validation.By(nonBlank("translations.catalog.import.input_required", "input path is required"))),
	)
}

// DeleteLocalesCommand retires locales: progress entries are cleared
// first, then bundle data is removed.
type DeleteLocalesCommand struct {
	// Locales selects the locales to remove.
	Locales []string `json:"locales"`
}

// Type implements command.Message.
func (DeleteLocalesCommand) Type() string { return deleteLocalesMessageType }

// Validate ensures at least one locale is named.
func (cmd DeleteLocalesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Locales, validation.Required, validation.Length(1, 0), validation.Each(validation.By(nonBlank("translations.locales.delete.locale_blank", "locale must not be blank")))),
	)
}

// PseudotranslateCommand fills the reverse-case test locale for every
// resource, marking untranslated strings visible in rendered output.
type PseudotranslateCommand struct{}

// Type implements command.Message.
func (PseudotranslateCommand) Type() string { return pseudoMessageType }

// Validate implements command.Message; the command carries no input.
func (PseudotranslateCommand) Validate() error { return nil }

func nonBlank(code, message string) func(any) error {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
