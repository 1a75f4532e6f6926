package render

import (
	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// FieldReport is the render outcome for one field, produced when a
// translator asks for validation before saving.
type FieldReport struct {
	Status       Status
	ErrorMessage string
	Output       string
}

// Report resolves every named field against the merged bundle and returns
// the per-field render status. Fields without a stored record report
// StatusNotStarted.
func Report(key bundle.Key, fieldNames []string, b *bundle.Bundle, transformer interfaces.ContentTransformer, aligner interfaces.Aligner) map[string]FieldReport {
	out := make(map[string]FieldReport, len(fieldNames))
	for _, name := range fieldNames {
		record := b.Field(name)
		if record == nil {
			out[name] = FieldReport{
				Status:       StatusNotStarted,
				ErrorMessage: "No translation saved yet",
			}
			continue
		}

		source := record.SourceValue
		if !record.Type.IsComposite() && len(record.Chunks) > 0 {
			source = record.Chunks[0].SourceValue
		}

		value := NewLazyValue(key, name, source, record, transformer, aligner)
		output := value.Resolve()
		out[name] = FieldReport{
			Status:       value.Status(),
			ErrorMessage: value.ErrorMessage(),
			Output:       output,
		}
	}
	return out
}
