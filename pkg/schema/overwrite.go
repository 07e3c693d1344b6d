package schema

import (
	"github.com/ajitpratap0/quoteframe/pkg/columnar"
)

// Override records a declared type replacing a different inferred one
type Override struct {
	Field    string
	Inferred Kind
	Declared columnar.DataType
}

// Report describes how inference and the declared schema differ
type Report struct {
	Inferred  []InferredField
	Overrides []Override
	// Missing lists declared fields never seen in the sample
	Missing []string
	// Ignored lists sampled fields the schema does not declare
	Ignored []string
}

// Overwrite applies the declared schema over inferred field kinds. The
// returned schema is always declared; the report lists every field whose
// inferred kind would have produced a different column type.
func Overwrite(inferred []InferredField, declared *columnar.Schema) (*columnar.Schema, Report) {
	report := Report{Inferred: inferred}

	seen := make(map[string]InferredField, len(inferred))
	for _, f := range inferred {
		seen[f.Name] = f
		if declared.IndexOf(f.Name) < 0 {
			report.Ignored = append(report.Ignored, f.Name)
		}
	}

	for _, field := range declared.Fields() {
		f, ok := seen[field.Name]
		if !ok {
			report.Missing = append(report.Missing, field.Name)
			continue
		}
		if f.Kind == KindNull {
			continue
		}
		if natural, ok := NaturalType(f.Kind); ok && natural == field.Type {
			continue
		}
		report.Overrides = append(report.Overrides, Override{
			Field:    field.Name,
			Inferred: f.Kind,
			Declared: field.Type,
		})
	}

	return declared, report
}
