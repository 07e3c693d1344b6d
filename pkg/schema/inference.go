// Package schema infers value kinds from a bounded prefix of JSON rows and
// reconciles them with a declared column schema. The declared schema always
// wins; inference only sanity-checks the document shape and reports where
// the data disagrees with the declaration.
package schema

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/json"
)

// DefaultSampleSize is the number of leading rows inspected by inference
const DefaultSampleSize = 100

// Kind is the JSON-level kind of a value
type Kind string

const (
	KindNull     Kind = "null"
	KindBoolean  Kind = "boolean"
	KindUnsigned Kind = "unsigned"
	KindInteger  Kind = "integer"
	KindFloat    Kind = "float"
	KindString   Kind = "string"
	KindObject   Kind = "object"
	KindArray    Kind = "array"
	KindMixed    Kind = "mixed"
)

// InferredField is the merged kind of one field over the sampled rows
type InferredField struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	// Nullable is set when the field was null or missing in a sampled row
	Nullable bool `json:"nullable"`
	// Samples counts the non-null observations
	Samples int `json:"samples"`
}

// DetectKind classifies a decoded JSON value. Numbers decoded as json.Number
// are split into unsigned, signed and fractional literals.
func DetectKind(v interface{}) Kind {
	switch val := v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBoolean
	case string:
		return KindString
	case json.Number:
		return numberKind(val.String())
	case float32, float64:
		return KindFloat
	case int, int8, int16, int32, int64:
		return KindInteger
	case uint, uint8, uint16, uint32, uint64:
		return KindUnsigned
	case []interface{}:
		return KindArray
	case map[string]interface{}:
		return KindObject
	default:
		return KindMixed
	}
}

func numberKind(lit string) Kind {
	if strings.ContainsAny(lit, ".eE") {
		return KindFloat
	}
	if _, err := strconv.ParseUint(lit, 10, 64); err == nil {
		return KindUnsigned
	}
	if _, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return KindInteger
	}
	// integer literal out of 64-bit range
	return KindFloat
}

// Merge combines two observed kinds. Numeric kinds widen towards float;
// null yields to anything; any other disagreement is mixed.
func Merge(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case a == KindNull:
		return b
	case b == KindNull:
		return a
	case isNumeric(a) && isNumeric(b):
		if a == KindFloat || b == KindFloat {
			return KindFloat
		}
		return KindInteger
	default:
		return KindMixed
	}
}

func isNumeric(k Kind) bool {
	return k == KindUnsigned || k == KindInteger || k == KindFloat
}

// InferFields inspects at most sampleSize leading rows and returns one entry
// per field seen, sorted by name. A non-positive sampleSize selects
// DefaultSampleSize.
func InferFields(rows []map[string]interface{}, sampleSize int) []InferredField {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	if len(rows) > sampleSize {
		rows = rows[:sampleSize]
	}

	byName := make(map[string]*InferredField)
	for _, row := range rows {
		for name, v := range row {
			f, ok := byName[name]
			if !ok {
				f = &InferredField{Name: name, Kind: KindNull}
				byName[name] = f
			}
			k := DetectKind(v)
			if k == KindNull {
				f.Nullable = true
				continue
			}
			f.Kind = Merge(f.Kind, k)
			f.Samples++
		}
	}

	fields := make([]InferredField, 0, len(byName))
	for _, f := range byName {
		// absent from some sampled rows
		if f.Samples < len(rows) {
			f.Nullable = true
		}
		fields = append(fields, *f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}

// NaturalType maps an inferred kind to the column type it would produce on
// its own. Kinds without a column representation report false.
func NaturalType(k Kind) (columnar.DataType, bool) {
	switch k {
	case KindUnsigned:
		return columnar.Uint64, true
	case KindInteger, KindFloat:
		return columnar.Float64, true
	case KindString:
		return columnar.String, true
	default:
		return 0, false
	}
}
