package columnar

import (
	"github.com/ajitpratap0/quoteframe/pkg/errors"
)

// DataType represents the declared type of a column
type DataType int

const (
	// String columns hold UTF-8 text and may contain null cells
	String DataType = iota
	// Uint64 columns hold unsigned 64-bit integers
	Uint64
	// Float64 columns hold 64-bit floating point numbers
	Float64
)

func (t DataType) String() string {
	switch t {
	case String:
		return "string"
	case Uint64:
		return "uint64"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// ParseDataType maps a textual type name back to a DataType
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "string", "utf8", "str":
		return String, nil
	case "uint64", "u64":
		return Uint64, nil
	case "float64", "f64", "double":
		return Float64, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeValidation, "unknown data type %q", s)
	}
}

// Field is a single named, typed column declaration
type Field struct {
	Name string
	Type DataType
}

// Schema is an ordered, fixed list of fields. Field order defines column
// position in every table built against it.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema creates a schema from an ordered field list
func NewSchema(fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "schema must declare at least one field")
	}

	s := &Schema{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == "" {
			return nil, errors.Newf(errors.ErrorTypeValidation, "field %d has an empty name", i)
		}
		if _, exists := s.index[f.Name]; exists {
			return nil, errors.Newf(errors.ErrorTypeValidation, "duplicate field %q", f.Name)
		}
		s.fields[i] = f
		s.index[f.Name] = i
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on an invalid declaration.
// It is meant for package-level schema literals.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of fields
func (s *Schema) Len() int { return len(s.fields) }

// Field returns the i-th field
func (s *Schema) Field(i int) Field { return s.fields[i] }

// Fields returns a copy of the ordered field list
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the field names in schema order
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// IndexOf returns the position of a field, or -1 when it is not declared
func (s *Schema) IndexOf(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Lookup returns the field with the given name
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Equal reports whether both schemas declare the same fields in the same order
func (s *Schema) Equal(other *Schema) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil || len(s.fields) != len(other.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}
