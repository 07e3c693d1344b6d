package export

import (
	"io"
	"math"

	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/errors"
	"github.com/ajitpratap0/quoteframe/pkg/json"
)

type avroEncoder struct{}

func (avroEncoder) Format() Format { return Avro }

// AvroSchema returns the record schema used for a table. Avro has no
// unsigned type, so uint64 columns are written as long.
func AvroSchema(schema *columnar.Schema) (string, error) {
	fields := make([]map[string]interface{}, schema.Len())
	for i, f := range schema.Fields() {
		var typ interface{}
		switch f.Type {
		case columnar.Uint64:
			typ = "long"
		case columnar.Float64:
			typ = "double"
		default:
			typ = []string{"null", "string"}
		}
		field := map[string]interface{}{"name": f.Name, "type": typ}
		if f.Type == columnar.String {
			field["default"] = nil
		}
		fields[i] = field
	}

	doc, err := json.Marshal(map[string]interface{}{
		"type":      "record",
		"name":      "row",
		"namespace": "quoteframe",
		"fields":    fields,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeInternal, "failed to build avro schema")
	}
	return string(doc), nil
}

// Encode writes the table as a deflate compressed object container file
func (avroEncoder) Encode(w io.Writer, table *columnar.Table) error {
	avroSchema, err := AvroSchema(table.Schema())
	if err != nil {
		return err
	}
	codec, err := goavro.NewCodec(avroSchema)
	if err != nil {
		// column names that are not valid avro names end up here
		return errors.Wrap(err, errors.ErrorTypeCapability, "table cannot be represented in avro")
	}

	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: goavro.CompressionDeflateLabel,
	})
	if err != nil {
		return writeError(err, Avro)
	}

	fields := table.Schema().Fields()
	batch := make([]interface{}, 0, table.NumRows())
	for i := 0; i < table.NumRows(); i++ {
		datum := make(map[string]interface{}, len(fields))
		for c, v := range table.Row(i) {
			native, err := avroNative(v)
			if err != nil {
				return err.WithDetail("row", i).WithDetail("field", fields[c].Name)
			}
			datum[fields[c].Name] = native
		}
		batch = append(batch, datum)
	}

	if err := ocf.Append(batch); err != nil {
		return writeError(err, Avro)
	}
	return nil
}

func avroNative(v columnar.Value) (interface{}, *errors.Error) {
	switch v.Kind() {
	case columnar.KindNull:
		return goavro.Union("null", nil), nil
	case columnar.KindString:
		s, _ := v.AsString()
		return goavro.Union("string", s), nil
	case columnar.KindUint64:
		u, _ := v.AsUint64()
		if u > math.MaxInt64 {
			return nil, errors.Newf(errors.ErrorTypeCapability, "value %d overflows avro long", u)
		}
		return int64(u), nil
	default:
		f, _ := v.AsFloat64()
		return f, nil
	}
}
