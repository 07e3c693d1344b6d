// Package export writes typed tables in text and columnar file formats.
//
// Every encoder writes one whole table to a stream:
//
//	enc, err := export.NewEncoder(export.Parquet)
//	if err != nil {
//		return err
//	}
//	return enc.Encode(w, table)
//
// The json format produces a rows document that jsontable can decode back
// into the same table.
package export

import (
	"io"
	"strconv"
	"strings"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/errors"
)

// Format represents an output format
type Format string

const (
	// Text is an aligned human readable table
	Text Format = "text"
	// CSV is comma separated values with a header row
	CSV Format = "csv"
	// JSON is an array of row objects
	JSON Format = "json"
	// Arrow is the Arrow IPC file format
	Arrow Format = "arrow"
	// Parquet is Apache Parquet
	Parquet Format = "parquet"
	// Avro is an Avro object container file
	Avro Format = "avro"
)

// Formats lists every supported format
func Formats() []Format {
	return []Format{Text, CSV, JSON, Arrow, Parquet, Avro}
}

// ParseFormat parses a format name case-insensitively. The empty string
// selects Text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return Text, nil
	}
	f := Format(strings.ToLower(s))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrorTypeConfig, "unsupported output format: %s", s).
		WithDetail("format", s)
}

// FormatInfo describes an output format
type FormatInfo struct {
	Format        Format
	Name          string
	FileExtension string
	MIMEType      string
	Binary        bool
}

// GetFormatInfo returns information about a format, or nil if unknown
func GetFormatInfo(format Format) *FormatInfo {
	switch format {
	case Text:
		return &FormatInfo{Format: Text, Name: "Text table", FileExtension: ".txt", MIMEType: "text/plain"}
	case CSV:
		return &FormatInfo{Format: CSV, Name: "CSV", FileExtension: ".csv", MIMEType: "text/csv"}
	case JSON:
		return &FormatInfo{Format: JSON, Name: "JSON rows", FileExtension: ".json", MIMEType: "application/json"}
	case Arrow:
		return &FormatInfo{Format: Arrow, Name: "Apache Arrow", FileExtension: ".arrow", MIMEType: "application/vnd.apache.arrow.file", Binary: true}
	case Parquet:
		return &FormatInfo{Format: Parquet, Name: "Apache Parquet", FileExtension: ".parquet", MIMEType: "application/x-parquet", Binary: true}
	case Avro:
		return &FormatInfo{Format: Avro, Name: "Apache Avro", FileExtension: ".avro", MIMEType: "application/x-avro", Binary: true}
	default:
		return nil
	}
}

// Encoder writes a table to a stream
type Encoder interface {
	Encode(w io.Writer, table *columnar.Table) error
	Format() Format
}

// NewEncoder creates an encoder for format
func NewEncoder(format Format) (Encoder, error) {
	switch format {
	case Text:
		return textEncoder{}, nil
	case CSV:
		return csvEncoder{}, nil
	case JSON:
		return jsonEncoder{}, nil
	case Arrow:
		return newArrowEncoder(), nil
	case Parquet:
		return newParquetEncoder(), nil
	case Avro:
		return avroEncoder{}, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported output format: %s", format).
			WithDetail("format", string(format))
	}
}

// Encode writes table to w in format
func Encode(w io.Writer, format Format, table *columnar.Table) error {
	enc, err := NewEncoder(format)
	if err != nil {
		return err
	}
	return enc.Encode(w, table)
}

// formatCell renders a cell for the text formats; nulls render as null
func formatCell(v columnar.Value, null string) string {
	switch v.Kind() {
	case columnar.KindNull:
		return null
	case columnar.KindFloat64:
		f, _ := v.AsFloat64()
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return v.String()
	}
}

func writeError(err error, format Format) error {
	return errors.Wrap(err, errors.ErrorTypeFile, "failed to write table").
		WithDetail("format", string(format))
}
