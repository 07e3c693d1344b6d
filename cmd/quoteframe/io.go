package main

import (
	"io"
	"os"
	"strings"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/compression"
	"github.com/ajitpratap0/quoteframe/pkg/config"
	"github.com/ajitpratap0/quoteframe/pkg/errors"
	"github.com/ajitpratap0/quoteframe/pkg/export"
	"github.com/ajitpratap0/quoteframe/pkg/quote"
)

// openInput opens path for reading; empty or "-" means stdin
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open input").
			WithDetail("path", path)
	}
	return f, nil
}

// loadQuotes reads a bulk mapping or a single-quote envelope
func loadQuotes(path, kind string) (quote.Quotes, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	switch kind {
	case config.InputBulk:
		return quote.DecodeQuotes(r)
	case config.InputEnvelope:
		envelope, err := quote.DecodeQuote(r)
		if err != nil {
			return nil, err
		}
		if err := envelope.Err(); err != nil {
			return nil, err
		}
		return envelope.Bulk()
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "input kind %q cannot be materialized", kind).
			WithDetail("field", "input.kind")
	}
}

// parseSchema reads "name:type,name:type" declarations
func parseSchema(decls string) (*columnar.Schema, error) {
	var fields []columnar.Field
	for _, decl := range strings.Split(decls, ",") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, typ, ok := strings.Cut(decl, ":")
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeConfig, "field declaration %q must be name:type", decl)
		}
		dt, err := columnar.ParseDataType(strings.TrimSpace(typ))
		if err != nil {
			return nil, err
		}
		fields = append(fields, columnar.Field{Name: strings.TrimSpace(name), Type: dt})
	}
	return columnar.NewSchema(fields...)
}

// writeTable encodes table to path (stdout when empty) through the
// configured compression
func writeTable(table *columnar.Table, out config.OutputConfig, stdout io.Writer) (err error) {
	format, err := export.ParseFormat(out.Format)
	if err != nil {
		return err
	}
	alg, err := compression.ParseAlgorithm(out.Compression)
	if err != nil {
		return err
	}

	var sink io.Writer = stdout
	if out.Path != "" && out.Path != "-" {
		f, cerr := os.Create(out.Path)
		if cerr != nil {
			return errors.Wrap(cerr, errors.ErrorTypeFile, "failed to create output").
				WithDetail("path", out.Path)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = errors.Wrap(cerr, errors.ErrorTypeFile, "failed to close output")
			}
		}()
		sink = f
	}

	w, err := compression.NewWriter(sink, alg, compression.Default)
	if err != nil {
		return err
	}
	if err := export.Encode(w, format, table); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish compressed output")
	}
	return nil
}
