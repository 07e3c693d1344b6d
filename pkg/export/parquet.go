package export

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
)

type parquetEncoder struct {
	alloc memory.Allocator
}

func newParquetEncoder() *parquetEncoder {
	return &parquetEncoder{alloc: memory.NewGoAllocator()}
}

func (e *parquetEncoder) Format() Format { return Parquet }

// Encode writes the table as one snappy compressed row group
func (e *parquetEncoder) Encode(w io.Writer, table *columnar.Table) error {
	rec, err := ToArrowRecord(table, e.alloc)
	if err != nil {
		return err
	}
	defer rec.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithDictionaryDefault(true),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(e.alloc),
		pqarrow.WithStoreSchema(),
	)

	// the parquet writer closes its sink if it can; callers own w
	fw, err := pqarrow.NewFileWriter(rec.Schema(), struct{ io.Writer }{w}, props, arrowProps)
	if err != nil {
		return writeError(err, Parquet)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return writeError(err, Parquet)
	}
	if err := fw.Close(); err != nil {
		return writeError(err, Parquet)
	}
	return nil
}
