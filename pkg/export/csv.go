package export

import (
	"encoding/csv"
	"io"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
)

type csvEncoder struct{}

func (csvEncoder) Format() Format { return CSV }

// Encode writes a header row then one record per table row. Null cells are
// written as empty fields.
func (csvEncoder) Encode(w io.Writer, table *columnar.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Schema().Names()); err != nil {
		return writeError(err, CSV)
	}

	record := make([]string, table.NumColumns())
	for i := 0; i < table.NumRows(); i++ {
		for c, v := range table.Row(i) {
			record[c] = formatCell(v, "")
		}
		if err := cw.Write(record); err != nil {
			return writeError(err, CSV)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return writeError(err, CSV)
	}
	return nil
}
