package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
)

type textEncoder struct{}

func (textEncoder) Format() Format { return Text }

func (textEncoder) Encode(w io.Writer, table *columnar.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	names := table.Schema().Names()
	types := make([]string, len(names))
	for i, f := range table.Schema().Fields() {
		types[i] = f.Type.String()
	}
	fmt.Fprintln(tw, strings.Join(names, "\t"))
	fmt.Fprintln(tw, strings.Join(types, "\t"))

	cells := make([]string, len(names))
	for i := 0; i < table.NumRows(); i++ {
		for c, v := range table.Row(i) {
			cells[c] = formatCell(v, "null")
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	fmt.Fprintf(tw, "(%d rows)\n", table.NumRows())

	if err := tw.Flush(); err != nil {
		return writeError(err, Text)
	}
	return nil
}
