package export

import (
	"io"

	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/errors"
	"github.com/ajitpratap0/quoteframe/pkg/json"
)

type jsonEncoder struct{}

func (jsonEncoder) Format() Format { return JSON }

// Encode streams the table as an array of flat objects keyed by column name
func (jsonEncoder) Encode(w io.Writer, table *columnar.Table) error {
	enc, err := json.NewStreamingEncoder(w)
	if err != nil {
		return writeError(err, JSON)
	}

	names := table.Schema().Names()
	for i := 0; i < table.NumRows(); i++ {
		obj := make(map[string]interface{}, len(names))
		for c, v := range table.Row(i) {
			obj[names[c]] = v.Interface()
		}
		if err := enc.Encode(obj); err != nil {
			// NaN and infinities have no JSON form
			return errors.Wrap(err, errors.ErrorTypeData, "failed to encode row").
				WithDetail("row", i)
		}
	}

	if err := enc.Close(); err != nil {
		return writeError(err, JSON)
	}
	return nil
}
