package materialize

import (
	"github.com/ajitpratap0/quoteframe/pkg/columnar"
	"github.com/ajitpratap0/quoteframe/pkg/quote"
	"golang.org/x/sync/errgroup"
)

// Partition splits quotes into at most n disjoint, non-empty shards
func Partition(quotes quote.Quotes, n int) []quote.Quotes {
	if n < 1 {
		n = 1
	}
	if n > len(quotes) {
		n = len(quotes)
	}
	if n == 0 {
		return nil
	}

	shards := make([]quote.Quotes, n)
	per := (len(quotes) + n - 1) / n
	for i := range shards {
		shards[i] = make(quote.Quotes, per)
	}

	i := 0
	for symbol, q := range quotes {
		shards[i%n][symbol] = q
		i++
	}
	return shards
}

// Sharded returns a strategy that materializes disjoint shards of the input
// concurrently with inner and concatenates the partial tables in shard
// order. Row alignment within each shard is preserved. The first failing
// shard, by shard index, decides the returned error.
func Sharded(inner Strategy, shards int) Strategy {
	if shards <= 1 {
		return inner
	}
	return func(quotes quote.Quotes) (*columnar.Table, error) {
		parts := Partition(quotes, shards)
		if len(parts) <= 1 {
			return inner(quotes)
		}

		tables := make([]*columnar.Table, len(parts))
		errs := make([]error, len(parts))

		var g errgroup.Group
		for i, part := range parts {
			i, part := i, part
			g.Go(func() error {
				tables[i], errs[i] = inner(part)
				return errs[i]
			})
		}
		if g.Wait() != nil {
			for _, err := range errs {
				if err != nil {
					return nil, err
				}
			}
		}

		return columnar.Concat(tables[0].Schema(), tables...)
	}
}
