package materialize

import (
	"github.com/ajitpratap0/quoteframe/pkg/errors"
)

// Registered strategy names
const (
	NameDirectAppend          = "direct-append"
	NamePlaceholderOverwrite  = "placeholder-overwrite"
	NameIndexedWrite          = "indexed-write"
	NameGenericStaging        = "generic-staging"
	NameRowTranspose          = "row-transpose"
	NamePrefilledIndexedWrite = "prefilled-indexed-write"
)

type entry struct {
	name     string
	strategy Strategy
	core     bool
}

var registry = []entry{
	{NameDirectAppend, DirectAppend, true},
	{NamePlaceholderOverwrite, PlaceholderOverwrite, true},
	{NameIndexedWrite, IndexedWrite, true},
	{NameGenericStaging, GenericStaging, true},
	{NameRowTranspose, RowTranspose, true},
	{NamePrefilledIndexedWrite, PrefilledIndexedWrite, false},
}

// Lookup returns the strategy registered under name
func Lookup(name string) (Strategy, error) {
	for _, e := range registry {
		if e.name == name {
			return e.strategy, nil
		}
	}
	return nil, errors.Newf(errors.ErrorTypeConfig, "strategy %s not found", name).
		WithDetail("available", Names())
}

// Names lists every registered strategy in registration order
func Names() []string {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	return names
}

// Core lists the five strategies that must agree on every input. Labelled
// benchmark variants are excluded.
func Core() []string {
	names := make([]string, 0, len(registry))
	for _, e := range registry {
		if e.core {
			names = append(names, e.name)
		}
	}
	return names
}

// Coercing reports whether the strategy stages dynamic values and can
// therefore fail with ErrorTypeTypeMismatch
func Coercing(name string) bool {
	return name == NameGenericStaging || name == NameRowTranspose
}
