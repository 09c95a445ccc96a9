package transform

import (
	"fmt"
	"maps"
	"slices"

	"github.com/agentpkg/pkgsync/pkg/filesync"
)

// registry tracks the transformer for each file extension
type registry map[string]filesync.Transformer

var (
	defaultRegistry = make(registry)
)

// RegisteredExtensions returns a sorted list of all registered extensions.
func RegisteredExtensions() []string {
	return slices.Sorted(maps.Keys(defaultRegistry))
}

// RegisterTransformer registers a transformer for files ending in ext (with
// the leading dot).
// Note: this is NOT thread safe, and should only be called in init()
func RegisterTransformer(ext string, t filesync.Transformer) error {
	if _, ok := defaultRegistry[ext]; ok {
		return fmt.Errorf("failed to register transformer for %q: other transformer already registered", ext)
	}

	defaultRegistry[ext] = t

	return nil
}

// DefaultTable returns a copy of the registered transformers, ready to be
// passed to filesync.Install and filesync.Uninstall.
func DefaultTable() filesync.TransformerTable {
	return filesync.TransformerTable(maps.Clone(defaultRegistry))
}

func mustRegister(ext string, t filesync.Transformer) {
	if err := RegisterTransformer(ext, t); err != nil {
		panic(err)
	}
}
