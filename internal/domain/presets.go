package domain

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/locvowork/sheetmap/pkg/sheetmap"
)

//go:embed styles.yaml
var defaultStyles []byte

// DefaultStylePresets returns the header presets the report tags refer to.
func DefaultStylePresets() (sheetmap.StylePresets, error) {
	presets, err := sheetmap.LoadStylePresets(bytes.NewReader(defaultStyles))
	if err != nil {
		return nil, fmt.Errorf("load default style presets: %w", err)
	}
	return presets, nil
}

// NewRegistry returns a type registry that resolves every method reference
// used by the report tags.
func NewRegistry() *sheetmap.TypeRegistry {
	return sheetmap.NewTypeRegistry().Register(Converters{})
}
