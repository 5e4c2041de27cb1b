package extension

import (
	"fmt"

	"github.com/dshills/manage/internal/registry"
)

// Func registers commands into a registry.
type Func func(*registry.Registry) error

// Apply runs fns in order against reg, stopping at the first error.
func Apply(reg *registry.Registry, fns ...Func) error {
	for i, fn := range fns {
		if fn == nil {
			continue
		}
		if err := fn(reg); err != nil {
			return fmt.Errorf("extension %d: %w", i+1, err)
		}
	}
	return nil
}
