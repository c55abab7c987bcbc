package grid

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Source names the backing table of a grid.
type Source struct {
	Table     string `yaml:"table"`
	KeyColumn string `yaml:"key"`
}

// Definition contains everything needed to render one grid.
type Definition struct {
	ID       string         `yaml:"id"`
	Label    string         `yaml:"label"`
	Source   Source         `yaml:"source"`
	PageSize int            `yaml:"page_size"` // 0 uses the server default
	Filters  bool           `yaml:"filters"`   // Grid renders a filter row
	Columns  []DataColumn   `yaml:"columns"`
	Checkbox CheckboxColumn `yaml:"checkbox"`
}

// ContainerID is the DOM id of the grid container. Selection bindings are
// keyed by it.
func (d Definition) ContainerID() string {
	return d.ID + "-grid"
}

// Attributes returns the data column attributes in display order.
func (d Definition) Attributes() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Attribute
	}
	return out
}

// Validate checks the grid and its columns, returning all failures joined.
func (d *Definition) Validate() error {
	var errs []error
	if strings.TrimSpace(d.ID) == "" {
		errs = append(errs, &ConfigurationError{Field: "grid.id", Message: "must not be empty"})
	}
	if d.Source.Table == "" || d.Source.KeyColumn == "" {
		errs = append(errs, &ConfigurationError{Field: "grid.source", Value: d.ID, Message: "table and key are required"})
	}
	if d.PageSize < 0 {
		errs = append(errs, &ConfigurationError{Field: "grid.page_size", Value: d.PageSize, Message: "must be non-negative"})
	}
	for _, c := range d.Columns {
		if c.Attribute == "" {
			errs = append(errs, &ConfigurationError{Field: "column.attribute", Value: d.ID, Message: "must not be empty"})
		}
		if err := c.HiddenFromExport.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := d.Checkbox.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

var (
	registry   = make(map[string]Definition)
	registryMu sync.RWMutex
)

// Register adds a grid definition to the registry.
// Panics if the definition is invalid or the ID is already registered.
func Register(def Definition) {
	if err := Add(def); err != nil {
		panic(err.Error())
	}
}

// Add validates and registers a grid definition.
func Add(def Definition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("grid %q: %w", def.ID, err)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.ID]; exists {
		return fmt.Errorf("grid already registered: %s", def.ID)
	}
	registry[def.ID] = def
	return nil
}

// Get returns a grid definition by ID.
// Returns false if not found.
func Get(id string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[id]
	return def, ok
}

// Lookup is Get with an error suitable for returning to callers.
func Lookup(id string) (Definition, error) {
	def, ok := Get(id)
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrGridNotFound, id)
	}
	return def, nil
}

// All returns all registered grids sorted by ID.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Definition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Count returns the number of registered grids.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered grids.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Definition)
}
