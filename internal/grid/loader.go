package grid

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// columnFile is the on-disk layout of a grid definitions file.
type columnFile struct {
	Grids []Definition `yaml:"grids"`
}

// ParseDefinitions decodes grid definitions from YAML. Checkbox settings
// missing from the document keep the stock defaults.
//
//	grids:
//	  - id: orders
//	    label: Orders
//	    source: {table: orders, key: id}
//	    columns:
//	      - {attribute: customer, label: Customer}
//	    checkbox:
//	      hidden_from_export: [csv]
//	      page_summary: true
//	      page_summary_func: count
func ParseDefinitions(data []byte) ([]Definition, error) {
	var raw struct {
		Grids []yaml.MapSlice `yaml:"grids"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse grid definitions: %w", err)
	}

	defs := make([]Definition, 0, len(raw.Grids))
	for i, node := range raw.Grids {
		// Re-encode each grid so it decodes over a defaulted definition.
		b, err := yaml.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("grid %d: %w", i, err)
		}
		def := Definition{Checkbox: DefaultCheckboxColumn()}
		if err := yaml.UnmarshalStrict(b, &def); err != nil {
			return nil, fmt.Errorf("grid %d: %w", i, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("grid %q: %w", def.ID, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadFile reads grid definitions from path and registers them.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grid definitions: %w", err)
	}

	defs, err := ParseDefinitions(data)
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if err := Add(def); err != nil {
			return nil, err
		}
	}
	return defs, nil
}
