package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// file is the on-disk shape of a catalog (see defaults.yaml).
type file struct {
	Modules []ModuleDefinition `yaml:"modules"`
}

// Catalog is the ordered table of module definitions. Order is the file order and is used for
// the catalog panel and the checklist. Unit costs are the only mutable field (SetCost); every
// other field is fixed once loaded.
type Catalog struct {
	defs []*ModuleDefinition
	byID map[string]*ModuleDefinition
}

// New builds a catalog from defs, validating each entry and rejecting duplicate ids.
func New(defs []ModuleDefinition) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*ModuleDefinition, len(defs))}
	for i := range defs {
		d := defs[i]
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: entry %d: %w", i, err)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("catalog: %w: duplicate id %q", ErrInvalidDefinition, d.ID)
		}
		c.defs = append(c.defs, &d)
		c.byID[d.ID] = &d
	}
	return c, nil
}

// Parse decodes a YAML catalog. Unknown keys are errors so typos in the file surface early.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f file
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog: empty file")
		}
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if len(f.Modules) == 0 {
		return nil, fmt.Errorf("catalog: no modules")
	}
	return New(f.Modules)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Default returns a fresh copy of the built-in catalog. Each call returns an independent catalog,
// so cost edits on one do not leak into another.
func Default() *Catalog {
	c, err := Parse(bytes.NewReader(defaultsYAML))
	if err != nil {
		panic("catalog: embedded defaults: " + err.Error())
	}
	return c
}

// Len returns the number of modules.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// Get returns a copy of the definition for id. The copy reflects the cost at call time.
func (c *Catalog) Get(id string) (ModuleDefinition, bool) {
	d, ok := c.byID[id]
	if !ok {
		return ModuleDefinition{}, false
	}
	return *d, true
}

// Cost returns the current unit cost for id. Placed entities read their price through here,
// which is what makes cost edits retroactive.
func (c *Catalog) Cost(id string) (float64, bool) {
	d, ok := c.byID[id]
	if !ok {
		return 0, false
	}
	return d.UnitCost, true
}

// IDs returns the module ids in catalog order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.defs))
	for i, d := range c.defs {
		out[i] = d.ID
	}
	return out
}

// Snapshot returns copies of all definitions in catalog order, for panels that render the list.
func (c *Catalog) Snapshot() []ModuleDefinition {
	out := make([]ModuleDefinition, len(c.defs))
	for i, d := range c.defs {
		out[i] = *d
	}
	return out
}

// SetCost rewrites the unit cost of id. Negative, NaN and infinite costs are rejected and the old
// value is kept.
func (c *Catalog) SetCost(id string, cost float64) error {
	d, ok := c.byID[id]
	if !ok {
		return fmt.Errorf("catalog: %w: %q", ErrUnknownModule, id)
	}
	if !validCost(cost) {
		return fmt.Errorf("catalog: %s: %w: %v", id, ErrInvalidCost, cost)
	}
	d.UnitCost = cost
	return nil
}

// Encode writes the catalog back out in the file format Parse reads.
func (c *Catalog) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file{Modules: c.Snapshot()}); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return enc.Close()
}
