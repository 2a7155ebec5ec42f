// Package capability defines the descriptor and catalog types through which
// tools are exposed to a reasoning oracle.
package capability

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Descriptor describes one invocable operation: its name, what it does, and
// the JSON schema of its arguments. Descriptors are static; they are defined
// once at worker construction.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ObjectSchema builds a JSON schema for an object with the given properties.
// Required lists the property names a caller must supply.
func ObjectSchema(properties map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// ValidateArgs checks raw JSON arguments against the descriptor's parameter
// schema. A descriptor without a schema accepts anything.
func (d Descriptor) ValidateArgs(raw json.RawMessage) error {
	if d.Parameters == nil {
		return nil
	}
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(d.Parameters),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("validate %s arguments: %w", d.Name, err)
	}
	if result.Valid() {
		return nil
	}
	var msgs []string
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid arguments for %s: %s", d.Name, strings.Join(msgs, "; "))
}

// Catalog is an ordered set of descriptors, keyed by name for dispatch.
type Catalog struct {
	ordered []Descriptor
	byName  map[string]Descriptor
}

func NewCatalog(descriptors ...Descriptor) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if d.Name == "" {
			return nil, fmt.Errorf("capability descriptor without a name")
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate capability %q", d.Name)
		}
		c.byName[d.Name] = d
		c.ordered = append(c.ordered, d)
	}
	return c, nil
}

// Get returns the descriptor registered under name.
func (c *Catalog) Get(name string) (Descriptor, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// List returns descriptors in registration order.
func (c *Catalog) List() []Descriptor {
	out := make([]Descriptor, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Names returns capability names in registration order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.ordered))
	for _, d := range c.ordered {
		names = append(names, d.Name)
	}
	return names
}
