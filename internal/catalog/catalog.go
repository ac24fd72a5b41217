// Package catalog resolves event kinds to impact templates. The default
// catalog ships embedded in the binary; deployments can load their own
// YAML alongside or instead of it.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/dims"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/spec"
)

//go:embed catalog.yaml
var defaultData []byte

// #region types
// Catalog maps event kinds to their resolved impact templates.
type Catalog struct {
	templates map[string]spec.Template
}

type kindEntry struct {
	Impact     map[string]float32 `yaml:"impact"`
	Permanence map[string]float32 `yaml:"permanence"`
	Chronic    []string           `yaml:"chronic"`
}

type catalogFile struct {
	Kinds map[string]kindEntry `yaml:"kinds"`
}

// #endregion types

// #region load
// Default parses the embedded catalog. The embedded data is validated
// at build time by the package tests, so an error here means a broken
// binary rather than bad user input.
func Default() (*Catalog, error) {
	return Parse(defaultData)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(file.Kinds) == 0 {
		return nil, fmt.Errorf("catalog has no kinds")
	}

	c := &Catalog{templates: make(map[string]spec.Template, len(file.Kinds))}
	for kind, entry := range file.Kinds {
		tmpl, err := entry.template()
		if err != nil {
			return nil, fmt.Errorf("kind %q: %w", kind, err)
		}
		c.templates[kind] = tmpl
	}
	return c, nil
}

func (e kindEntry) template() (spec.Template, error) {
	var tmpl spec.Template
	for name, v := range e.Impact {
		d, ok := dims.ByName(name)
		if !ok {
			return tmpl, fmt.Errorf("impact: unknown dimension %q", name)
		}
		if v < -1 || v > 1 {
			return tmpl, fmt.Errorf("impact %s: %f outside [-1, 1]", name, v)
		}
		tmpl.Impact[d] = v
	}
	for name, v := range e.Permanence {
		d, ok := dims.ByName(name)
		if !ok {
			return tmpl, fmt.Errorf("permanence: unknown dimension %q", name)
		}
		if v < 0 || v > 1 {
			return tmpl, fmt.Errorf("permanence %s: %f outside [0, 1]", name, v)
		}
		tmpl.Permanence[d] = v
	}
	for _, name := range e.Chronic {
		d, ok := dims.ByName(name)
		if !ok {
			return tmpl, fmt.Errorf("chronic: unknown dimension %q", name)
		}
		tmpl.Chronic[d] = true
	}
	return tmpl, nil
}

// #endregion load

// #region lookup
// Lookup returns the template for a kind.
func (c *Catalog) Lookup(kind string) (spec.Template, bool) {
	tmpl, ok := c.templates[kind]
	return tmpl, ok
}

// Kinds returns every known kind in sorted order.
func (c *Catalog) Kinds() []string {
	out := make([]string, 0, len(c.templates))
	for kind := range c.templates {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

// #endregion lookup
