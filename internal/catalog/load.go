package catalog

import (
	"errors"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// StepIDs lists the composer steps in navigation order.
var StepIDs = []string{"background", "template", "text", "detail", "complete"}

// Load reads a YAML catalog file. Sections the file omits keep the built-in
// defaults. An empty path returns Default().
func Load(path string) (*Catalog, error) {
	cat := Default()
	if path == "" {
		return cat, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var file Catalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if len(file.Backgrounds) > 0 {
		cat.Backgrounds = file.Backgrounds
	}
	if len(file.Templates) > 0 {
		cat.Templates = file.Templates
	}
	if len(file.Ratios) > 0 {
		cat.Ratios = file.Ratios
	}
	if len(file.Accents) > 0 {
		cat.Accents = file.Accents
	}
	if len(file.Steps) > 0 {
		cat.Steps = file.Steps
	}

	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return cat, nil
}

// Validate checks that every list is non-empty, ids are unique, and each
// entry is well formed.
func (c *Catalog) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backgrounds, validation.Required),
		validation.Field(&c.Templates, validation.Required),
		validation.Field(&c.Ratios, validation.Required),
		validation.Field(&c.Accents, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.Steps, validation.Required),
	); err != nil {
		return err
	}
	for i := range c.Backgrounds {
		if err := c.Backgrounds[i].Validate(); err != nil {
			return fmt.Errorf("background %d: %w", i, err)
		}
	}
	for i := range c.Templates {
		if err := c.Templates[i].Validate(); err != nil {
			return fmt.Errorf("template %d: %w", i, err)
		}
	}
	for i := range c.Ratios {
		if err := c.Ratios[i].Validate(); err != nil {
			return fmt.Errorf("ratio %d: %w", i, err)
		}
	}
	for i := range c.Steps {
		if err := c.Steps[i].Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return errors.Join(
		uniqueKeys("backgrounds", c.Backgrounds),
		uniqueKeys("templates", c.Templates),
		uniqueKeys("ratios", c.Ratios),
		uniqueKeys("steps", c.Steps),
	)
}

// Validate validates a background entry.
func (b *Background) Validate() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.ID, validation.Required),
		validation.Field(&b.Gradient, validation.Required, validation.Each(validation.Required)),
		validation.Field(&b.TextColor, validation.Required),
	)
}

// Validate validates a template entry.
func (t *Template) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.ID, validation.Required),
		validation.Field(&t.Align, validation.In(AlignCenter, AlignStart)),
		validation.Field(&t.Justify, validation.In(JustifyCenter, JustifyBetween)),
		validation.Field(&t.AccentPlacement, validation.Required,
			validation.In(PlacementTop, PlacementBottom, PlacementLeft, PlacementNone)),
	)
}

// Validate validates a ratio entry.
func (r *Ratio) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.AspectRatio, validation.Required),
	)
}

// Validate validates a step entry.
func (s *Step) Validate() error {
	ids := make([]any, len(StepIDs))
	for i, id := range StepIDs {
		ids[i] = id
	}
	return validation.ValidateStruct(s,
		validation.Field(&s.ID, validation.Required, validation.In(ids...)),
	)
}

func uniqueKeys[T Identified](section string, items []T) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.Key()]; dup {
			return fmt.Errorf("%s: duplicate id %q", section, it.Key())
		}
		seen[it.Key()] = struct{}{}
	}
	return nil
}
