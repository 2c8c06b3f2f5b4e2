// Package catalog holds the read-only option catalogs a card is composed from.
package catalog

import (
	"strconv"
	"strings"
)

// Accent placements.
const (
	PlacementTop    = "top"
	PlacementBottom = "bottom"
	PlacementLeft   = "left"
	PlacementNone   = "none"
)

// Content alignment and vertical distribution for templates.
const (
	AlignCenter = "center"
	AlignStart  = "start"

	JustifyCenter  = "center"
	JustifyBetween = "between"
)

// Identified is implemented by every catalog entry.
type Identified interface {
	Key() string
}

// Background describes a card background.
type Background struct {
	ID          string   `yaml:"id" json:"id"`
	Label       string   `yaml:"label" json:"label"`
	Description string   `yaml:"description" json:"description"`
	Gradient    []string `yaml:"gradient" json:"gradient"`
	TextColor   string   `yaml:"text_color" json:"textColor"`
	BorderColor string   `yaml:"border_color,omitempty" json:"borderColor,omitempty"`
}

// Key implements Identified.
func (b Background) Key() string { return b.ID }

// Template describes how the quote is laid out on the card.
type Template struct {
	ID              string `yaml:"id" json:"id"`
	Label           string `yaml:"label" json:"label"`
	Description     string `yaml:"description" json:"description"`
	Align           string `yaml:"align" json:"align"`
	Justify         string `yaml:"justify" json:"justify"`
	Gap             int    `yaml:"gap" json:"gap"`
	InsetLeft       int    `yaml:"inset_left,omitempty" json:"insetLeft,omitempty"`
	AccentPlacement string `yaml:"accent_placement" json:"accentPlacement"`
}

// Key implements Identified.
func (t Template) Key() string { return t.ID }

// Ratio is an output aspect ratio. AspectRatio uses the CSS token form
// ("9 / 16", "1", "4 / 5").
type Ratio struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	AspectRatio string `yaml:"aspect_ratio" json:"aspectRatio"`
	Description string `yaml:"description" json:"description"`
}

// Key implements Identified.
func (r Ratio) Key() string { return r.ID }

// Dimensions parses AspectRatio into a width/height pair.
// Tokens that do not parse to positive numbers yield 1:1.
func (r Ratio) Dimensions() (w, h float64) {
	parts := strings.SplitN(r.AspectRatio, "/", 2)
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || w <= 0 {
		return 1, 1
	}
	if len(parts) == 1 {
		return w, 1
	}
	h, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || h <= 0 {
		return 1, 1
	}
	return w, h
}

// Step is one tab of the composer wizard.
type Step struct {
	ID     string `yaml:"id" json:"id"`
	Label  string `yaml:"label" json:"label"`
	Helper string `yaml:"helper" json:"helper"`
}

// Key implements Identified.
func (s Step) Key() string { return s.ID }

// Catalog groups every option list. Treat a loaded Catalog as immutable.
type Catalog struct {
	Backgrounds []Background `yaml:"backgrounds" json:"backgrounds"`
	Templates   []Template   `yaml:"templates" json:"templates"`
	Ratios      []Ratio      `yaml:"ratios" json:"ratios"`
	Accents     []string     `yaml:"accents" json:"accents"`
	Steps       []Step       `yaml:"steps" json:"steps"`
}

// Lookup returns the entry whose key equals id, or the first entry when no
// entry matches. The list must be non-empty.
func Lookup[T Identified](items []T, id string) T {
	for _, it := range items {
		if it.Key() == id {
			return it
		}
	}
	return items[0]
}

// Background resolves a background id with fallback to the default.
func (c *Catalog) Background(id string) Background { return Lookup(c.Backgrounds, id) }

// Template resolves a template id with fallback to the default.
func (c *Catalog) Template(id string) Template { return Lookup(c.Templates, id) }

// Ratio resolves a ratio id with fallback to the default.
func (c *Catalog) Ratio(id string) Ratio { return Lookup(c.Ratios, id) }

// Step resolves a step id with fallback to the first step.
func (c *Catalog) Step(id string) Step { return Lookup(c.Steps, id) }

// DefaultAccent returns the first palette color.
func (c *Catalog) DefaultAccent() string { return c.Accents[0] }
