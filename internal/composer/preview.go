package composer

import (
	"slices"

	"github.com/starford/quotecard/internal/catalog"
)

// Accent decoration shapes.
const (
	ShapeVerticalBar = "vertical-bar"
	ShapeBar         = "bar"
	ShapeGradient    = "gradient"
)

// PreviewDescriptor is a renderable description of a card, free of storage
// and UI toolkit detail.
type PreviewDescriptor struct {
	Background    catalog.Background `json:"background"`
	Template      catalog.Template   `json:"template"`
	Ratio         RatioView          `json:"ratio"`
	Quote         string             `json:"quote"`
	Author        string             `json:"author,omitempty"`
	ShowAuthor    bool               `json:"showAuthor"`
	AccentEnabled bool               `json:"accentEnabled"`
	Accent        *Accent            `json:"accent,omitempty"`
}

// RatioView is a resolved aspect ratio.
type RatioView struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Token  string  `json:"token"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Accent is the decoration drawn for the template's accent placement.
type Accent struct {
	Placement string `json:"placement"`
	Shape     string `json:"shape"`
	Color     string `json:"color"`
}

// AccentEnabled reports whether s shows an accent under template t.
func AccentEnabled(s State, t catalog.Template) bool {
	return s.ShowAccent && t.AccentPlacement != catalog.PlacementNone
}

// ResolvePreview projects s onto the catalog. Unknown ids resolve to the
// first catalog entry. The function has no side effects.
func ResolvePreview(s State, cat *catalog.Catalog) PreviewDescriptor {
	bg := cat.Background(s.BackgroundID)
	bg.Gradient = slices.Clone(bg.Gradient)
	tpl := cat.Template(s.TemplateID)
	ratio := cat.Ratio(s.RatioID)
	w, h := ratio.Dimensions()

	p := PreviewDescriptor{
		Background: bg,
		Template:   tpl,
		Ratio: RatioView{
			ID:     ratio.ID,
			Label:  ratio.Label,
			Token:  ratio.AspectRatio,
			Width:  w,
			Height: h,
		},
		Quote:         s.QuoteText,
		ShowAuthor:    s.ShowAuthor,
		AccentEnabled: AccentEnabled(s, tpl),
	}
	if s.ShowAuthor {
		p.Author = s.QuoteAuthor
	}
	if p.AccentEnabled {
		p.Accent = &Accent{
			Placement: tpl.AccentPlacement,
			Shape:     accentShape(tpl.AccentPlacement),
			Color:     s.AccentColor,
		}
	}
	return p
}

func accentShape(placement string) string {
	switch placement {
	case catalog.PlacementLeft:
		return ShapeVerticalBar
	case catalog.PlacementTop:
		return ShapeBar
	default:
		return ShapeGradient
	}
}

// ExportText is the clipboard payload: the quote, then "— author" on its own
// line when the author is shown.
func ExportText(s State) string {
	if !s.ShowAuthor {
		return s.QuoteText
	}
	return s.QuoteText + "\n— " + s.QuoteAuthor
}

// Summary describes a finished card in a few words.
type Summary struct {
	Background       string `json:"background"`
	Template         string `json:"template"`
	Ratio            string `json:"ratio"`
	RatioDescription string `json:"ratioDescription"`
	Excerpt          string `json:"excerpt"`
}

const excerptRunes = 32

// Summarize builds the completion summary for s.
func Summarize(s State, cat *catalog.Catalog) Summary {
	ratio := cat.Ratio(s.RatioID)
	excerpt := []rune(s.QuoteText)
	text := s.QuoteText
	if len(excerpt) > excerptRunes {
		text = string(excerpt[:excerptRunes]) + "…"
	}
	return Summary{
		Background:       cat.Background(s.BackgroundID).Label,
		Template:         cat.Template(s.TemplateID).Label,
		Ratio:            ratio.Label,
		RatioDescription: ratio.Description,
		Excerpt:          text,
	}
}
