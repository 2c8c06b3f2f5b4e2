// Package render draws a composer.PreviewDescriptor as a PNG image.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/composer"
)

// Options controls output size and typography.
type Options struct {
	// Width is the image width in pixels; height follows the ratio.
	Width int
	// FontPath is a TrueType font file. Empty picks the first installed
	// SystemFonts entry, then Go Regular, which has no Hangul glyphs.
	FontPath string
}

// SystemFonts are Hangul-capable TrueType fonts tried when no FontPath is
// configured. Collections (.ttc) are not supported by the parser.
var SystemFonts = []string{
	"/usr/share/fonts/truetype/nanum/NanumGothic.ttf",
	"/usr/share/fonts/nanum/NanumGothic.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansKR-Regular.ttf",
	"/usr/share/fonts/noto-cjk/NotoSansKR-Regular.ttf",
	"/System/Library/Fonts/Supplemental/AppleGothic.ttf",
	"/Library/Fonts/NanumGothic.ttf",
	`C:\Windows\Fonts\malgun.ttf`,
}

// BuiltinFont names the embedded fallback font in FontSource.
const BuiltinFont = "builtin:goregular"

// Renderer draws cards. A Renderer is safe for concurrent use.
type Renderer struct {
	width  int
	font   *truetype.Font
	source string
}

// New parses the configured font and returns a Renderer.
func New(opts Options) (*Renderer, error) {
	var f *truetype.Font
	source := opts.FontPath
	if opts.FontPath != "" {
		b, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("render: read font: %w", err)
		}
		if f, err = truetype.Parse(b); err != nil {
			return nil, fmt.Errorf("render: parse font: %w", err)
		}
	} else {
		f, source = systemFont()
	}
	if f == nil {
		var err error
		if f, err = truetype.Parse(goregular.TTF); err != nil {
			return nil, fmt.Errorf("render: parse font: %w", err)
		}
		source = BuiltinFont
	}
	width := opts.Width
	if width <= 0 {
		width = 1080
	}
	return &Renderer{width: width, font: f, source: source}, nil
}

func systemFont() (*truetype.Font, string) {
	for _, path := range SystemFonts {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := truetype.Parse(b)
		if err != nil {
			continue
		}
		return f, path
	}
	return nil, ""
}

// FontSource is the font file in use, or BuiltinFont.
func (r *Renderer) FontSource() string { return r.source }

// MissingGlyphs returns the distinct runes of text the font cannot draw,
// in order of first appearance. Whitespace is ignored.
func (r *Renderer) MissingGlyphs(text string) []rune {
	var missing []rune
	seen := make(map[rune]bool)
	for _, c := range text {
		if unicode.IsSpace(c) || seen[c] {
			continue
		}
		seen[c] = true
		if r.font.Index(c) == 0 {
			missing = append(missing, c)
		}
	}
	return missing
}

// layout holds the pixel metrics derived from the card width.
type layout struct {
	w, h     float64
	unit     float64 // one spacing step
	padding  float64
	quotePt  float64
	authorPt float64
}

func (r *Renderer) layoutFor(p composer.PreviewDescriptor) layout {
	w := float64(r.width)
	h := math.Round(w * p.Ratio.Height / p.Ratio.Width)
	unit := w / 90
	return layout{
		w:        w,
		h:        h,
		unit:     unit,
		padding:  unit * 6,
		quotePt:  w / 20,
		authorPt: w / 32,
	}
}

func (r *Renderer) face(size float64) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Image draws p and returns the image.
func (r *Renderer) Image(p composer.PreviewDescriptor) image.Image {
	l := r.layoutFor(p)
	dc := gg.NewContext(int(l.w), int(l.h))

	r.drawBackground(dc, p.Background, l)

	x0 := l.padding + float64(p.Template.InsetLeft)*l.unit
	textWidth := l.w - x0 - l.padding

	if p.Accent != nil && p.Accent.Placement == catalog.PlacementLeft {
		drawLeftBar(dc, p.Accent.Color, l)
	}

	quoteFace := r.face(l.quotePt)
	authorFace := r.face(l.authorPt)
	lineSpacing := 1.6

	dc.SetFontFace(quoteFace)
	quoteLines := dc.WordWrap(p.Quote, textWidth)
	quoteH := float64(len(quoteLines)) * l.quotePt * lineSpacing

	authorLine := ""
	authorH := 0.0
	if p.ShowAuthor {
		authorLine = "— " + p.Author
		authorH = l.authorPt*lineSpacing + l.unit*3
	}

	topAccentH, bottomAccentH := 0.0, 0.0
	gap := float64(p.Template.Gap) * l.unit
	if p.Accent != nil {
		switch p.Accent.Placement {
		case catalog.PlacementTop:
			topAccentH = l.unit + gap
		case catalog.PlacementBottom:
			bottomAccentH = l.unit*12 + gap
		}
	}

	contentH := quoteH + authorH
	var y float64
	if p.Template.Justify == catalog.JustifyBetween {
		y = l.padding + topAccentH
	} else {
		y = (l.h-contentH-topAccentH-bottomAccentH)/2 + topAccentH
	}

	if topAccentH > 0 {
		drawTopBar(dc, p.Accent.Color, x0, y-topAccentH, l, p.Template.Align)
	}

	align := gg.AlignLeft
	ax, tx := 0.0, x0
	if p.Template.Align == catalog.AlignCenter {
		align = gg.AlignCenter
		ax, tx = 0.5, l.w/2
		textWidth = l.w - 2*l.padding
	}

	dc.SetColor(parseColor(p.Background.TextColor, color.Black))
	dc.SetFontFace(quoteFace)
	dc.DrawStringWrapped(p.Quote, tx, y, ax, 0, textWidth, lineSpacing, align)

	if authorLine != "" {
		dc.SetFontFace(authorFace)
		c := parseColorful(p.Background.TextColor)
		dc.SetRGBA(c.R, c.G, c.B, 0.8)
		dc.DrawStringWrapped(authorLine, tx, y+quoteH+l.unit*3, ax, 0, textWidth, lineSpacing, align)
	}

	if bottomAccentH > 0 {
		var by float64
		if p.Template.Justify == catalog.JustifyBetween {
			by = l.h - l.padding - l.unit*12
		} else {
			by = y + contentH + gap
		}
		drawBottomGradient(dc, p.Accent.Color, l.padding, by, l.w-2*l.padding, l.unit*12)
	}

	return dc.Image()
}

// EncodePNG draws p and writes it to w as PNG.
func (r *Renderer) EncodePNG(w io.Writer, p composer.PreviewDescriptor) error {
	dc := gg.NewContextForImage(r.Image(p))
	return dc.EncodePNG(w)
}

// SavePNG draws p into a PNG file.
func (r *Renderer) SavePNG(path string, p composer.PreviewDescriptor) error {
	dc := gg.NewContextForImage(r.Image(p))
	return dc.SavePNG(path)
}

func (r *Renderer) drawBackground(dc *gg.Context, bg catalog.Background, l layout) {
	if len(bg.Gradient) == 1 {
		dc.SetColor(parseColor(bg.Gradient[0], color.White))
	} else {
		grad := gg.NewLinearGradient(0, 0, l.w, l.h)
		last := float64(len(bg.Gradient) - 1)
		for i, stop := range bg.Gradient {
			grad.AddColorStop(float64(i)/last, parseColor(stop, color.White))
		}
		dc.SetFillStyle(grad)
	}
	dc.DrawRectangle(0, 0, l.w, l.h)
	dc.Fill()

	if bg.BorderColor != "" {
		lw := l.unit / 2
		dc.SetColor(parseColor(bg.BorderColor, color.Gray{Y: 0xd1}))
		dc.SetLineWidth(lw)
		dc.DrawRectangle(lw/2, lw/2, l.w-lw, l.h-lw)
		dc.Stroke()
	}
}

func drawLeftBar(dc *gg.Context, accent string, l layout) {
	c := parseColorful(accent)
	dc.SetRGBA(c.R, c.G, c.B, 0.7)
	inset := l.unit * 6
	dc.DrawRoundedRectangle(inset, inset, l.unit, l.h-2*inset, l.unit/2)
	dc.Fill()
}

func drawTopBar(dc *gg.Context, accent string, x, y float64, l layout, align string) {
	c := parseColorful(accent)
	dc.SetRGBA(c.R, c.G, c.B, 0.8)
	barW := l.unit * 16
	if align == catalog.AlignCenter {
		x = (l.w - barW) / 2
	}
	dc.DrawRoundedRectangle(x, y, barW, l.unit, l.unit/2)
	dc.Fill()
}

func drawBottomGradient(dc *gg.Context, accent string, x, y, w, h float64) {
	c := parseColorful(accent)
	grad := gg.NewLinearGradient(x, y, x+w, y)
	grad.AddColorStop(0, color.NRGBA{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255), A: 204})
	grad.AddColorStop(1, color.NRGBA{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255), A: 0})
	dc.SetFillStyle(grad)
	dc.DrawRoundedRectangle(x, y, w, h, h/2)
	dc.Fill()
}

// defaultAccent is used when a stored accent is not a parseable hex color.
var defaultAccent = colorful.Color{R: 0x33 / 255.0, G: 0x41 / 255.0, B: 0x55 / 255.0}

func parseColorful(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return defaultAccent
	}
	return c
}

func parseColor(hex string, fallback color.Color) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return c
}
