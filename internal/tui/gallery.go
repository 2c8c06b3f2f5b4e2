package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/models"
)

const galleryExcerptRunes = 40

// GalleryModel lists saved cards with a cursor.
type GalleryModel struct {
	cards  []models.SavedCard
	cursor int
	loaded bool
}

// SetCards replaces the listing, keeping the cursor in range.
func (g *GalleryModel) SetCards(cards []models.SavedCard) {
	g.cards = cards
	g.loaded = true
	if g.cursor >= len(cards) {
		g.cursor = len(cards) - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
}

// Len returns the number of cards.
func (g GalleryModel) Len() int { return len(g.cards) }

// MoveUp moves the cursor towards newer cards.
func (g *GalleryModel) MoveUp() {
	if g.cursor > 0 {
		g.cursor--
	}
}

// MoveDown moves the cursor towards older cards.
func (g *GalleryModel) MoveDown() {
	if g.cursor < len(g.cards)-1 {
		g.cursor++
	}
}

// Selected returns the card under the cursor.
func (g GalleryModel) Selected() (models.SavedCard, bool) {
	if g.cursor < 0 || g.cursor >= len(g.cards) {
		return models.SavedCard{}, false
	}
	return g.cards[g.cursor], true
}

// View renders the listing.
func (g GalleryModel) View(cat *catalog.Catalog, now time.Time) string {
	if !g.loaded {
		return HelperStyle.Render("불러오는 중...")
	}
	if len(g.cards) == 0 {
		return HelperStyle.Render("아직 저장된 카드가 없어요.")
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("갤러리 (%d)", len(g.cards))))
	b.WriteString("\n\n")
	for i, c := range g.cards {
		prefix := "  "
		if i == g.cursor {
			prefix = CursorStyle.Render("▸ ")
		}
		bg := cat.Background(c.BackgroundID)
		line := fmt.Sprintf("%s %s", swatch(bg.Gradient[0]), OptionStyle.Render(excerpt(c.QuoteText, galleryExcerptRunes)))
		meta := DescriptionStyle.Render(fmt.Sprintf("  %s · %s · %s",
			cat.Template(c.TemplateID).Label,
			cat.Ratio(c.RatioID).Label,
			models.RelativeAge(now, c.Created()),
		))
		b.WriteString(prefix + line + meta + "\n")
	}
	return b.String()
}

// excerpt shortens s to n runes on one line.
func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
