package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/composer"
)

const minPreviewHeight = 6

// RenderPreview draws p as a block of terminal cells width columns wide.
// Terminal cells are about twice as tall as they are wide, so the row count
// is half the ratio's height.
func RenderPreview(p composer.PreviewDescriptor, width int) string {
	if width < 12 {
		width = 12
	}
	height := int(math.Round(float64(width) * p.Ratio.Height / p.Ratio.Width / 2))
	if height < minPreviewHeight {
		height = minPreviewHeight
	}

	bg := lipgloss.Color(p.Background.Gradient[0])
	fg := lipgloss.Color(p.Background.TextColor)

	innerWidth := width
	var left string
	if p.Accent != nil && p.Accent.Placement == catalog.PlacementLeft {
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent.Color)).Background(bg)
		left = bar.Render(strings.TrimSuffix(strings.Repeat("┃\n", height), "\n"))
		innerWidth--
	}

	pos := lipgloss.Left
	if p.Template.Align == catalog.AlignCenter {
		pos = lipgloss.Center
	}
	text := lipgloss.NewStyle().Foreground(fg).Background(bg).Width(innerWidth - 2).Align(pos)

	var lines []string
	if p.Accent != nil && p.Accent.Placement == catalog.PlacementTop {
		lines = append(lines, text.Foreground(lipgloss.Color(p.Accent.Color)).Render("━━━━"))
	}
	lines = append(lines, text.Bold(true).Render(p.Quote))
	if p.ShowAuthor {
		lines = append(lines, text.Faint(true).Render("— "+p.Author))
	}
	if p.Accent != nil && p.Accent.Placement == catalog.PlacementBottom {
		lines = append(lines, text.Foreground(lipgloss.Color(p.Accent.Color)).Render(strings.Repeat("▂", innerWidth/2)))
	}

	vpos := lipgloss.Center
	if p.Template.Justify == catalog.JustifyBetween {
		vpos = lipgloss.Top
	}
	body := lipgloss.NewStyle().
		Width(innerWidth).
		Height(height).
		Padding(0, 1).
		Background(bg).
		AlignVertical(vpos).
		Render(lipgloss.JoinVertical(pos, lines...))

	card := body
	if left != "" {
		card = lipgloss.JoinHorizontal(lipgloss.Top, left, body)
	}
	if p.Background.BorderColor != "" {
		card = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(p.Background.BorderColor)).
			Render(card)
	}
	return card
}
