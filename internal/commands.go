package internal

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/starford/quotecard/internal/clipboard"
	"github.com/starford/quotecard/internal/composer"
	"github.com/starford/quotecard/internal/mcpserver"
	"github.com/starford/quotecard/internal/models"
	"github.com/starford/quotecard/internal/tui"
)

// RunTUI starts the interactive terminal composer.
func RunTUI(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger, closeLog, err := app.sideLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	res, err := app.open(logger)
	if err != nil {
		return err
	}
	defer res.Close()

	return tui.Run(ctx, tui.Options{
		Store:     res.store,
		Catalog:   res.catalog,
		Renderer:  res.renderer,
		Clipboard: clipboard.NewSystem(),
		ExportDir: app.config.Render.ExportDir,
		Logger:    logger,
	})
}

// RunMCP serves the card tools over MCP on stdin/stdout.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger, closeLog, err := app.sideLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	res, err := app.open(logger)
	if err != nil {
		return err
	}
	defer res.Close()

	logger.Info("mcp: serving on stdio")
	return mcpserver.New(res.store, res.catalog).ServeStdio()
}

// Export renders a saved card to a PNG file and prints the written path.
// An empty id exports the newest card; an empty out writes "<id>.png" in the
// configured export directory.
func Export(ctx context.Context, id, out string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger, closeLog, err := app.sideLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	res, err := app.open(logger)
	if err != nil {
		return err
	}
	defer res.Close()

	var card models.SavedCard
	if id == "" {
		cards := res.store.List(ctx)
		if len(cards) == 0 {
			return fmt.Errorf("export: no saved cards")
		}
		card = cards[0]
	} else {
		var ok bool
		card, ok = res.store.Get(ctx, id)
		if !ok {
			return fmt.Errorf("export: card %q not found", id)
		}
	}

	if out == "" {
		out = filepath.Join(app.config.Render.ExportDir, card.ID+".png")
	}
	text := card.QuoteText
	if card.ShowAuthor {
		text += " " + card.QuoteAuthor
	}
	if missing := res.renderer.MissingGlyphs(text); len(missing) > 0 {
		logger.Warn("export: font lacks glyphs",
			slog.String("font", res.renderer.FontSource()),
			slog.String("runes", string(missing)))
		_, _ = fmt.Fprintf(app.errOut, "warning: %s cannot draw %q; set render.font_path to a font that covers them\n",
			res.renderer.FontSource(), string(missing))
	}
	state := composer.StateFromDraft(res.catalog, card.Draft())
	if err := res.renderer.SavePNG(out, composer.ResolvePreview(state, res.catalog)); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	_, err = fmt.Fprintln(app.out, out)
	return err
}

var listHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var listCellStyle = lipgloss.NewStyle().Padding(0, 1)

// List prints the saved cards, newest first, as a table.
func List(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger, closeLog, err := app.sideLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	res, err := app.open(logger)
	if err != nil {
		return err
	}
	defer res.Close()

	cards := res.store.List(ctx)
	if len(cards) == 0 {
		_, err := fmt.Fprintln(app.out, "No saved cards.")
		return err
	}

	now := time.Now()
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		sum := composer.Summarize(composer.StateFromDraft(res.catalog, c.Draft()), res.catalog)
		rows = append(rows, []string{
			c.ID,
			models.RelativeAge(now, c.Created()),
			strings.Join([]string{sum.Background, sum.Template, sum.Ratio}, " · "),
			sum.Excerpt,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return listHeaderStyle
			}
			return listCellStyle
		}).
		Headers("ID", "SAVED", "STYLE", "QUOTE").
		Rows(rows...)

	_, err = fmt.Fprintln(app.out, t.Render())
	return err
}
