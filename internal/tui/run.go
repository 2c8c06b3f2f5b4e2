package tui

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/quotecard/internal/cardstore"
	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/clipboard"
	"github.com/starford/quotecard/internal/composer"
	"github.com/starford/quotecard/internal/render"
)

// Options configures Run.
type Options struct {
	Store     *cardstore.Store
	Catalog   *catalog.Catalog
	Renderer  *render.Renderer
	Clipboard clipboard.Writer
	ExportDir string
	Logger    *slog.Logger
}

// Run starts a composer session and drives it from the terminal until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	bridge := &StateBridge{}
	comp := composer.New(opts.Catalog,
		composer.WithClipboard(opts.Clipboard),
		composer.WithOnChange(bridge.HandleState),
		composer.WithLogger(logger),
	)
	defer comp.Close()

	m := NewModel(ctx, Deps{
		Composer:  comp,
		Store:     opts.Store,
		Renderer:  opts.Renderer,
		ExportDir: opts.ExportDir,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p.Send)

	logger.Info("tui: started")
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	logger.Info("tui: stopped")
	return err
}
