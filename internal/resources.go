package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/quotecard/internal/cardstore"
	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/render"
	"github.com/starford/quotecard/internal/storage"
)

// resources are the components every command shares.
type resources struct {
	provider storage.Provider
	fs       *storage.FS // set for the fs backend only
	store    *cardstore.Store
	catalog  *catalog.Catalog
	renderer *render.Renderer
	key      string
	closers  []io.Closer
}

func (r *resources) Close() {
	for _, c := range r.closers {
		_ = c.Close()
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{out: os.Stdout, errOut: os.Stderr}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// open builds the storage backend, card store, catalog and renderer.
func (a *application) open(logger *slog.Logger) (*resources, error) {
	cfg := a.config
	res := &resources{key: cardstore.DefaultKey}
	if cfg.Store.Key != "" {
		res.key = cfg.Store.Key
	}

	switch cfg.Store.Backend {
	case StoreBackendSQLite:
		db, err := storage.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		res.provider = db
		res.closers = append(res.closers, db)
	case StoreBackendMemory:
		res.provider = storage.NewMemory()
	default:
		fs, err := storage.NewFS(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		if _, err := fs.Path(res.key); err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		res.provider = fs
		res.fs = fs
	}

	res.store = cardstore.New(res.provider,
		cardstore.WithKey(res.key),
		cardstore.WithLogger(logger),
	)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		res.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	res.catalog = cat

	renderer, err := render.New(render.Options{Width: cfg.Render.Width, FontPath: cfg.Render.FontPath})
	if err != nil {
		res.Close()
		return nil, fmt.Errorf("init renderer: %w", err)
	}
	res.renderer = renderer
	if renderer.FontSource() == render.BuiltinFont {
		logger.Warn("render: no Hangul-capable font found, set render.font_path",
			slog.String("font", renderer.FontSource()))
	}

	logger.Debug("resources ready",
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("store_path", cfg.Store.Path),
		slog.String("store_key", res.key),
		slog.String("catalog_path", cfg.Catalog.Path))
	return res, nil
}

// sideLogger returns a JSON logger for commands that own stdout: the log file
// when one is configured, otherwise nothing.
func (a *application) sideLogger() (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: a.config.App.LogLevel}
	if a.config.App.LogFile == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, opts)), func() {}, nil
	}
	f, err := os.OpenFile(a.config.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, opts)), func() { _ = f.Close() }, nil
}
