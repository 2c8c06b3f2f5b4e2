package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/quotecard/internal/cardstore"
	"github.com/starford/quotecard/internal/composer"
	"github.com/starford/quotecard/internal/render"
)

// StateBridge forwards composer change notifications into a running program.
// It is created before the program exists and attached once it does.
type StateBridge struct {
	mu   sync.Mutex
	send func(msg tea.Msg)
}

// Attach sets the send function, typically program.Send.
func (b *StateBridge) Attach(send func(msg tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

// HandleState is a composer.WithOnChange callback. The message is sent from
// its own goroutine because the composer also notifies from inside Update,
// where a blocking Send would deadlock the event loop.
func (b *StateBridge) HandleState(s composer.State) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send == nil {
		return
	}
	go send(StateMsg{State: s})
}

// CopyCmd copies the composer's export text and reports the outcome.
func CopyCmd(ctx context.Context, c *composer.Composer) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{Feedback: c.Copy(ctx)}
	}
}

// SaveCardCmd stores the composer's current content in the gallery.
func SaveCardCmd(ctx context.Context, store *cardstore.Store, c *composer.Composer) tea.Cmd {
	draft := c.Snapshot()
	return func() tea.Msg {
		card, err := store.Save(ctx, draft)
		return SavedMsg{Card: card, Err: err}
	}
}

// LoadCardsCmd reads the gallery.
func LoadCardsCmd(ctx context.Context, store *cardstore.Store) tea.Cmd {
	return func() tea.Msg {
		return CardsMsg{Cards: store.List(ctx)}
	}
}

// DeleteCardCmd removes one card.
func DeleteCardCmd(ctx context.Context, store *cardstore.Store, id string) tea.Cmd {
	return func() tea.Msg {
		return CardDeletedMsg{ID: id, Err: store.Delete(ctx, id)}
	}
}

// ClearCardsCmd removes every card.
func ClearCardsCmd(ctx context.Context, store *cardstore.Store) tea.Cmd {
	return func() tea.Msg {
		return CardsClearedMsg{Err: store.DeleteAll(ctx)}
	}
}

// ExportCmd renders the composer's preview to a PNG file in dir.
func ExportCmd(r *render.Renderer, c *composer.Composer, dir string, now time.Time) tea.Cmd {
	p := c.Preview()
	path := filepath.Join(dir, fmt.Sprintf("quotecard-%s.png", now.Format("20060102-150405")))
	return func() tea.Msg {
		if r == nil {
			return ExportedMsg{Err: fmt.Errorf("renderer unavailable")}
		}
		return ExportedMsg{Path: path, Err: r.SavePNG(path, p)}
	}
}
