// Package testutil provides shared test helpers for card stores and their
// storage backends.
package testutil

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/starford/quotecard/internal/cardstore"
	"github.com/starford/quotecard/internal/models"
	"github.com/starford/quotecard/internal/storage"
)

// TestSQLite creates a temporary SQLite blob store that is automatically cleaned up.
func TestSQLite(t *testing.T) *storage.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "quotecard-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := storage.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestFS creates a temporary data directory with a filesystem provider.
func TestFS(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}

// TestStore returns a card store over fresh in-memory storage.
func TestStore(t *testing.T, opts ...cardstore.Option) *cardstore.Store {
	t.Helper()
	return cardstore.New(storage.NewMemory(), opts...)
}

// ErrBroken is returned by every write to a BrokenProvider.
var ErrBroken = errors.New("storage disabled")

// BrokenProvider reads from an in-memory map but rejects all writes.
type BrokenProvider struct {
	*storage.Memory
}

// NewBrokenProvider returns a BrokenProvider with empty contents.
func NewBrokenProvider() BrokenProvider {
	return BrokenProvider{storage.NewMemory()}
}

// Set always fails.
func (BrokenProvider) Set(context.Context, string, []byte) error { return ErrBroken }

// Remove always fails.
func (BrokenProvider) Remove(context.Context, string) error { return ErrBroken }

// Draft returns complete card content around text.
func Draft(text string) models.CardDraft {
	return models.CardDraft{
		QuoteText:    text,
		QuoteAuthor:  "Ada",
		ShowAuthor:   true,
		BackgroundID: "sunrise",
		TemplateID:   "centered",
		RatioID:      "story",
		AccentColor:  "#F97316",
		ShowAccent:   true,
	}
}
