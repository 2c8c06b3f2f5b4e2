package tui

import (
	"github.com/starford/quotecard/internal/composer"
	"github.com/starford/quotecard/internal/models"
)

// StateMsg reports a composer state change that did not originate from a key
// press, such as the copy feedback expiring.
type StateMsg struct {
	State composer.State
}

// CopiedMsg carries the result of a clipboard copy.
type CopiedMsg struct {
	Feedback composer.Feedback
}

// SavedMsg signals that the current card was written to the gallery.
type SavedMsg struct {
	Card models.SavedCard
	Err  error
}

// CardsMsg carries a fresh gallery listing.
type CardsMsg struct {
	Cards []models.SavedCard
}

// CardDeletedMsg signals that one card was removed.
type CardDeletedMsg struct {
	ID  string
	Err error
}

// CardsClearedMsg signals that the gallery was emptied.
type CardsClearedMsg struct {
	Err error
}

// ExportedMsg signals that the card image was written.
type ExportedMsg struct {
	Path string
	Err  error
}
