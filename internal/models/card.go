// Package models defines the domain types for Quotecard.
package models

import (
	"fmt"
	"time"
)

// CardDraft is the content of a card before the store assigns identity.
type CardDraft struct {
	QuoteText    string `json:"quoteText"`
	QuoteAuthor  string `json:"quoteAuthor"`
	ShowAuthor   bool   `json:"showAuthor"`
	BackgroundID string `json:"backgroundId"`
	TemplateID   string `json:"templateId"`
	RatioID      string `json:"ratioId"`
	AccentColor  string `json:"accentColor"`
	ShowAccent   bool   `json:"showAccent"`
}

// SavedCard is a persisted snapshot of a composed card.
// CreatedAt is a Unix timestamp in milliseconds.
type SavedCard struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
	CardDraft
}

// Created returns CreatedAt as a time.Time.
func (c SavedCard) Created() time.Time {
	return time.UnixMilli(c.CreatedAt)
}

// Draft returns the content fields of the card.
func (c SavedCard) Draft() CardDraft {
	return c.CardDraft
}

// RelativeAge formats the distance between createdAt and now the way the
// gallery labels cards. Anything a week or older is shown as a date.
func RelativeAge(now, createdAt time.Time) string {
	diff := now.Sub(createdAt)
	minutes := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case minutes < 1:
		return "방금 전"
	case minutes < 60:
		return fmt.Sprintf("%d분 전", minutes)
	case hours < 24:
		return fmt.Sprintf("%d시간 전", hours)
	case days < 7:
		return fmt.Sprintf("%d일 전", days)
	}
	local := createdAt.Local()
	return fmt.Sprintf("%d.%02d.%02d", local.Year(), int(local.Month()), local.Day())
}
