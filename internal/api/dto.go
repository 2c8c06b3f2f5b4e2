package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/composer"
	"github.com/starford/quotecard/internal/models"
)

// SaveCardRequest is the request body for saving or previewing a card.
// Empty option ids take the catalog defaults.
type SaveCardRequest struct {
	QuoteText    string `json:"quoteText" example:"Simplicity is prerequisite for reliability." validate:"required"`
	QuoteAuthor  string `json:"quoteAuthor" example:"Edsger Dijkstra"`
	ShowAuthor   bool   `json:"showAuthor" example:"true"`
	BackgroundID string `json:"backgroundId" example:"sunrise"`
	TemplateID   string `json:"templateId" example:"centered"`
	RatioID      string `json:"ratioId" example:"story"`
	AccentColor  string `json:"accentColor" example:"#F97316"`
	ShowAccent   bool   `json:"showAccent" example:"true"`
}

// Validate checks the request.
func (r *SaveCardRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.QuoteText, validation.Required),
	)
}

// Draft converts the request into card content, clamping the quote to
// composer.MaxQuoteRunes runes.
func (r *SaveCardRequest) Draft(cat *catalog.Catalog) models.CardDraft {
	d := models.CardDraft{
		QuoteText:    composer.ClampQuote(r.QuoteText),
		QuoteAuthor:  r.QuoteAuthor,
		ShowAuthor:   r.ShowAuthor,
		BackgroundID: r.BackgroundID,
		TemplateID:   r.TemplateID,
		RatioID:      r.RatioID,
		AccentColor:  r.AccentColor,
		ShowAccent:   r.ShowAccent,
	}
	if d.BackgroundID == "" {
		d.BackgroundID = cat.Backgrounds[0].ID
	}
	if d.TemplateID == "" {
		d.TemplateID = cat.Templates[0].ID
	}
	if d.RatioID == "" {
		d.RatioID = cat.Ratios[0].ID
	}
	if d.AccentColor == "" {
		d.AccentColor = cat.DefaultAccent()
	}
	return d
}

// CardListItem is a saved card with its gallery age label.
type CardListItem struct {
	models.SavedCard
	Age string `json:"age" example:"3분 전" validate:"required"`
}

// CardListResponse wraps the gallery listing.
type CardListResponse struct {
	Cards []CardListItem `json:"cards" validate:"required"`
	Total int            `json:"total" example:"3" validate:"required"`
}

// CardPreviewResponse pairs a saved card with its resolved preview.
type CardPreviewResponse struct {
	Card    models.SavedCard           `json:"card" validate:"required"`
	Preview composer.PreviewDescriptor `json:"preview" validate:"required"`
	Summary composer.Summary           `json:"summary" validate:"required"`
	Text    string                     `json:"text" validate:"required"`
}
