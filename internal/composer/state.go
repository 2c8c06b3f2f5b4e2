// Package composer implements the in-memory editing session for one card:
// the wizard step, the editable attributes, the transient copy feedback, and
// the pure projection from that state to a renderable preview.
package composer

import (
	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/models"
)

// Step identifies a wizard tab. Order is advisory; any step may be entered
// directly.
type Step string

// Wizard steps.
const (
	StepBackground Step = "background"
	StepTemplate   Step = "template"
	StepText       Step = "text"
	StepDetail     Step = "detail"
	StepComplete   Step = "complete"
)

// Steps lists the wizard steps in navigation order.
var Steps = []Step{StepBackground, StepTemplate, StepText, StepDetail, StepComplete}

// Feedback is the transient result of the last copy attempt.
type Feedback string

// Copy feedback values.
const (
	FeedbackIdle  Feedback = "idle"
	FeedbackDone  Feedback = "done"
	FeedbackError Feedback = "error"
)

// Initial text values.
const (
	DefaultQuote  = "오늘 마음에 남은 문장을 적어보세요."
	DefaultAuthor = "작가 이름"
)

// MaxQuoteRunes is the longest quote the text entry surfaces accept.
const MaxQuoteRunes = 140

// State is a value copy of a composer session.
type State struct {
	Step         Step     `json:"step"`
	BackgroundID string   `json:"backgroundId"`
	TemplateID   string   `json:"templateId"`
	RatioID      string   `json:"ratioId"`
	AccentColor  string   `json:"accentColor"`
	ShowAccent   bool     `json:"showAccent"`
	QuoteText    string   `json:"quoteText"`
	QuoteAuthor  string   `json:"quoteAuthor"`
	ShowAuthor   bool     `json:"showAuthor"`
	CopyFeedback Feedback `json:"copyFeedback"`
}

// InitialState returns the state a fresh session starts with.
func InitialState(cat *catalog.Catalog) State {
	return State{
		Step:         StepBackground,
		BackgroundID: cat.Backgrounds[0].ID,
		TemplateID:   cat.Templates[0].ID,
		RatioID:      cat.Ratios[0].ID,
		AccentColor:  cat.DefaultAccent(),
		ShowAccent:   true,
		QuoteText:    DefaultQuote,
		QuoteAuthor:  DefaultAuthor,
		ShowAuthor:   true,
		CopyFeedback: FeedbackIdle,
	}
}

// StateFromDraft builds a state positioned on the first step from card content.
func StateFromDraft(cat *catalog.Catalog, d models.CardDraft) State {
	s := InitialState(cat)
	s.BackgroundID = d.BackgroundID
	s.TemplateID = d.TemplateID
	s.RatioID = d.RatioID
	s.AccentColor = d.AccentColor
	s.ShowAccent = d.ShowAccent
	s.QuoteText = d.QuoteText
	s.QuoteAuthor = d.QuoteAuthor
	s.ShowAuthor = d.ShowAuthor
	return s
}

// Draft returns the content fields of s as a card draft.
func (s State) Draft() models.CardDraft {
	return models.CardDraft{
		QuoteText:    s.QuoteText,
		QuoteAuthor:  s.QuoteAuthor,
		ShowAuthor:   s.ShowAuthor,
		BackgroundID: s.BackgroundID,
		TemplateID:   s.TemplateID,
		RatioID:      s.RatioID,
		AccentColor:  s.AccentColor,
		ShowAccent:   s.ShowAccent,
	}
}

// ClampQuote truncates s to MaxQuoteRunes runes.
func ClampQuote(s string) string {
	r := []rune(s)
	if len(r) <= MaxQuoteRunes {
		return s
	}
	return string(r[:MaxQuoteRunes])
}

func stepIndex(s Step) int {
	for i, st := range Steps {
		if st == s {
			return i
		}
	}
	return 0
}
