package composer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/clipboard"
	"github.com/starford/quotecard/internal/models"
)

// Option configures a Composer.
type Option func(*Composer)

// WithClipboard sets the clipboard used by Copy. Without one, Copy always
// reports FeedbackError.
func WithClipboard(w clipboard.Writer) Option {
	return func(c *Composer) { c.clip = w }
}

// WithScheduler replaces the wall-clock scheduler used for the feedback reset.
func WithScheduler(s Scheduler) Option {
	return func(c *Composer) { c.sched = s }
}

// WithFeedbackDelay overrides DefaultFeedbackDelay.
func WithFeedbackDelay(d time.Duration) Option {
	return func(c *Composer) { c.delay = d }
}

// WithOnChange registers a callback invoked with a state copy after every
// change, including the timer-driven feedback reset. It is never called with
// the composer's lock held.
func WithOnChange(fn func(State)) Option {
	return func(c *Composer) { c.onChange = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) { c.logger = l }
}

// Composer owns one editing session. All methods are safe for concurrent use.
type Composer struct {
	mu    sync.Mutex
	cat   *catalog.Catalog
	state State

	clip     clipboard.Writer
	sched    Scheduler
	delay    time.Duration
	onChange func(State)
	logger   *slog.Logger

	resetTimer  Timer
	feedbackGen uint64
}

// New starts a session with default values.
func New(cat *catalog.Catalog, opts ...Option) *Composer {
	c := &Composer{
		cat:    cat,
		state:  InitialState(cat),
		sched:  wallScheduler{},
		delay:  DefaultFeedbackDelay,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromCard starts a session pre-filled with a saved card's content.
func FromCard(cat *catalog.Catalog, card models.SavedCard, opts ...Option) *Composer {
	c := New(cat, opts...)
	c.state = StateFromDraft(cat, card.Draft())
	return c
}

// Catalog returns the catalog the session resolves against.
func (c *Composer) Catalog() *catalog.Catalog { return c.cat }

// State returns a copy of the current state.
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Composer) update(fn func(s *State)) {
	c.mu.Lock()
	fn(&c.state)
	snap := c.state
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Composer) notify(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}

// GoTo makes step the active step.
func (c *Composer) GoTo(step Step) {
	c.update(func(s *State) { s.Step = step })
}

// Next advances to the following step; it stays on the last step.
func (c *Composer) Next() {
	c.update(func(s *State) {
		if i := stepIndex(s.Step); i < len(Steps)-1 {
			s.Step = Steps[i+1]
		}
	})
}

// Prev returns to the preceding step; it stays on the first step.
func (c *Composer) Prev() {
	c.update(func(s *State) {
		if i := stepIndex(s.Step); i > 0 {
			s.Step = Steps[i-1]
		}
	})
}

// SelectBackground sets the background id. Unknown ids are resolved at read time.
func (c *Composer) SelectBackground(id string) {
	c.update(func(s *State) { s.BackgroundID = id })
}

// SelectTemplate sets the template id.
func (c *Composer) SelectTemplate(id string) {
	c.update(func(s *State) { s.TemplateID = id })
}

// SelectRatio sets the ratio id.
func (c *Composer) SelectRatio(id string) {
	c.update(func(s *State) { s.RatioID = id })
}

// SetAccentColor stores color as given; it is not checked against the palette.
func (c *Composer) SetAccentColor(color string) {
	c.update(func(s *State) { s.AccentColor = color })
}

// ToggleAccent flips accent visibility.
func (c *Composer) ToggleAccent() {
	c.update(func(s *State) { s.ShowAccent = !s.ShowAccent })
}

// SetQuoteText stores text unmodified. Length limits belong to the input surface.
func (c *Composer) SetQuoteText(text string) {
	c.update(func(s *State) { s.QuoteText = text })
}

// SetQuoteAuthor stores the author line.
func (c *Composer) SetQuoteAuthor(text string) {
	c.update(func(s *State) { s.QuoteAuthor = text })
}

// ToggleAuthor flips author visibility.
func (c *Composer) ToggleAuthor() {
	c.update(func(s *State) { s.ShowAuthor = !s.ShowAuthor })
}

// SetShowAuthor sets author visibility.
func (c *Composer) SetShowAuthor(show bool) {
	c.update(func(s *State) { s.ShowAuthor = show })
}

// Reset discards every edit and returns to the first step. The transient
// copy feedback is left to its own timer.
func (c *Composer) Reset() {
	c.update(func(s *State) {
		feedback := s.CopyFeedback
		*s = InitialState(c.cat)
		s.CopyFeedback = feedback
	})
}

// Load replaces the content with a saved card's and returns to the first
// step. Copy feedback is kept, as in Reset.
func (c *Composer) Load(card models.SavedCard) {
	c.update(func(s *State) {
		feedback := s.CopyFeedback
		*s = StateFromDraft(c.cat, card.Draft())
		s.CopyFeedback = feedback
	})
}

// UndoText restores the quote, author and author visibility only.
func (c *Composer) UndoText() {
	c.update(func(s *State) {
		s.QuoteText = DefaultQuote
		s.QuoteAuthor = DefaultAuthor
		s.ShowAuthor = true
	})
}

// Snapshot returns the card content to hand to the store.
func (c *Composer) Snapshot() models.CardDraft {
	return c.State().Draft()
}

// Preview resolves the current state against the catalog.
func (c *Composer) Preview() PreviewDescriptor {
	return ResolvePreview(c.State(), c.cat)
}

// Copy writes the export text to the clipboard and records the outcome.
// The write is not retried and not bounded by a timeout of its own.
func (c *Composer) Copy(ctx context.Context) Feedback {
	text := ExportText(c.State())

	result := FeedbackDone
	if c.clip == nil {
		c.logger.Debug("composer: clipboard unavailable")
		result = FeedbackError
	} else if err := c.clip.WriteText(ctx, text); err != nil {
		c.logger.Warn("composer: clipboard write failed", slog.String("error", err.Error()))
		result = FeedbackError
	}

	c.mu.Lock()
	c.setFeedback(result)
	snap := c.state
	c.mu.Unlock()
	c.notify(snap)
	return result
}

// Close cancels the pending feedback reset.
func (c *Composer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
	c.feedbackGen++
}
