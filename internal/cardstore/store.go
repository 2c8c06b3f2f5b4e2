// Package cardstore persists saved cards as a single list blob behind a
// storage.Provider.
package cardstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/starford/quotecard/internal/apperr"
	"github.com/starford/quotecard/internal/checksum"
	"github.com/starford/quotecard/internal/models"
	"github.com/starford/quotecard/internal/storage"
)

// DefaultKey is the blob key the card list lives under.
const DefaultKey = "quote-cards-saved"

const envelopeVersion = 1

// envelope is the persisted layout. Bare JSON arrays are also accepted on read.
type envelope struct {
	Version int                `json:"version"`
	Cards   []models.SavedCard `json:"cards"`
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock sets the time source for CreatedAt and ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc replaces the id generator.
func WithIDFunc(fn func(time.Time) string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store is the card collection. Each operation is an atomic
// read-modify-write of the whole list.
type Store struct {
	mu     sync.Mutex
	p      storage.Provider
	key    string
	now    func() time.Time
	newID  func(time.Time) string
	logger *slog.Logger
}

// New creates a store over p.
func New(p storage.Provider, opts ...Option) *Store {
	s := &Store{
		p:      p,
		key:    DefaultKey,
		now:    time.Now,
		newID:  NewID,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns "card-" followed by a ULID for t: a millisecond timestamp
// plus 80 random bits.
func NewID(t time.Time) string {
	return "card-" + ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
}

// List returns the saved cards, newest first. A missing, unreadable, or
// malformed blob yields an empty list.
func (s *Store) List(ctx context.Context) []models.SavedCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get returns the card with id.
func (s *Store) Get(ctx context.Context, id string) (models.SavedCard, bool) {
	for _, c := range s.List(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	return models.SavedCard{}, false
}

// Save assigns an id and timestamp to d, stores it at the front of the list
// and returns it. A failed write leaves the stored list as it was.
func (s *Store) Save(ctx context.Context, d models.CardDraft) (models.SavedCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	card := models.SavedCard{
		ID:        s.newID(now),
		CreatedAt: now.UnixMilli(),
		CardDraft: d,
	}
	cards := append([]models.SavedCard{card}, s.load(ctx)...)
	if err := s.write(ctx, cards); err != nil {
		return models.SavedCard{}, err
	}
	s.logger.Debug("cardstore: saved", slog.String("id", card.ID))
	return card, nil
}

// Delete removes the card with id. Deleting an unknown id succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := slices.DeleteFunc(s.load(ctx), func(c models.SavedCard) bool { return c.ID == id })
	if err := s.write(ctx, cards); err != nil {
		return err
	}
	s.logger.Debug("cardstore: deleted", slog.String("id", id))
	return nil
}

// DeleteAll clears the collection.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.p.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("cardstore: delete all: %w: %w", apperr.ErrStorage, err)
	}
	s.logger.Debug("cardstore: cleared")
	return nil
}

// Checksum fingerprints the stored blob; "" when nothing is stored.
func (s *Store) Checksum(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.p.Get(ctx, s.key)
	if err != nil {
		return ""
	}
	return checksum.Sum(data)
}

func (s *Store) load(ctx context.Context) []models.SavedCard {
	data, err := s.p.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotExist) {
			s.logger.Warn("cardstore: read failed", slog.String("error", err.Error()))
		}
		return []models.SavedCard{}
	}
	cards, err := Decode(data)
	if err != nil {
		s.logger.Warn("cardstore: discarding malformed blob", slog.String("error", err.Error()))
		return []models.SavedCard{}
	}
	return cards
}

func (s *Store) write(ctx context.Context, cards []models.SavedCard) error {
	data, err := Encode(cards)
	if err != nil {
		return fmt.Errorf("cardstore: encode: %w", err)
	}
	if err := s.p.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("cardstore: write: %w: %w", apperr.ErrStorage, err)
	}
	return nil
}

// Encode serializes cards in the current envelope format.
func Encode(cards []models.SavedCard) ([]byte, error) {
	if cards == nil {
		cards = []models.SavedCard{}
	}
	return json.Marshal(envelope{Version: envelopeVersion, Cards: cards})
}

// Decode parses a stored blob: the versioned envelope or a bare array.
// Empty input decodes to an empty list.
func Decode(data []byte) ([]models.SavedCard, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []models.SavedCard{}, nil
	}

	switch trimmed[0] {
	case '[':
		var cards []models.SavedCard
		if err := json.Unmarshal(trimmed, &cards); err != nil {
			return nil, err
		}
		return checkCards(cards)
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		if env.Version < 1 || env.Version > envelopeVersion {
			return nil, fmt.Errorf("unsupported envelope version %d", env.Version)
		}
		return checkCards(env.Cards)
	}
	return nil, fmt.Errorf("unexpected blob shape")
}

// checkCards rejects lists holding entries without an id, such as null or
// non-card objects.
func checkCards(cards []models.SavedCard) ([]models.SavedCard, error) {
	for i, c := range cards {
		if c.ID == "" {
			return nil, fmt.Errorf("card %d has no id", i)
		}
	}
	if cards == nil {
		return []models.SavedCard{}, nil
	}
	return cards, nil
}
