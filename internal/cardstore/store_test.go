package cardstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/starford/quotecard/internal/apperr"
	"github.com/starford/quotecard/internal/models"
	"github.com/starford/quotecard/internal/storage"
)

// failingProvider rejects every write, like a full or disabled store.
type failingProvider struct {
	*storage.Memory
}

func (failingProvider) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func (failingProvider) Remove(context.Context, string) error {
	return errors.New("storage disabled")
}

func testStore(t *testing.T, opts ...Option) (*Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	clock := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	return New(mem, append([]Option{WithClock(tick)}, opts...)...), mem
}

func draft(text string) models.CardDraft {
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

func TestListEmpty(t *testing.T) {
	s, _ := testStore(t)
	cards := s.List(context.Background())
	if cards == nil || len(cards) != 0 {
		t.Fatalf("List on empty store = %#v", cards)
	}
}

func TestSaveAssignsIdentity(t *testing.T) {
	s, _ := testStore(t)
	card, err := s.Save(context.Background(), draft("Hello"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(card.ID, "card-") {
		t.Errorf("id = %q", card.ID)
	}
	if card.CreatedAt != time.Date(2025, 1, 1, 9, 0, 1, 0, time.UTC).UnixMilli() {
		t.Errorf("createdAt = %d", card.CreatedAt)
	}
	if card.Draft() != draft("Hello") {
		t.Errorf("content = %+v", card.CardDraft)
	}
}

func TestSaveThenListNewestFirst(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()
	a, _ := s.Save(ctx, draft("A"))
	b, _ := s.Save(ctx, draft("B"))

	cards := s.List(ctx)
	if len(cards) != 2 {
		t.Fatalf("len = %d", len(cards))
	}
	if cards[0].ID != b.ID || cards[1].ID != a.ID {
		t.Errorf("order = [%s %s], want [%s %s]", cards[0].ID, cards[1].ID, b.ID, a.ID)
	}
}

func TestGetByID(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()
	saved, _ := s.Save(ctx, draft("find me"))

	got, ok := s.Get(ctx, saved.ID)
	if !ok || got.QuoteText != "find me" {
		t.Errorf("Get = %+v, %v", got, ok)
	}
	if _, ok := s.Get(ctx, "card-missing"); ok {
		t.Error("Get of unknown id should report absent")
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()
	a, _ := s.Save(ctx, draft("A"))
	b, _ := s.Save(ctx, draft("B"))

	if err := s.Delete(ctx, "card-unknown"); err != nil {
		t.Fatalf("Delete unknown: %v", err)
	}
	if n := len(s.List(ctx)); n != 2 {
		t.Fatalf("unknown delete changed list: %d", n)
	}

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	cards := s.List(ctx)
	if len(cards) != 1 || cards[0].ID != b.ID {
		t.Errorf("after delete = %+v", cards)
	}
}

func TestDeleteAll(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()
	_, _ = s.Save(ctx, draft("A"))
	if err := s.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if n := len(s.List(ctx)); n != 0 {
		t.Errorf("len after DeleteAll = %d", n)
	}
	if err := s.DeleteAll(ctx); err != nil {
		t.Errorf("DeleteAll on empty: %v", err)
	}
}

func TestCorruptBlobDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	for _, blob := range []string{
		`not json`,
		`{"cards": "nope"}`,
		`{"version": 99, "cards": []}`,
		`[1, 2, 3]`,
		`null`,
		`"string"`,
		`{}`,
		`[null]`,
		`[{}]`,
		`[{"quoteText":"no id"}]`,
		`{"version": 1, "cards": [null]}`,
	} {
		s, mem := testStore(t)
		_ = mem.Set(ctx, DefaultKey, []byte(blob))
		if cards := s.List(ctx); len(cards) != 0 {
			t.Errorf("blob %q: List = %+v, want empty", blob, cards)
		}
	}
}

func TestSaveOverCorruptBlob(t *testing.T) {
	s, mem := testStore(t)
	ctx := context.Background()
	_ = mem.Set(ctx, DefaultKey, []byte(`{{{`))
	if _, err := s.Save(ctx, draft("fresh")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n := len(s.List(ctx)); n != 1 {
		t.Errorf("len = %d, want 1", n)
	}
}

func TestReadsBareArray(t *testing.T) {
	s, mem := testStore(t)
	ctx := context.Background()
	legacy := `[{"id":"card-1700000000000-abc123def","createdAt":1700000000000,"quoteText":"old",` +
		`"quoteAuthor":"x","showAuthor":true,"backgroundId":"night","templateId":"journal",` +
		`"ratioId":"square","accentColor":"#0EA5E9","showAccent":false}]`
	_ = mem.Set(ctx, DefaultKey, []byte(legacy))

	cards := s.List(ctx)
	if len(cards) != 1 || cards[0].BackgroundID != "night" || cards[0].ShowAccent {
		t.Fatalf("legacy decode = %+v", cards)
	}

	// The next write upgrades the layout to the versioned envelope.
	_, _ = s.Save(ctx, draft("new"))
	raw, _ := mem.Get(ctx, DefaultKey)
	if !strings.HasPrefix(string(raw), `{"version":1,`) {
		t.Errorf("blob not upgraded: %s", raw)
	}
	if n := len(s.List(ctx)); n != 2 {
		t.Errorf("len = %d, want 2", n)
	}
}

func TestWriteFailuresReported(t *testing.T) {
	mem := storage.NewMemory()
	ctx := context.Background()
	seed := New(mem)
	existing, _ := seed.Save(ctx, draft("keep"))

	s := New(failingProvider{mem})
	if _, err := s.Save(ctx, draft("lost")); !errors.Is(err, apperr.ErrStorage) {
		t.Errorf("Save err = %v, want ErrStorage", err)
	}
	if err := s.Delete(ctx, existing.ID); !errors.Is(err, apperr.ErrStorage) {
		t.Errorf("Delete err = %v, want ErrStorage", err)
	}
	if err := s.DeleteAll(ctx); !errors.Is(err, apperr.ErrStorage) {
		t.Errorf("DeleteAll err = %v, want ErrStorage", err)
	}
	cards := s.List(ctx)
	if len(cards) != 1 || cards[0].ID != existing.ID {
		t.Errorf("failed writes changed the list: %+v", cards)
	}
}

func TestConcurrentSavesKeepEveryCard(t *testing.T) {
	s := New(storage.NewMemory())
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.Save(ctx, draft(fmt.Sprintf("q%d", i))); err != nil {
				t.Errorf("Save: %v", err)
			}
		}(i)
	}
	wg.Wait()

	cards := s.List(ctx)
	if len(cards) != n {
		t.Fatalf("len = %d, want %d", len(cards), n)
	}
	seen := make(map[string]bool)
	for _, c := range cards {
		if seen[c.ID] {
			t.Fatalf("duplicate id %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestChecksumTracksWrites(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()
	if s.Checksum(ctx) != "" {
		t.Error("empty store should have empty checksum")
	}
	_, _ = s.Save(ctx, draft("A"))
	first := s.Checksum(ctx)
	_, _ = s.Save(ctx, draft("B"))
	if first == "" || first == s.Checksum(ctx) {
		t.Error("checksum should change after a write")
	}
}

func TestCustomIDFunc(t *testing.T) {
	s, _ := testStore(t, WithIDFunc(func(time.Time) string { return "fixed" }))
	card, _ := s.Save(context.Background(), draft("x"))
	if card.ID != "fixed" {
		t.Errorf("id = %q", card.ID)
	}
}
