package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/starford/quotecard/internal/cardstore"
	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/composer"
	"github.com/starford/quotecard/internal/models"
	"github.com/starford/quotecard/internal/render"
	"github.com/starford/quotecard/internal/sse"
	"github.com/starford/quotecard/internal/testutil"
)

type recordedEvent struct {
	kind, id string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) PublishCardEvent(kind, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{kind, id})
}

func (p *recordingPublisher) all() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedEvent(nil), p.events...)
}

// testEnv builds a router over an in-memory store. An empty authToken means
// disabled mode.
func testEnv(t *testing.T, authToken string) (*cardstore.Store, http.Handler, *recordingPublisher) {
	t.Helper()
	store := testutil.TestStore(t)
	router, pub := testRouter(t, store, authToken != "", authToken, nil)
	return store, router, pub
}

func testRouter(t *testing.T, store *cardstore.Store, authEnabled bool, token string, sseHandler http.Handler) (http.Handler, *recordingPublisher) {
	t.Helper()
	renderer, err := render.New(render.Options{Width: 120})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	pub := &recordingPublisher{}
	router := NewRouter(Deps{
		Store:    store,
		Catalog:  catalog.Default(),
		Renderer: renderer,
		Events:   pub,
		SSE:      sseHandler,
	}, authEnabled, token)
	return router, pub
}

func do(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, target, bytes.NewReader(b))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func saveCard(t *testing.T, router http.Handler, body map[string]any) models.SavedCard {
	t.Helper()
	w := do(t, router, http.MethodPost, "/cards", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body = %s", w.Code, w.Body.String())
	}
	var card models.SavedCard
	if err := json.Unmarshal(w.Body.Bytes(), &card); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return card
}

func TestSaveAndGetCard(t *testing.T) {
	_, router, _ := testEnv(t, "")

	card := saveCard(t, router, map[string]any{
		"quoteText":    "Less is more.",
		"quoteAuthor":  "Mies",
		"showAuthor":   true,
		"backgroundId": "night",
		"templateId":   "journal",
		"ratioId":      "square",
		"accentColor":  "#0EA5E9",
		"showAccent":   true,
	})
	if !strings.HasPrefix(card.ID, "card-") || card.CreatedAt == 0 {
		t.Errorf("identity = %q / %d", card.ID, card.CreatedAt)
	}

	w := do(t, router, http.MethodGet, "/cards/"+card.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got models.SavedCard
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got != card {
		t.Errorf("got %+v, want %+v", got, card)
	}
}

func TestSaveFillsDefaultsAndClampsQuote(t *testing.T) {
	_, router, _ := testEnv(t, "")

	card := saveCard(t, router, map[string]any{"quoteText": strings.Repeat("가", 200)})
	if n := utf8.RuneCountInString(card.QuoteText); n != composer.MaxQuoteRunes {
		t.Errorf("quote runes = %d, want %d", n, composer.MaxQuoteRunes)
	}
	if card.BackgroundID != "sunrise" || card.TemplateID != "centered" || card.RatioID != "story" {
		t.Errorf("defaults not applied: %+v", card.CardDraft)
	}
	if card.AccentColor != "#F97316" {
		t.Errorf("accent = %q", card.AccentColor)
	}
}

func TestSaveValidation(t *testing.T) {
	_, router, pub := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/cards", map[string]any{"quoteAuthor": "nobody"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing quote = %d, want 400", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/cards", strings.NewReader("{not json"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad json = %d, want 400", w.Code)
	}
	if n := len(pub.all()); n != 0 {
		t.Errorf("rejected saves published %d events", n)
	}
}

func TestGetCard_NotFound(t *testing.T) {
	_, router, _ := testEnv(t, "")
	for _, path := range []string{"/cards/card-missing", "/cards/card-missing/preview", "/cards/card-missing/image.png"} {
		if w := do(t, router, http.MethodGet, path, nil); w.Code != http.StatusNotFound {
			t.Errorf("%s = %d, want 404", path, w.Code)
		}
	}
}

func TestListCards(t *testing.T) {
	_, router, _ := testEnv(t, "")
	a := saveCard(t, router, map[string]any{"quoteText": "A"})
	b := saveCard(t, router, map[string]any{"quoteText": "B"})

	w := do(t, router, http.MethodGet, "/cards", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var resp CardListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 || len(resp.Cards) != 2 {
		t.Fatalf("total = %d, cards = %d", resp.Total, len(resp.Cards))
	}
	if resp.Cards[0].ID != b.ID || resp.Cards[1].ID != a.ID {
		t.Errorf("order = [%s %s], want newest first", resp.Cards[0].ID, resp.Cards[1].ID)
	}
	if resp.Cards[0].Age != "방금 전" {
		t.Errorf("age = %q", resp.Cards[0].Age)
	}
}

func TestListCards_EmptyIsArray(t *testing.T) {
	_, router, _ := testEnv(t, "")
	w := do(t, router, http.MethodGet, "/cards", nil)
	if !strings.Contains(w.Body.String(), `"cards":[]`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestListCards_ETag(t *testing.T) {
	_, router, _ := testEnv(t, "")
	saveCard(t, router, map[string]any{"quoteText": "A"})

	w := do(t, router, http.MethodGet, "/cards", nil)
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Errorf("matching If-None-Match = %d, want 304", w.Code)
	}

	saveCard(t, router, map[string]any{"quoteText": "B"})
	req = httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("stale If-None-Match = %d, want 200", w.Code)
	}
}

func TestListCards_ETagFollowsAgeLabels(t *testing.T) {
	store := testutil.TestStore(t)
	if _, err := store.Save(context.Background(), testutil.Draft("A")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved := store.List(context.Background())[0].Created()

	h := NewHandler(Deps{Store: store, Catalog: catalog.Default()})
	h.now = func() time.Time { return saved.Add(10 * time.Second) }

	w := httptest.NewRecorder()
	h.ListCards(w, httptest.NewRequest(http.MethodGet, "/cards", nil))
	etag := w.Header().Get("ETag")
	if w.Code != http.StatusOK || etag == "" {
		t.Fatalf("first listing = %d, etag %q", w.Code, etag)
	}
	if w.Header().Get("Cache-Control") != "no-cache" {
		t.Errorf("Cache-Control = %q", w.Header().Get("Cache-Control"))
	}

	// Same minute: the label is unchanged, so is the validator.
	h.now = func() time.Time { return saved.Add(40 * time.Second) }
	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	h.ListCards(w, req)
	if w.Code != http.StatusNotModified {
		t.Errorf("same age label = %d, want 304", w.Code)
	}

	// Three hours later the age label differs.
	h.now = func() time.Time { return saved.Add(3 * time.Hour) }
	req = httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	h.ListCards(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("rolled-over age label = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"age":"3시간 전"`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if w.Header().Get("ETag") == etag {
		t.Error("ETag should change with the age label")
	}
}

func TestDeleteCard(t *testing.T) {
	_, router, _ := testEnv(t, "")
	card := saveCard(t, router, map[string]any{"quoteText": "bye"})

	if w := do(t, router, http.MethodDelete, "/cards/"+card.ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/cards/"+card.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
	// Deleting again is still a success.
	if w := do(t, router, http.MethodDelete, "/cards/"+card.ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("second delete = %d, want 204", w.Code)
	}
}

func TestDeleteAllCards(t *testing.T) {
	store, router, _ := testEnv(t, "")
	saveCard(t, router, map[string]any{"quoteText": "A"})
	saveCard(t, router, map[string]any{"quoteText": "B"})

	if w := do(t, router, http.MethodDelete, "/cards", nil); w.Code != http.StatusNoContent {
		t.Errorf("delete all = %d, want 204", w.Code)
	}
	if n := len(store.List(context.Background())); n != 0 {
		t.Errorf("cards left = %d", n)
	}
}

func TestEventsPublished(t *testing.T) {
	_, router, pub := testEnv(t, "")
	card := saveCard(t, router, map[string]any{"quoteText": "A"})
	do(t, router, http.MethodDelete, "/cards/"+card.ID, nil)
	do(t, router, http.MethodDelete, "/cards", nil)

	want := []recordedEvent{
		{sse.KindSaved, card.ID},
		{sse.KindDeleted, card.ID},
		{sse.KindCleared, ""},
	}
	got := pub.all()
	if len(got) != len(want) {
		t.Fatalf("events = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStorageFailures(t *testing.T) {
	store := cardstore.New(testutil.NewBrokenProvider())
	router, pub := testRouter(t, store, false, "", nil)

	if w := do(t, router, http.MethodPost, "/cards", map[string]any{"quoteText": "lost"}); w.Code != http.StatusServiceUnavailable {
		t.Errorf("save = %d, want 503", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/cards/card-x", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("delete = %d, want 503", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/cards", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("delete all = %d, want 503", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/cards", nil); w.Code != http.StatusOK {
		t.Errorf("list = %d, want 200", w.Code)
	}
	if n := len(pub.all()); n != 0 {
		t.Errorf("failed writes published %d events", n)
	}
}

func TestPreviewDraft(t *testing.T) {
	_, router, _ := testEnv(t, "")
	w := do(t, router, http.MethodPost, "/preview", map[string]any{
		"quoteText":   "Stay hungry.",
		"quoteAuthor": "Jobs",
		"showAuthor":  false,
		"templateId":  "focus-line",
		"accentColor": "#6366F1",
		"showAccent":  true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("preview status = %d, body = %s", w.Code, w.Body.String())
	}
	var p composer.PreviewDescriptor
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if p.Template.ID != "focus-line" || p.Accent == nil {
		t.Fatalf("preview = %+v", p)
	}
	if p.Accent.Shape != composer.ShapeVerticalBar || p.Accent.Color != "#6366F1" {
		t.Errorf("accent = %+v", p.Accent)
	}
	if p.Author != "" {
		t.Errorf("hidden author leaked: %q", p.Author)
	}
}

func TestCardPreview(t *testing.T) {
	_, router, _ := testEnv(t, "")
	card := saveCard(t, router, map[string]any{
		"quoteText":   "Hello",
		"quoteAuthor": "World",
		"showAuthor":  true,
		"ratioId":     "portrait",
	})

	w := do(t, router, http.MethodGet, "/cards/"+card.ID+"/preview", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp CardPreviewResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Card.ID != card.ID || resp.Preview.Ratio.Token != "4 / 5" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Text != "Hello\n— World" {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Summary.Excerpt != "Hello" {
		t.Errorf("summary = %+v", resp.Summary)
	}
}

func TestCardImage(t *testing.T) {
	_, router, _ := testEnv(t, "")
	card := saveCard(t, router, map[string]any{"quoteText": "Render me", "ratioId": "square"})

	w := do(t, router, http.MethodGet, "/cards/"+card.ID+"/image.png", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content-type = %q", ct)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 120 {
		t.Errorf("size = %dx%d", b.Dx(), b.Dy())
	}
}

func TestGetCatalog(t *testing.T) {
	_, router, _ := testEnv(t, "")
	w := do(t, router, http.MethodGet, "/catalog", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var cat catalog.Catalog
	_ = json.Unmarshal(w.Body.Bytes(), &cat)
	if len(cat.Backgrounds) != 4 || len(cat.Templates) != 3 || len(cat.Ratios) != 3 || len(cat.Accents) != 6 {
		t.Errorf("catalog = %+v", cat)
	}
}

// Auth middleware tests.

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router, _ := testEnv(t, "secret123")
	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router, _ := testEnv(t, "secret123")
	if w := do(t, router, http.MethodGet, "/cards", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("missing token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router, _ := testEnv(t, "secret123")
	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router, _ := testEnv(t, "")
	if w := do(t, router, http.MethodGet, "/cards", nil); w.Code != http.StatusOK {
		t.Errorf("disabled auth = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	_, router, _ := testEnv(t, "secret123")
	if w := do(t, router, http.MethodGet, "/cards?access_token=secret123", nil); w.Code != http.StatusOK {
		t.Errorf("query token on GET = %d, want 200", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/cards?access_token=secret123", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("query token on DELETE = %d, want 401", w.Code)
	}
}

// SSE endpoint auth tests.

func TestSSEEvents_AuthProtected(t *testing.T) {
	router := testEnvWithSSE(t, true, "secret")
	if w := do(t, router, http.MethodGet, "/events", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_AuthDisabled(t *testing.T) {
	router := testEnvWithSSE(t, false, "")

	// The SSE handler blocks until the request context ends.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE should not require auth when disabled")
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	router := testEnvWithSSE(t, true, "tok")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content-type = %q", ct)
	}
}

// testEnvWithSSE creates a router with a real broker mounted at /events.
func testEnvWithSSE(t *testing.T, authEnabled bool, token string) http.Handler {
	t.Helper()
	b := sse.NewBroker(time.Second)
	t.Cleanup(b.Close)
	router, _ := testRouter(t, testutil.TestStore(t), authEnabled, token, b)
	return router
}
