package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/quotecard/internal/apperr"
	"github.com/starford/quotecard/internal/cardstore"
	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/checksum"
	"github.com/starford/quotecard/internal/composer"
	"github.com/starford/quotecard/internal/models"
	"github.com/starford/quotecard/internal/render"
	"github.com/starford/quotecard/internal/sse"
)

// Handler holds API route handlers.
type Handler struct {
	store    *cardstore.Store
	cat      *catalog.Catalog
	renderer *render.Renderer
	events   EventPublisher
	now      func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		store:    d.Store,
		cat:      d.Catalog,
		renderer: d.Renderer,
		events:   d.Events,
		now:      time.Now,
	}
}

func (h *Handler) publish(kind, id string) {
	if h.events != nil {
		h.events.PublishCardEvent(kind, id)
	}
}

// writeStoreError maps a failed store write to a response.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	slog.Error(op+" failed", slog.String("error", err.Error()))
	if errors.Is(err, apperr.ErrStorage) {
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}

// GetCatalog handles GET /api/catalog.
//
//	@Summary		Get the option catalogs
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	catalog.Catalog
//	@Security		BearerAuth
//	@Router			/catalog [get]
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cat)
}

// ListCards handles GET /api/cards.
//
//	@Summary		List saved cards, newest first
//	@Tags			cards
//	@Produce		json
//	@Param			If-None-Match	header		string	false	"ETag from a previous listing"
//	@Success		200				{object}	CardListResponse
//	@Success		304				"Not modified"
//	@Security		BearerAuth
//	@Router			/cards [get]
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards := h.store.List(r.Context())
	now := h.now()
	items := make([]CardListItem, 0, len(cards))
	for _, c := range cards {
		items = append(items, CardListItem{SavedCard: c, Age: models.RelativeAge(now, c.Created())})
	}

	// The validator covers the encoded body, so age labels that roll over
	// with the clock invalidate it along with stored changes.
	body, err := encodeJSON(CardListResponse{Cards: items, Total: len(items)})
	if err != nil {
		slog.Error("list cards: encode failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	etag := checksum.ETag(checksum.Sum(body))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// GetCard handles GET /api/cards/{id}.
//
//	@Summary		Get a saved card
//	@Tags			cards
//	@Produce		json
//	@Param			id	path		string	true	"Card id"
//	@Success		200	{object}	models.SavedCard
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards/{id} [get]
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, ok := h.card(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// card loads the card named by the {id} URL parameter, answering 404 when it
// is absent.
func (h *Handler) card(w http.ResponseWriter, r *http.Request) (models.SavedCard, bool) {
	id := chi.URLParam(r, "id")
	card, ok := h.store.Get(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
	}
	return card, ok
}

// decodeDraft reads and validates a SaveCardRequest body.
func (h *Handler) decodeDraft(w http.ResponseWriter, r *http.Request) (models.CardDraft, bool) {
	var req SaveCardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return models.CardDraft{}, false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return models.CardDraft{}, false
	}
	return req.Draft(h.cat), true
}

// SaveCard handles POST /api/cards.
//
//	@Summary		Save a card to the gallery
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SaveCardRequest	true	"Card content"
//	@Success		201		{object}	models.SavedCard
//	@Failure		400		{object}	errResponse
//	@Failure		503		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards [post]
func (h *Handler) SaveCard(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}
	card, err := h.store.Save(r.Context(), draft)
	if err != nil {
		writeStoreError(w, "save card", err)
		return
	}
	h.publish(sse.KindSaved, card.ID)
	writeJSON(w, http.StatusCreated, card)
}

// DeleteCard handles DELETE /api/cards/{id}.
//
//	@Summary		Delete a saved card
//	@Tags			cards
//	@Param			id	path	string	true	"Card id"
//	@Success		204	"Card deleted (or never existed)"
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards/{id} [delete]
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, "delete card", err)
		return
	}
	h.publish(sse.KindDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllCards handles DELETE /api/cards.
//
//	@Summary		Clear the gallery
//	@Tags			cards
//	@Success		204	"Gallery cleared"
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards [delete]
func (h *Handler) DeleteAllCards(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAll(r.Context()); err != nil {
		writeStoreError(w, "delete all cards", err)
		return
	}
	h.publish(sse.KindCleared, "")
	w.WriteHeader(http.StatusNoContent)
}

// Preview handles POST /api/preview.
//
//	@Summary		Resolve an unsaved draft into a preview
//	@Tags			preview
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SaveCardRequest	true	"Card content"
//	@Success		200		{object}	composer.PreviewDescriptor
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/preview [post]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}
	s := composer.StateFromDraft(h.cat, draft)
	writeJSON(w, http.StatusOK, composer.ResolvePreview(s, h.cat))
}

// CardPreview handles GET /api/cards/{id}/preview.
//
//	@Summary		Resolve a saved card into a preview
//	@Tags			preview
//	@Produce		json
//	@Param			id	path		string	true	"Card id"
//	@Success		200	{object}	CardPreviewResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards/{id}/preview [get]
func (h *Handler) CardPreview(w http.ResponseWriter, r *http.Request) {
	card, ok := h.card(w, r)
	if !ok {
		return
	}
	s := composer.StateFromDraft(h.cat, card.Draft())
	writeJSON(w, http.StatusOK, CardPreviewResponse{
		Card:    card,
		Preview: composer.ResolvePreview(s, h.cat),
		Summary: composer.Summarize(s, h.cat),
		Text:    composer.ExportText(s),
	})
}

// CardImage handles GET /api/cards/{id}/image.png.
//
//	@Summary		Render a saved card as PNG
//	@Tags			preview
//	@Produce		png
//	@Param			id	path	string	true	"Card id"
//	@Success		200	{file}	binary
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards/{id}/image.png [get]
func (h *Handler) CardImage(w http.ResponseWriter, r *http.Request) {
	card, ok := h.card(w, r)
	if !ok {
		return
	}
	if h.renderer == nil {
		writeError(w, http.StatusServiceUnavailable, "renderer unavailable")
		return
	}
	p := composer.ResolvePreview(composer.StateFromDraft(h.cat, card.Draft()), h.cat)

	var buf bytes.Buffer
	if err := h.renderer.EncodePNG(&buf, p); err != nil {
		slog.Error("render card failed", slog.String("id", card.ID), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Content-Disposition", `inline; filename="`+card.ID+`.png"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
