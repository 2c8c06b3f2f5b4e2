package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/quotecard/internal/cardstore"
	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/render"
)

// EventPublisher receives card change notifications (see sse.Broker).
type EventPublisher interface {
	PublishCardEvent(kind, id string)
}

// Deps are the collaborators the API serves.
type Deps struct {
	Store    *cardstore.Store
	Catalog  *catalog.Catalog
	Renderer *render.Renderer
	// Events, if non-nil, is told about every successful write.
	Events EventPublisher
	// SSE, if non-nil, is mounted at GET /events inside the auth group.
	SSE http.Handler
}

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(d Deps, authEnabled bool, token string) chi.Router {
	h := NewHandler(d)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/catalog", h.GetCatalog)

	// Gallery.
	r.Get("/cards", h.ListCards)
	r.Post("/cards", h.SaveCard)
	r.Delete("/cards", h.DeleteAllCards)
	r.Get("/cards/{id}", h.GetCard)
	r.Delete("/cards/{id}", h.DeleteCard)
	r.Get("/cards/{id}/preview", h.CardPreview)
	r.Get("/cards/{id}/image.png", h.CardImage)

	// Unsaved drafts.
	r.Post("/preview", h.Preview)

	if d.SSE != nil {
		r.Get("/events", d.SSE.ServeHTTP)
	}

	return r
}
