// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the card gallery to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/quotecard/internal/cardstore"
	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/composer"
	"github.com/starford/quotecard/internal/models"
)

const catalogURI = "quotecard://catalog"

// Server wraps the MCP server with card tools.
type Server struct {
	mcp   *server.MCPServer
	store *cardstore.Store
	cat   *catalog.Catalog
	now   func() time.Time
}

// New creates a new MCP server with all card tools registered.
func New(store *cardstore.Store, cat *catalog.Catalog) *Server {
	s := &Server{store: store, cat: cat, now: time.Now}

	s.mcp = server.NewMCPServer(
		"Quotecard",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_cards",
		mcp.WithDescription("List saved quote cards, newest first, with a relative age label."),
	), s.listCards)

	s.mcp.AddTool(mcp.NewTool("get_card",
		mcp.WithDescription("Read one saved quote card by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Card id (e.g. card-01J...)")),
	), s.getCard)

	s.mcp.AddTool(mcp.NewTool("save_card",
		mcp.WithDescription("Save a new quote card to the gallery. Option ids come from "+
			"list_catalog; omitted ids use the first catalog entry. Quotes longer than "+
			"140 characters are truncated."),
		mcp.WithString("quote_text", mcp.Required(), mcp.Description("The quote")),
		mcp.WithString("quote_author", mcp.Description("Attribution line")),
		mcp.WithBoolean("show_author", mcp.Description("Show the author (default: true when an author is given)")),
		mcp.WithString("background_id", mcp.Description("Background id")),
		mcp.WithString("template_id", mcp.Description("Template id")),
		mcp.WithString("ratio_id", mcp.Description("Aspect ratio id")),
		mcp.WithString("accent_color", mcp.Description("Accent color as #RRGGBB")),
		mcp.WithBoolean("show_accent", mcp.Description("Draw the template accent (default: true)")),
	), s.saveCard)

	s.mcp.AddTool(mcp.NewTool("delete_card",
		mcp.WithDescription("Delete a saved quote card. Unknown ids are not an error."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Card id")),
	), s.deleteCard)

	s.mcp.AddTool(mcp.NewTool("list_catalog",
		mcp.WithDescription("List the backgrounds, templates, ratios, and accent colors a card can use."),
	), s.listCatalog)

	s.mcp.AddTool(mcp.NewTool("preview_card",
		mcp.WithDescription("Resolve a saved card into its renderable preview, summary, and clipboard text."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Card id")),
	), s.previewCard)

	s.mcp.AddResource(
		mcp.NewResource(catalogURI, "Card Option Catalog",
			mcp.WithResourceDescription("Backgrounds, templates, ratios, accents, and wizard steps."),
			mcp.WithMIMEType("application/json"),
		),
		s.readCatalogResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

type cardListing struct {
	models.SavedCard
	Age string `json:"age"`
}

func (s *Server) listCards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cards := s.store.List(ctx)
	now := s.now()
	out := make([]cardListing, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardListing{SavedCard: c, Age: models.RelativeAge(now, c.Created())})
	}
	return jsonResult(out), nil
}

func (s *Server) getCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	card, ok := s.store.Get(ctx, id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return jsonResult(card), nil
}

func (s *Server) saveCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("quote_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if text == "" {
		return mcp.NewToolResultError("quote_text must not be empty"), nil
	}

	st := composer.InitialState(s.cat)
	st.QuoteText = composer.ClampQuote(text)
	st.QuoteAuthor = req.GetString("quote_author", "")
	st.ShowAuthor = req.GetBool("show_author", st.QuoteAuthor != "")
	st.BackgroundID = req.GetString("background_id", st.BackgroundID)
	st.TemplateID = req.GetString("template_id", st.TemplateID)
	st.RatioID = req.GetString("ratio_id", st.RatioID)
	st.AccentColor = req.GetString("accent_color", st.AccentColor)
	st.ShowAccent = req.GetBool("show_accent", true)

	card, err := s.store.Save(ctx, st.Draft())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(card), nil
}

func (s *Server) deleteCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) listCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.cat), nil
}

type cardPreview struct {
	Preview composer.PreviewDescriptor `json:"preview"`
	Summary composer.Summary           `json:"summary"`
	Text    string                     `json:"text"`
}

func (s *Server) previewCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	card, ok := s.store.Get(ctx, id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	st := composer.StateFromDraft(s.cat, card.Draft())
	return jsonResult(cardPreview{
		Preview: composer.ResolvePreview(st, s.cat),
		Summary: composer.Summarize(st, s.cat),
		Text:    composer.ExportText(st),
	}), nil
}

func (s *Server) readCatalogResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.MarshalIndent(s.cat, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      catalogURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
