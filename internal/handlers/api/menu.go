package api

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"menupix/internal/config"
	"menupix/internal/menu"
	"menupix/internal/models"
	"menupix/internal/resolver"
)

// MenuHandler turns OCR'd menu text into dishes with resolved image URLs.
type MenuHandler struct {
	parser   *menu.Parser
	resolver *resolver.Resolver
	cfg      *config.Config
}

// NewMenuHandler creates a new menu analysis handler.
func NewMenuHandler(parser *menu.Parser, res *resolver.Resolver, cfg *config.Config) *MenuHandler {
	return &MenuHandler{parser: parser, resolver: res, cfg: cfg}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// Analyze extracts dish entries from the submitted text and resolves an
// image URL for each keyword. Dishes whose image resolution fails stay in
// the response with a null image_url.
func (h *MenuHandler) Analyze(c fiber.Ctx) error {
	var req analyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "text is required")
	}

	items, err := h.parser.Parse(c.Context(), req.Text)
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "menu analysis failed")
	}

	raws := make([]string, len(items))
	for i, item := range items {
		raws[i] = item.Keyword
	}
	results := h.resolver.ResolveMany(c.Context(), raws, h.cfg.BulkConcurrency)

	out := make([]models.MenuItem, len(items))
	for i, item := range items {
		entry := models.MenuItem{
			Name:        item.Name,
			Keyword:     item.Keyword,
			Description: item.Description,
			Price:       item.Price,
		}
		if results[i].Err == nil {
			entry.ImageURL = &results[i].Resolution.URL
		}
		out[i] = entry
	}

	return jsonSuccess(c, models.MenuAnalysis{
		ID:    uuid.New(),
		Items: out,
	})
}
