package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"menupix/internal/config"
	"menupix/internal/keyword"
	"menupix/internal/models"
	"menupix/internal/resolver"
	"menupix/internal/search"
)

// ImageHandler serves single and bulk keyword-to-image resolution.
type ImageHandler struct {
	resolver *resolver.Resolver
	cfg      *config.Config
}

// NewImageHandler creates a new image API handler.
func NewImageHandler(res *resolver.Resolver, cfg *config.Config) *ImageHandler {
	return &ImageHandler{resolver: res, cfg: cfg}
}

// GetImage resolves one keyword to an image URL.
func (h *ImageHandler) GetImage(c fiber.Ctx) error {
	raw := c.Query("keyword")
	if raw == "" {
		return jsonError(c, fiber.StatusBadRequest, "keyword query parameter is required")
	}

	res, err := h.resolver.Resolve(c.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, keyword.ErrInvalid):
			return jsonError(c, fiber.StatusUnprocessableEntity,
				fmt.Sprintf("keyword must contain %d-%d letters after normalization",
					keyword.MinLength, keyword.MaxLength))
		case errors.Is(err, search.ErrNoResult):
			return jsonError(c, fiber.StatusNotFound, "no image found for keyword")
		default:
			return jsonError(c, fiber.StatusBadGateway, "image search failed")
		}
	}

	return jsonSuccess(c, models.ImageResult{
		Keyword:  res.Keyword,
		ImageURL: &res.URL,
	})
}

// GetImages resolves a list of keywords (repeated keyword parameter) and
// returns one entry per input, in input order. Failing keywords keep their
// slot with a null image_url and an error code.
func (h *ImageHandler) GetImages(c fiber.Ctx) error {
	values := c.Request().URI().QueryArgs().PeekMulti("keyword")
	if len(values) == 0 {
		return jsonError(c, fiber.StatusUnprocessableEntity, "at least one keyword must be provided")
	}
	if len(values) > h.cfg.MaxBulkKeywords {
		return jsonError(c, fiber.StatusUnprocessableEntity,
			fmt.Sprintf("too many keywords provided, maximum %d allowed", h.cfg.MaxBulkKeywords))
	}

	raws := make([]string, len(values))
	for i, v := range values {
		raws[i] = string(v)
	}

	results := h.resolver.ResolveMany(c.Context(), raws, h.cfg.BulkConcurrency)

	out := make([]models.ImageResult, len(results))
	for i, res := range results {
		entry := models.ImageResult{Keyword: res.Keyword}
		if res.Err != nil {
			entry.Error = resolver.FailureCode(res.Err)
		} else {
			entry.ImageURL = &res.Resolution.URL
		}
		out[i] = entry
	}

	return jsonSuccess(c, out)
}
