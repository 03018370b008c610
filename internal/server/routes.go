package server

import (
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"menupix/internal/handlers"
	"menupix/internal/handlers/api"
	"menupix/internal/menu"
	"menupix/internal/resolver"
	"menupix/internal/store"
)

// RegisterRoutes registers all application routes. The menu parser is
// optional; without one the menu analysis endpoint is not registered.
func (s *Server) RegisterRoutes(res *resolver.Resolver, parser *menu.Parser, st store.Store) {
	imageHandler := api.NewImageHandler(res, s.Cfg)
	probeHandler := handlers.NewProbeHandler(st)

	// Ops endpoints
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Resolution API
	s.App.Get("/api/image", imageHandler.GetImage)
	s.App.Get("/api/images", imageHandler.GetImages)

	// Menu analysis - only available when an AI backend is configured
	if parser != nil {
		menuHandler := api.NewMenuHandler(parser, res, s.Cfg)
		s.App.Post("/api/menu", menuHandler.Analyze)
	} else {
		log.Println("Menu analysis is disabled. Set AI_API_KEY to enable.")
	}
}
