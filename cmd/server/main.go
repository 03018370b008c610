package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"menupix/internal/config"
	"menupix/internal/keyword"
	"menupix/internal/menu"
	"menupix/internal/metrics"
	"menupix/internal/resolver"
	"menupix/internal/search"
	"menupix/internal/server"
	"menupix/internal/store"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	if cfg.GoogleAPIKey == "" || cfg.GoogleCSEID == "" {
		log.Fatal("API_KEY and CSE_ID environment variables must be set")
	}

	// Initialize cache store
	st, err := store.New(ctx, store.Config{
		Backend:     cfg.CacheBackend,
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize cache store: %v", err)
	}
	defer st.Close()
	log.Printf("Cache store ready (backend: %s)", cfg.CacheBackend)

	metrics.Init(st)

	if cfg.SeedFile != "" {
		if err := seedCache(ctx, st, cfg.SeedFile); err != nil {
			log.Fatalf("Failed to seed cache: %v", err)
		}
	}

	// Initialize search provider and resolver
	provider := search.NewGoogleProvider(search.Config{
		APIKey:      cfg.GoogleAPIKey,
		CSEID:       cfg.GoogleCSEID,
		QuerySuffix: cfg.SearchSuffix,
	})
	res := resolver.New(st, provider)

	// Menu analysis is optional
	var parser *menu.Parser
	if cfg.AIAPIKey != "" {
		parser = menu.NewParser(menu.Config{
			BaseURL: cfg.AIBaseURL,
			APIKey:  cfg.AIAPIKey,
			Model:   cfg.AIModel,
		})
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(res, parser, st)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// seedCache preloads cache entries from the YAML seed file. Keywords are
// normalized before insertion so the file may use natural casing.
func seedCache(ctx context.Context, st store.Store, path string) error {
	seed, err := config.LoadSeedFile(path)
	if err != nil {
		return err
	}
	if seed == nil {
		return nil
	}

	seeded := 0
	for _, entry := range seed.Entries {
		key, err := keyword.Normalize(entry.Keyword)
		if err != nil {
			log.Printf("Skipping seed entry %q: %v", entry.Keyword, err)
			continue
		}
		if err := st.Put(ctx, key, entry.ImageURL); err != nil {
			return err
		}
		seeded++
	}

	log.Printf("Seeded %d cache entries from %s", seeded, path)
	return nil
}
