// Command facade runs the read-only health-check surface for the
// forecast reconciliation pipeline. The list/search/detail query API,
// narrative summaries, alert subscriptions, and a wallet identity store
// are explicitly out of scope — this process exists only so an
// orchestrator has something to probe. Router and shutdown shape are
// carried over from api-gateway's cmd/api-gateway/main.go, pared down to
// the one route this scope allows.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/derdennis123/forecise/internal/cache"
	"github.com/derdennis123/forecise/internal/config"
	"github.com/derdennis123/forecise/internal/dbpool"
	"github.com/derdennis123/forecise/internal/facade"
)

func main() {
	fmt.Println("=== Forecise Facade ===")

	cfg, err := config.LoadFacadeConfig()
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := dbpool.Open(cfg.DatabaseURL, dbpool.FacadeOptions())
	if err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	fmt.Println("✓ Connected to database")

	var redisClient *cache.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.New(cfg.RedisURL)
		if err != nil {
			fmt.Printf("⚠️  Failed to parse Redis URL, continuing without cache: %v\n", err)
			redisClient = nil
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			pingErr := redisClient.Ping(ctx)
			cancel()
			if pingErr != nil {
				fmt.Printf("⚠️  Failed to connect to Redis, continuing without cache: %v\n", pingErr)
				redisClient = nil
			} else {
				fmt.Println("✓ Connected to Redis")
				defer redisClient.Close()
			}
		}
	}

	handler := facade.NewHandler(db, redisClient)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", handler.HealthCheck)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Facade listening on %s\n", addr)
		fmt.Println("  Endpoints:")
		fmt.Println("    GET  /health")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}
	}

	fmt.Println("✓ Shutdown complete")
}
