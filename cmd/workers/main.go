// Command workers runs the five core forecast-reconciliation tasks: the
// three venue Source Adapters (C1/C2), the Consensus Engine worker (C3),
// the Accuracy Scorer (C4), and the Movement Detector (C5). Process
// supervision follows original_source/crates/workers/src/main.rs's
// tokio::select! across every task: the first task to return at all —
// success or error — ends the process, translated to Go as one goroutine
// per task feeding a shared result channel, selected against alongside
// the OS signal channel the way api-gateway's main.go shuts down.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/derdennis123/forecise/internal/config"
	"github.com/derdennis123/forecise/internal/consensus"
	"github.com/derdennis123/forecise/internal/dbpool"
	"github.com/derdennis123/forecise/internal/ingestor"
	"github.com/derdennis123/forecise/internal/movement"
	"github.com/derdennis123/forecise/internal/scorer"
	"github.com/derdennis123/forecise/internal/sources"
	"github.com/derdennis123/forecise/internal/sources/manifold"
	"github.com/derdennis123/forecise/internal/sources/metaculus"
	"github.com/derdennis123/forecise/internal/sources/polymarket"
)

func main() {
	fmt.Println("=== Forecise Workers ===")

	cfg := config.LoadWorkersConfig()

	db, err := dbpool.Open(cfg.DatabaseURL, dbpool.WorkersOptions())
	if err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	fmt.Println("✓ Connected to database")

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	store := ingestor.New(db)

	registry := sources.NewRegistry()

	if err := registry.Register(polymarket.New(httpClient)); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if err := registry.Register(metaculus.New(httpClient)); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if err := registry.Register(manifold.New(httpClient)); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Registered source adapters: polymarket, metaculus, manifold")

	consensusWorker := consensus.NewWorker(db, cfg.ConsensusWarmup, cfg.ConsensusPeriod)
	scorerWorker := scorer.NewWorker(db, cfg.ScorerWarmup, cfg.ScorerPeriod)
	movementWorker := movement.NewWorker(db, cfg.MovementWarmup, cfg.MovementPeriod)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan string, len(registry.All())+3)

	for _, adapter := range registry.All() {
		runner := sources.NewRunner(adapter, store, cfg.AdapterPageCap, cfg.AdapterPageDelay)
		go func(slug string) {
			runner.Run(ctx)
			done <- fmt.Sprintf("source adapter %q", slug)
		}(adapter.Slug())
	}

	go func() {
		consensusWorker.Run(ctx)
		done <- "consensus worker"
	}()
	go func() {
		scorerWorker.Run(ctx)
		done <- "scorer worker"
	}()
	go func() {
		movementWorker.Run(ctx)
		done <- "movement detector"
	}()

	fmt.Println("✓ Starting data ingestion and reconciliation tasks...")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case task := <-done:
		fmt.Printf("❌ Task exited first: %s\n", task)
	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)
	}

	cancel()

	select {
	case task := <-done:
		fmt.Printf("✓ %s stopped\n", task)
	case <-time.After(10 * time.Second):
		fmt.Println("⚠️  Timed out waiting for tasks to stop")
	}

	fmt.Println("✓ Shutdown complete")
}
