// Package contracts defines the interfaces that let the scheduler in
// cmd/workers compose Source Adapters (C1) and the Ingestor (C2) without
// each depending on the others' concrete types — the same interface-
// segregation idiom the detector/sport-module contracts use in the teacher
// codebase (edge-detector/pkg/contracts, game-stats-service/pkg/contracts).
package contracts

import (
	"context"
	"time"

	"github.com/derdennis123/forecise/pkg/models"
)

// SourceAdapter polls one forecast venue and normalizes its payloads into
// SourceQuote records (spec.md §4.1).
type SourceAdapter interface {
	// Slug is the venue's stable, unique identifier (e.g. "polymarket").
	Slug() string

	// SourceTag is the two-letter prefix used when deriving a unified
	// Market slug for a quote from this venue (e.g. "pm").
	SourceTag() string

	// PollInterval is how often a full paginated pass should run.
	PollInterval() time.Duration

	// StartDelay staggers adapter start so N venues don't all hit the
	// database in the same instant.
	StartDelay() time.Duration

	// FetchPage retrieves one page of the venue's market listing. cursor is
	// empty on the first page; the adapter returns the next cursor (if any)
	// and whether more pages remain. A non-2xx response or transport error
	// is returned as err; the caller aborts the whole pass without
	// advancing any state.
	FetchPage(ctx context.Context, page int, cursor string) (quotes []models.SourceQuote, nextCursor string, hasMore bool, err error)
}

// IngestStore is the persistence port the Ingestor (C2) needs: upserting a
// venue-scoped market plus its odds history, and lazily attaching it to a
// unified Market.
type IngestStore interface {
	// UpsertSourceMarket inserts or updates a SourceMarket keyed by
	// (source slug, external_id) and appends one OddsHistory row at the
	// current wall-clock time, even if the probability is unchanged.
	UpsertSourceMarket(ctx context.Context, sourceSlug, externalID, title string, probability float64, volume *float64, externalURL *string, metadata []byte) (sourceMarketID string, err error)

	// EnsureUnifiedMarket links a SourceMarket to its unified Market,
	// creating the Market row on first sight of its slug. Idempotent.
	EnsureUnifiedMarket(ctx context.Context, sourceMarketID, title, slug string, categorySlug *string) (marketID string, err error)
}
