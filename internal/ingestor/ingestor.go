// Package ingestor implements the Ingestor / Identity Mapper (C2):
// upserting a venue's view of a market and lazily attaching it to a
// unified Market. SQL shapes are transliterated from
// original_source/crates/workers/src/ingestion.rs (upsert_source_market,
// ensure_unified_market), adapted from sqlx's bind-by-position style to
// database/sql + lib/pq's $N placeholders, the same driver api-gateway
// uses (internal/db/alexandria.go).
package ingestor

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/derdennis123/forecise/internal/forerr"
	"github.com/derdennis123/forecise/pkg/contracts"
)

// Store persists SourceMarket/Market identity against Postgres. It
// implements contracts.IngestStore.
type Store struct {
	db *sql.DB
}

var _ contracts.IngestStore = (*Store)(nil)

// New wraps a database handle as a Store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpsertSourceMarket inserts or updates the (source, external_id)-keyed
// SourceMarket row and appends one OddsHistory point, unconditionally.
func (s *Store) UpsertSourceMarket(ctx context.Context, sourceSlug, externalID, title string, probability float64, volume *float64, externalURL *string, metadata []byte) (string, error) {
	var sourceID string
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM sources WHERE slug = $1`, sourceSlug).Scan(&sourceID); err != nil {
		if err == sql.ErrNoRows {
			return "", forerr.NotFound(fmt.Sprintf("source %q is not configured", sourceSlug))
		}
		return "", forerr.DatabaseUnavailable("look up source", err)
	}

	prob := fmt.Sprintf("%.6f", probability)
	var vol interface{}
	if volume != nil {
		vol = fmt.Sprintf("%.2f", *volume)
	}

	if len(metadata) == 0 {
		metadata = []byte("{}")
	}

	var sourceMarketID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO source_markets (source_id, external_id, title, current_probability, volume, external_url, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (source_id, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			current_probability = EXCLUDED.current_probability,
			volume = EXCLUDED.volume,
			external_url = EXCLUDED.external_url,
			metadata = EXCLUDED.metadata,
			updated_at = NOW()
		RETURNING id
	`, sourceID, externalID, title, prob, vol, externalURL, metadata).Scan(&sourceMarketID)
	if err != nil {
		return "", forerr.DatabaseUnavailable("upsert source market", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO odds_history (time, source_market_id, probability, volume)
		VALUES (NOW(), $1, $2, $3)
	`, sourceMarketID, prob, vol); err != nil {
		return "", forerr.DatabaseUnavailable("record odds history", err)
	}

	return sourceMarketID, nil
}

// EnsureUnifiedMarket links sourceMarketID to a unified Market by slug,
// creating the Market row the first time the slug is seen. Idempotent:
// a SourceMarket that already has a market_id returns it unchanged.
func (s *Store) EnsureUnifiedMarket(ctx context.Context, sourceMarketID, title, slug string, categorySlug *string) (string, error) {
	var existing sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT market_id FROM source_markets WHERE id = $1`, sourceMarketID).Scan(&existing); err != nil {
		return "", forerr.DatabaseUnavailable("look up existing market link", err)
	}
	if existing.Valid {
		return existing.String, nil
	}

	var categoryID sql.NullString
	if categorySlug != nil {
		if err := s.db.QueryRowContext(ctx, `SELECT id FROM categories WHERE slug = $1`, *categorySlug).Scan(&categoryID); err != nil && err != sql.ErrNoRows {
			return "", forerr.DatabaseUnavailable("look up category", err)
		}
	}

	var categoryArg interface{}
	if categoryID.Valid {
		categoryArg = categoryID.String
	}

	var marketID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO markets (slug, title, category_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET updated_at = NOW()
		RETURNING id
	`, slug, title, categoryArg).Scan(&marketID)
	if err != nil {
		return "", forerr.DatabaseUnavailable("upsert unified market", err)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE source_markets SET market_id = $1 WHERE id = $2`, marketID, sourceMarketID); err != nil {
		return "", forerr.DatabaseUnavailable("link source market to unified market", err)
	}

	return marketID, nil
}
