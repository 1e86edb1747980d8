// Package models holds the data-model types shared across the forecast
// reconciliation core: sources, markets, odds history, consensus snapshots,
// movement events and accuracy records. Field shapes follow the original
// forecise schema (sources, markets, source_markets, odds_history,
// consensus_snapshots, movement_events, accuracy_records,
// prediction_scores); Go idiom (decimal.Decimal, uuid.UUID, json.RawMessage)
// follows the rest of the fortuna stack.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarketStatus enumerates the lifecycle states of a unified Market.
type MarketStatus string

const (
	MarketStatusActive   MarketStatus = "active"
	MarketStatusResolved MarketStatus = "resolved"
	MarketStatusCanceled MarketStatus = "canceled"
)

// SourceMarketStatus enumerates a venue's local view of a market's status.
type SourceMarketStatus string

const (
	SourceMarketStatusActive   SourceMarketStatus = "active"
	SourceMarketStatusResolved SourceMarketStatus = "resolved"
	SourceMarketStatusClosed   SourceMarketStatus = "closed"
)

// Source is a forecast venue, created by configuration and never destroyed
// at runtime.
type Source struct {
	ID         uuid.UUID `json:"id"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	SourceType string    `json:"source_type"`
	APIBaseURL *string   `json:"api_base_url,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Category is an external taxonomy bucket, referenced but never mutated by
// the core.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

// Market is the canonical question identity the system tracks across
// venues.
type Market struct {
	ID               uuid.UUID        `json:"id"`
	Slug             string           `json:"slug"`
	Title            string           `json:"title"`
	CategoryID       *uuid.UUID       `json:"category_id,omitempty"`
	Status           MarketStatus     `json:"status"`
	ResolutionValue  *decimal.Decimal `json:"resolution_value,omitempty"`
	ResolutionDate   *time.Time       `json:"resolution_date,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// SourceMarket is a venue's view of a (possibly unified) Market. The unique
// key at the core level is (SourceID, ExternalID); MarketID is monotonic
// once set (invariant 1, spec.md §3).
type SourceMarket struct {
	ID                 uuid.UUID           `json:"id"`
	MarketID           *uuid.UUID          `json:"market_id,omitempty"`
	SourceID           uuid.UUID           `json:"source_id"`
	ExternalID         string              `json:"external_id"`
	ExternalURL        *string             `json:"external_url,omitempty"`
	Title              string              `json:"title"`
	CurrentProbability *decimal.Decimal    `json:"current_probability,omitempty"`
	Volume             *decimal.Decimal    `json:"volume,omitempty"`
	Liquidity          *decimal.Decimal    `json:"liquidity,omitempty"`
	Status             SourceMarketStatus  `json:"status"`
	Metadata           json.RawMessage     `json:"metadata,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// OddsHistory is a strictly append-only time series point: one row per
// successful ingestion pass, regardless of whether the probability changed.
type OddsHistory struct {
	Time           time.Time       `json:"time"`
	SourceMarketID uuid.UUID       `json:"source_market_id"`
	Probability    decimal.Decimal `json:"probability"`
	Volume         *decimal.Decimal `json:"volume,omitempty"`
	TradeCount     *int            `json:"trade_count,omitempty"`
}

// ConsensusSnapshot is the append-only output of the consensus engine (C3)
// for one Market at one point in time.
type ConsensusSnapshot struct {
	Time                 time.Time       `json:"time"`
	MarketID             uuid.UUID       `json:"market_id"`
	ConsensusProbability decimal.Decimal `json:"consensus_probability"`
	ConfidenceScore      decimal.Decimal `json:"confidence_score"`
	SourceCount          int             `json:"source_count"`
	AgreementScore       decimal.Decimal `json:"agreement_score"`
	Weights              json.RawMessage `json:"weights"`
	OutlierSources       json.RawMessage `json:"outlier_sources"`
	CreatedAt            time.Time       `json:"created_at"`
}

// MovementEvent is an immutable record of a significant probability shift,
// produced by the movement detector (C5).
type MovementEvent struct {
	ID                 uuid.UUID       `json:"id"`
	SourceMarketID     uuid.UUID       `json:"source_market_id"`
	MarketID           uuid.UUID       `json:"market_id"`
	ProbabilityBefore  decimal.Decimal `json:"probability_before"`
	ProbabilityAfter   decimal.Decimal `json:"probability_after"`
	ChangePct          decimal.Decimal `json:"change_pct"`
	DetectedAt         time.Time       `json:"detected_at"`
	CreatedAt          time.Time       `json:"created_at"`
}

// AccuracyRecord is a per-(source, optional category) aggregate, upserted by
// the scorer (C4) as a monoid fold over PredictionScore rows.
type AccuracyRecord struct {
	ID                uuid.UUID       `json:"id"`
	SourceID          uuid.UUID       `json:"source_id"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	TotalResolved     int             `json:"total_resolved"`
	CorrectPredictions int            `json:"correct_predictions"`
	BrierScore        decimal.Decimal `json:"brier_score"`
	AccuracyPct       decimal.Decimal `json:"accuracy_pct"`
	LastCalculatedAt  time.Time       `json:"last_calculated_at"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PredictionScore is a per-resolved-prediction row, inserted once per
// (SourceMarket) and never mutated afterward.
type PredictionScore struct {
	ID                    uuid.UUID       `json:"id"`
	SourceMarketID        uuid.UUID       `json:"source_market_id"`
	SourceID              uuid.UUID       `json:"source_id"`
	MarketID              uuid.UUID       `json:"market_id"`
	CategoryID            *uuid.UUID      `json:"category_id,omitempty"`
	PredictedProbability  decimal.Decimal `json:"predicted_probability"`
	ActualOutcome         decimal.Decimal `json:"actual_outcome"`
	BrierScore            decimal.Decimal `json:"brier_score"`
	ResolvedAt            time.Time       `json:"resolved_at"`
	CreatedAt             time.Time       `json:"created_at"`
}

// SourceQuote is the canonical, venue-agnostic record a Source Adapter (C1)
// hands to the Ingestor (C2) after normalizing a raw venue payload.
type SourceQuote struct {
	ExternalID  string
	Title       string
	Probability float64
	Volume      *float64
	Liquidity   *float64
	ExternalURL *string
	Metadata    json.RawMessage
}
