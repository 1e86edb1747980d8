package consensus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/derdennis123/forecise/internal/forerr"
)

// Worker runs the Consensus Engine (C3) against the database on a fixed
// cadence, grounded on consensus_worker.rs's run_consensus_worker/
// compute_all_consensus/compute_market_consensus, with the ticker-plus-
// panic-recovery shape of settlement-service's Settler.Start.
type Worker struct {
	db     *sql.DB
	warmup time.Duration
	period time.Duration
}

// NewWorker builds a consensus Worker.
func NewWorker(db *sql.DB, warmup, period time.Duration) *Worker {
	return &Worker{db: db, warmup: warmup, period: period}
}

// Run blocks, computing consensus for every eligible market once per
// period, until ctx is canceled. It waits warmup before the first pass so
// the adapters have had a chance to ingest something.
func (w *Worker) Run(ctx context.Context) {
	log.Printf("[consensus] warming up for %s", w.warmup)
	select {
	case <-ctx.Done():
		return
	case <-time.After(w.warmup):
	}

	w.tick(ctx)

	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[consensus] stopping worker")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[consensus] PANIC recovered: %v", r)
		}
	}()

	count, err := w.computeAll(ctx)
	if err != nil {
		log.Printf("[consensus] computation error: %v", err)
		return
	}
	if count > 0 {
		log.Printf("[consensus] computed consensus for %d markets", count)
	}
}

// computeAll finds every active market with at least one quoted source
// and recomputes its consensus snapshot.
func (w *Worker) computeAll(ctx context.Context) (int, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT DISTINCT m.id
		FROM markets m
		JOIN source_markets sm ON sm.market_id = m.id
		WHERE m.status = 'active'
		AND sm.current_probability IS NOT NULL
		GROUP BY m.id
		HAVING COUNT(sm.id) >= 1
	`)
	if err != nil {
		return 0, forerr.DatabaseUnavailable("list active markets", err)
	}
	defer rows.Close()

	var marketIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, forerr.DatabaseUnavailable("scan market id", err)
		}
		marketIDs = append(marketIDs, id)
	}
	if err := rows.Err(); err != nil {
		return 0, forerr.DatabaseUnavailable("iterate markets", err)
	}

	count := 0
	for _, marketID := range marketIDs {
		if err := w.computeMarket(ctx, marketID); err != nil {
			log.Printf("[consensus] failed consensus for market %s: %v", marketID, err)
			continue
		}
		count++
	}
	return count, nil
}

type sourceRow struct {
	sourceSlug    string
	sourceName    string
	probability   decimal.Decimal
	volume        sql.NullString
	accuracyPct   sql.NullString
	totalResolved sql.NullInt64
}

// computeMarket fetches every source's current quote for marketID, runs
// the consensus algorithm, and persists one ConsensusSnapshot row.
func (w *Worker) computeMarket(ctx context.Context, marketID string) error {
	rows, err := w.db.QueryContext(ctx, `
		SELECT
			s.slug AS source_slug,
			s.name AS source_name,
			sm.current_probability AS probability,
			sm.volume,
			ar.accuracy_pct,
			ar.total_resolved
		FROM source_markets sm
		JOIN sources s ON sm.source_id = s.id
		LEFT JOIN accuracy_records ar ON ar.source_id = s.id AND ar.category_id IS NULL
		WHERE sm.market_id = $1
		AND sm.current_probability IS NOT NULL
	`, marketID)
	if err != nil {
		return forerr.DatabaseUnavailable("query sources for market", err)
	}

	var sources []sourceRow
	for rows.Next() {
		var r sourceRow
		if err := rows.Scan(&r.sourceSlug, &r.sourceName, &r.probability, &r.volume, &r.accuracyPct, &r.totalResolved); err != nil {
			rows.Close()
			return forerr.DatabaseUnavailable("scan source row", err)
		}
		sources = append(sources, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return forerr.DatabaseUnavailable("iterate source rows", err)
	}
	rows.Close()

	if len(sources) == 0 {
		return nil
	}

	inputs := make([]SourceInput, len(sources))
	for i, r := range sources {
		prob, _ := r.probability.Float64()
		input := SourceInput{
			SourceID:      r.sourceSlug,
			SourceName:    r.sourceName,
			Probability:   prob,
			ResolvedCount: int(r.totalResolved.Int64),
		}
		if r.accuracyPct.Valid {
			if v, err := decimal.NewFromString(r.accuracyPct.String); err == nil {
				f, _ := v.Float64()
				input.AccuracyPct = &f
			}
		}
		if r.volume.Valid {
			if v, err := decimal.NewFromString(r.volume.String); err == nil {
				f, _ := v.Float64()
				input.Volume = &f
			}
		}
		inputs[i] = input
	}

	result, err := Calculate(inputs)
	if err != nil {
		return fmt.Errorf("calculate consensus: %w", err)
	}

	weightsJSON, err := json.Marshal(result.Weights)
	if err != nil {
		return forerr.Internal("marshal weights", err)
	}
	outliersJSON, err := json.Marshal(result.Outliers)
	if err != nil {
		return forerr.Internal("marshal outliers", err)
	}

	prob := decimal.NewFromFloat(result.Probability).Round(6)
	confidence := decimal.NewFromFloat(result.Confidence).Round(4)
	agreement := decimal.NewFromFloat(result.Agreement).Round(4)

	_, err = w.db.ExecContext(ctx, `
		INSERT INTO consensus_snapshots
			(time, market_id, consensus_probability, confidence_score, source_count, agreement_score, weights, outlier_sources)
		VALUES (NOW(), $1, $2, $3, $4, $5, $6, $7)
	`, marketID, prob, confidence, result.SourceCount, agreement, weightsJSON, outliersJSON)
	if err != nil {
		return forerr.DatabaseUnavailable("insert consensus snapshot", err)
	}

	return nil
}
