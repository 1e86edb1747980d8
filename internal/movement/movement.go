// Package movement implements the Movement Detector (C5): it flags
// SourceMarkets whose probability has moved by at least the threshold
// since their previous odds history point. Transliterated from
// original_source/crates/workers/src/movement.rs's detect_movements; the
// 0.05 threshold is authoritative despite that file's own comment
// claiming "15%" above the constant — the constant's value, not the
// stale comment, is what the original binary actually runs.
package movement

import (
	"context"
	"database/sql"
	"log"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/derdennis123/forecise/internal/forerr"
)

// Threshold is the minimum absolute probability change that qualifies as
// a significant movement.
const Threshold = 0.05

// Worker runs the movement detector on a fixed cadence.
type Worker struct {
	db     *sql.DB
	warmup time.Duration
	period time.Duration
}

// NewWorker builds a movement detection Worker.
func NewWorker(db *sql.DB, warmup, period time.Duration) *Worker {
	return &Worker{db: db, warmup: warmup, period: period}
}

// Run blocks, checking for movements once per period, until ctx is
// canceled.
func (w *Worker) Run(ctx context.Context) {
	log.Printf("[movement] warming up for %s", w.warmup)
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
			log.Printf("[movement] stopping worker")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[movement] PANIC recovered: %v", r)
		}
	}()

	count, err := w.detectMovements(ctx)
	if err != nil {
		log.Printf("[movement] detection error: %v", err)
		return
	}
	if count > 0 {
		log.Printf("[movement] detected %d movements", count)
	}
}

type movementCheck struct {
	sourceMarketID string
	marketID       sql.NullString
	current        sql.NullString
	previous       sql.NullString
}

// detectMovements scans every active, unified SourceMarket for a
// probability shift of at least Threshold against its second-most-recent
// odds history point, inserting one MovementEvent per qualifying market.
func (w *Worker) detectMovements(ctx context.Context) (int, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT
			sm.id AS source_market_id,
			sm.market_id,
			sm.current_probability,
			(
				SELECT oh.probability
				FROM odds_history oh
				WHERE oh.source_market_id = sm.id
				ORDER BY oh.time DESC
				OFFSET 1
				LIMIT 1
			) AS previous_probability
		FROM source_markets sm
		WHERE sm.status = 'active'
		AND sm.current_probability IS NOT NULL
		AND sm.market_id IS NOT NULL
	`)
	if err != nil {
		return 0, forerr.DatabaseUnavailable("list active source markets", err)
	}
	defer rows.Close()

	var checks []movementCheck
	for rows.Next() {
		var c movementCheck
		if err := rows.Scan(&c.sourceMarketID, &c.marketID, &c.current, &c.previous); err != nil {
			return 0, forerr.DatabaseUnavailable("scan movement check row", err)
		}
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return 0, forerr.DatabaseUnavailable("iterate movement checks", err)
	}

	count := 0
	for _, c := range checks {
		detected, err := w.evaluate(ctx, c)
		if err != nil {
			log.Printf("[movement] failed to evaluate source market %s: %v", c.sourceMarketID, err)
			continue
		}
		if detected {
			count++
		}
	}
	return count, nil
}

func (w *Worker) evaluate(ctx context.Context, c movementCheck) (bool, error) {
	if !c.marketID.Valid {
		return false, nil
	}

	current := 0.0
	if c.current.Valid {
		if v, err := decimal.NewFromString(c.current.String); err == nil {
			current, _ = v.Float64()
		}
	}

	previous := current
	if c.previous.Valid {
		if v, err := decimal.NewFromString(c.previous.String); err == nil {
			previous, _ = v.Float64()
		}
	}

	change := math.Abs(current - previous)
	if change < Threshold {
		return false, nil
	}

	probBefore := decimal.NewFromFloat(previous).Round(6)
	probAfter := decimal.NewFromFloat(current).Round(6)
	changePct := decimal.NewFromFloat(change).Round(4)

	_, err := w.db.ExecContext(ctx, `
		INSERT INTO movement_events
			(source_market_id, market_id, probability_before, probability_after, change_pct, detected_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, c.sourceMarketID, c.marketID.String, probBefore, probAfter, changePct)
	if err != nil {
		return false, forerr.DatabaseUnavailable("insert movement event", err)
	}

	direction := "DOWN"
	if current > previous {
		direction = "UP"
	}
	log.Printf("[movement] %s %.1f%% -> %.1f%% (%s %.1f%%)", direction, previous*100, current*100, direction, change*100)

	return true, nil
}
