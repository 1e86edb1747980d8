package scorer

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/derdennis123/forecise/internal/forerr"
)

// Worker scans resolved markets for SourceMarkets that have not yet been
// graded, scores them against the market's resolution outcome, and folds
// each score into its source's running AccuracyRecord. It follows the
// project's ticker-plus-panic-recovery idiom (settlement-service/internal/
// settler's settlePendingBets: poll for unprocessed rows, process each in
// its own try/continue, never block the next tick on one bad row).
type Worker struct {
	db     *sql.DB
	warmup time.Duration
	period time.Duration
}

// NewWorker builds an accuracy-scoring Worker.
func NewWorker(db *sql.DB, warmup, period time.Duration) *Worker {
	return &Worker{db: db, warmup: warmup, period: period}
}

// Run blocks, grading newly resolved predictions once per period, until
// ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	log.Printf("[scorer] warming up for %s", w.warmup)
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
			log.Printf("[scorer] stopping worker")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[scorer] PANIC recovered: %v", r)
		}
	}()

	count, err := w.scoreUngraded(ctx)
	if err != nil {
		log.Printf("[scorer] error: %v", err)
		return
	}
	if count > 0 {
		log.Printf("[scorer] graded %d predictions", count)
	}
}

type ungradedRow struct {
	sourceMarketID string
	sourceID       string
	marketID       string
	categoryID     sql.NullString
	resolutionVal  decimal.Decimal
	resolvedAt     time.Time
}

// scoreUngraded finds every SourceMarket belonging to a resolved Market
// that has no PredictionScore yet, grades each, and folds the result into
// its source's AccuracyRecord.
func (w *Worker) scoreUngraded(ctx context.Context) (int, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT sm.id, sm.source_id, sm.market_id, m.category_id, m.resolution_value, m.resolution_date
		FROM source_markets sm
		JOIN markets m ON sm.market_id = m.id
		WHERE m.status = 'resolved'
		AND m.resolution_value IS NOT NULL
		AND m.resolution_date IS NOT NULL
		AND NOT EXISTS (SELECT 1 FROM prediction_scores ps WHERE ps.source_market_id = sm.id)
	`)
	if err != nil {
		return 0, forerr.DatabaseUnavailable("list ungraded source markets", err)
	}

	var candidates []ungradedRow
	for rows.Next() {
		var r ungradedRow
		if err := rows.Scan(&r.sourceMarketID, &r.sourceID, &r.marketID, &r.categoryID, &r.resolutionVal, &r.resolvedAt); err != nil {
			rows.Close()
			return 0, forerr.DatabaseUnavailable("scan ungraded row", err)
		}
		candidates = append(candidates, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, forerr.DatabaseUnavailable("iterate ungraded rows", err)
	}
	rows.Close()

	count := 0
	for _, c := range candidates {
		if err := w.gradeOne(ctx, c); err != nil {
			log.Printf("[scorer] failed to grade source market %s: %v", c.sourceMarketID, err)
			continue
		}
		count++
	}
	return count, nil
}

// gradeOne scores a single SourceMarket's last quote before resolution and
// folds it into its source's (and source+category's) AccuracyRecord,
// inside one transaction so a mid-fold failure never leaves a
// PredictionScore without its corresponding aggregate update.
func (w *Worker) gradeOne(ctx context.Context, c ungradedRow) error {
	var predicted decimal.Decimal
	err := w.db.QueryRowContext(ctx, `
		SELECT probability FROM odds_history
		WHERE source_market_id = $1 AND time < $2
		ORDER BY time DESC LIMIT 1
	`, c.sourceMarketID, c.resolvedAt).Scan(&predicted)
	if err == sql.ErrNoRows {
		return forerr.NotFound("no odds history before resolution, nothing to grade")
	}
	if err != nil {
		return forerr.DatabaseUnavailable("fetch last quote before resolution", err)
	}

	brier := SingleDecimal(predicted, c.resolutionVal)

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return forerr.DatabaseUnavailable("begin grading transaction", err)
	}
	defer tx.Rollback()

	scoreID := uuid.NewString()
	var categoryArg interface{}
	if c.categoryID.Valid {
		categoryArg = c.categoryID.String
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO prediction_scores
			(id, source_market_id, source_id, market_id, category_id, predicted_probability, actual_outcome, brier_score, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, scoreID, c.sourceMarketID, c.sourceID, c.marketID, categoryArg, predicted, c.resolutionVal, brier, c.resolvedAt); err != nil {
		return forerr.DatabaseUnavailable("insert prediction score", err)
	}

	half := decimal.NewFromFloat(0.5)
	actualYes := c.resolutionVal.Cmp(half) >= 0
	var correct bool
	if actualYes {
		correct = predicted.Cmp(half) >= 0
	} else {
		correct = predicted.Cmp(half) <= 0
	}

	if err := foldAccuracy(ctx, tx, c.sourceID, nil, brier, correct); err != nil {
		return err
	}
	if c.categoryID.Valid {
		catID := c.categoryID.String
		if err := foldAccuracy(ctx, tx, c.sourceID, &catID, brier, correct); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return forerr.DatabaseUnavailable("commit grading transaction", err)
	}
	return nil
}

// foldAccuracy upserts the running AccuracyRecord for (sourceID,
// categoryID) with one more observation, using the incremental-mean
// formula so the whole resolved-prediction history never needs to be
// re-read to fold in a single new score.
func foldAccuracy(ctx context.Context, tx *sql.Tx, sourceID string, categoryID *string, brier decimal.Decimal, correct bool) error {
	var categoryArg interface{}
	if categoryID != nil {
		categoryArg = *categoryID
	}

	var existingTotal int
	var existingCorrect int
	var existingBrier decimal.Decimal
	query := `SELECT total_resolved, correct_predictions, brier_score FROM accuracy_records WHERE source_id = $1 AND category_id IS NOT DISTINCT FROM $2 FOR UPDATE`
	err := tx.QueryRowContext(ctx, query, sourceID, categoryArg).Scan(&existingTotal, &existingCorrect, &existingBrier)

	newTotal := 1
	newCorrect := 0
	if correct {
		newCorrect = 1
	}
	newBrier := brier

	if err == nil {
		newTotal = existingTotal + 1
		newCorrect = existingCorrect
		if correct {
			newCorrect++
		}
		delta := brier.Sub(existingBrier)
		newBrier = existingBrier.Add(delta.Div(decimal.NewFromInt(int64(newTotal))))
	} else if err != sql.ErrNoRows {
		return forerr.DatabaseUnavailable("lock accuracy record", err)
	}

	accuracyPct := decimal.NewFromFloat(AccuracyPct(mustFloat(newBrier))).Round(4)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO accuracy_records (id, source_id, category_id, total_resolved, correct_predictions, brier_score, accuracy_pct, last_calculated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW(), NOW())
		ON CONFLICT (source_id, category_id) DO UPDATE SET
			total_resolved = EXCLUDED.total_resolved,
			correct_predictions = EXCLUDED.correct_predictions,
			brier_score = EXCLUDED.brier_score,
			accuracy_pct = EXCLUDED.accuracy_pct,
			last_calculated_at = NOW(),
			updated_at = NOW()
	`, uuid.NewString(), sourceID, categoryArg, newTotal, newCorrect, newBrier.Round(6), accuracyPct); err != nil {
		return forerr.DatabaseUnavailable("upsert accuracy record", err)
	}

	return nil
}

func mustFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
