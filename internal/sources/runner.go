package sources

import (
	"context"
	"log"
	"time"

	"github.com/derdennis123/forecise/internal/ingestor"
	"github.com/derdennis123/forecise/pkg/contracts"
)

// Runner drives one SourceAdapter's poll/ingest cycle: paginate through
// FetchPage, hand each normalized quote to the Ingestor, and log-and-skip
// anything that fails without aborting the rest of the page. A non-2xx
// page or transport error aborts the whole pass, mirroring the original
// adapters' fetch_and_store, which breaks its page loop on API error
// instead of retrying.
type Runner struct {
	adapter   contracts.SourceAdapter
	store     contracts.IngestStore
	pageCap   int
	pageDelay time.Duration
}

// NewRunner builds a Runner for one adapter.
func NewRunner(adapter contracts.SourceAdapter, store contracts.IngestStore, pageCap int, pageDelay time.Duration) *Runner {
	return &Runner{adapter: adapter, store: store, pageCap: pageCap, pageDelay: pageDelay}
}

// Run blocks, polling on the adapter's configured interval until ctx is
// canceled.
func (r *Runner) Run(ctx context.Context) {
	slug := r.adapter.Slug()
	log.Printf("[%s] starting adapter, start delay %s", slug, r.adapter.StartDelay())

	select {
	case <-ctx.Done():
		return
	case <-time.After(r.adapter.StartDelay()):
	}

	r.pollOnce(ctx)

	ticker := time.NewTicker(r.adapter.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[%s] stopping adapter", slug)
			return
		case <-ticker.C:
			r.pollOnce(ctx)
		}
	}
}

func (r *Runner) pollOnce(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[%s] recovered from panic during poll: %v", r.adapter.Slug(), rec)
		}
	}()

	slug := r.adapter.Slug()
	cursor := ""
	ingested := 0

	for page := 1; page <= r.pageCap; page++ {
		quotes, nextCursor, hasMore, err := r.adapter.FetchPage(ctx, page, cursor)
		if err != nil {
			log.Printf("[%s] aborting poll pass: %v", slug, err)
			break
		}

		for _, q := range quotes {
			if q.ExternalID == "" || q.Title == "" {
				log.Printf("[%s] skipping record with missing id/title", slug)
				continue
			}

			sourceMarketID, err := r.store.UpsertSourceMarket(ctx, slug, q.ExternalID, q.Title, q.Probability, q.Volume, q.ExternalURL, q.Metadata)
			if err != nil {
				log.Printf("[%s] failed to upsert source market %s: %v", slug, q.ExternalID, err)
				continue
			}

			marketSlug := ingestor.Slug(r.adapter.SourceTag(), q.Title)
			if _, err := r.store.EnsureUnifiedMarket(ctx, sourceMarketID, q.Title, marketSlug, nil); err != nil {
				log.Printf("[%s] failed to link unified market for %s: %v", slug, q.ExternalID, err)
				continue
			}

			ingested++
		}

		if !hasMore {
			break
		}
		cursor = nextCursor

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.pageDelay):
		}
	}

	log.Printf("[%s] ingested %d markets", slug, ingested)
}
