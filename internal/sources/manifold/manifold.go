// Package manifold implements the Manifold Markets Source Adapter (C1),
// transliterated from
// original_source/crates/workers/src/sources/manifold.rs: a single
// liquidity-sorted search page, binary markets only, resolved markets
// skipped.
package manifold

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/derdennis123/forecise/internal/forerr"
	"github.com/derdennis123/forecise/internal/httpfetch"
	"github.com/derdennis123/forecise/pkg/contracts"
	"github.com/derdennis123/forecise/pkg/models"
)

const manifoldAPI = "https://api.manifold.markets/v0"

type market struct {
	ID             string   `json:"id"`
	Question       *string  `json:"question"`
	URL            *string  `json:"url"`
	Probability    *float64 `json:"probability"`
	Volume         *float64 `json:"volume"`
	TotalLiquidity *float64 `json:"totalLiquidity"`
	IsResolved     *bool    `json:"isResolved"`
	OutcomeType    *string  `json:"outcomeType"`
	Slug           *string  `json:"slug"`
}

// Adapter polls the Manifold Markets search-markets API.
type Adapter struct {
	client *http.Client
}

var _ contracts.SourceAdapter = (*Adapter)(nil)

// New builds a Manifold adapter using client for outbound requests.
func New(client *http.Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) Slug() string                { return "manifold" }
func (a *Adapter) SourceTag() string           { return "mf" }
func (a *Adapter) PollInterval() time.Duration { return 10 * time.Minute }
func (a *Adapter) StartDelay() time.Duration   { return 20 * time.Second }

// FetchPage retrieves the single trending-by-liquidity page Manifold's
// search endpoint returns; the original worker never paginates this feed,
// so every call beyond page 1 reports no more pages.
func (a *Adapter) FetchPage(ctx context.Context, page int, cursor string) ([]models.SourceQuote, string, bool, error) {
	if page > 1 {
		return nil, "", false, nil
	}

	url := manifoldAPI + "/search-markets?term=&sort=liquidity&limit=100&filter=open"

	var raw []market
	if err := httpfetch.GetJSON(ctx, a.client, url, &raw); err != nil {
		return nil, "", false, err
	}

	quotes := make([]models.SourceQuote, 0, len(raw))
	for _, m := range raw {
		q, err := toQuote(m)
		if err != nil {
			continue
		}
		quotes = append(quotes, q)
	}

	return quotes, "", false, nil
}

func toQuote(m market) (models.SourceQuote, error) {
	if m.OutcomeType == nil || *m.OutcomeType != "BINARY" {
		return models.SourceQuote{}, forerr.InvalidInput("non-binary market")
	}
	if m.IsResolved != nil && *m.IsResolved {
		return models.SourceQuote{}, forerr.InvalidInput("resolved market")
	}
	if m.Question == nil || *m.Question == "" {
		return models.SourceQuote{}, forerr.MissingRequiredField("question")
	}

	probability := 0.5
	if m.Probability != nil {
		probability = *m.Probability
	}

	var externalURL *string
	switch {
	case m.URL != nil:
		externalURL = m.URL
	case m.Slug != nil:
		u := *m.Slug
		if !strings.HasPrefix(u, "http") {
			u = "https://manifold.markets/" + u
		}
		externalURL = &u
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"total_liquidity": m.TotalLiquidity,
		"outcome_type":    m.OutcomeType,
	})

	return models.SourceQuote{
		ExternalID:  m.ID,
		Title:       *m.Question,
		Probability: probability,
		Volume:      m.Volume,
		ExternalURL: externalURL,
		Metadata:    metadata,
	}, nil
}
