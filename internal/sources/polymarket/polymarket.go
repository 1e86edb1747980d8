// Package polymarket implements the Polymarket Source Adapter (C1),
// transliterated from original_source/crates/workers/src/sources/polymarket.rs:
// the Gamma Markets API's paginated listing, one outcome-price array per
// market, parsed as the probability of its first (Yes) outcome.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/derdennis123/forecise/internal/forerr"
	"github.com/derdennis123/forecise/internal/httpfetch"
	"github.com/derdennis123/forecise/pkg/contracts"
	"github.com/derdennis123/forecise/pkg/models"
)

const (
	gammaAPI  = "https://gamma-api.polymarket.com"
	pageLimit = 100
)

type gammaMarket struct {
	ConditionID   *string  `json:"conditionId"`
	Question      *string  `json:"question"`
	OutcomePrices *string  `json:"outcomePrices"`
	VolumeNum     *float64 `json:"volumeNum"`
	LiquidityNum  *float64 `json:"liquidityNum"`
	Slug          *string  `json:"slug"`
	Active        *bool    `json:"active"`
	Closed        *bool    `json:"closed"`
	QuestionID    *string  `json:"questionID"`
}

// Adapter polls the Polymarket Gamma Markets API.
type Adapter struct {
	client *http.Client
}

var _ contracts.SourceAdapter = (*Adapter)(nil)

// New builds a Polymarket adapter using client for outbound requests.
func New(client *http.Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) Slug() string               { return "polymarket" }
func (a *Adapter) SourceTag() string          { return "pm" }
func (a *Adapter) PollInterval() time.Duration { return 5 * time.Minute }
func (a *Adapter) StartDelay() time.Duration   { return 0 }

// FetchPage retrieves one offset-paginated page of active, open markets.
// page is 1-indexed; cursor is unused since Gamma paginates by offset.
func (a *Adapter) FetchPage(ctx context.Context, page int, cursor string) ([]models.SourceQuote, string, bool, error) {
	offset := (page - 1) * pageLimit
	url := fmt.Sprintf("%s/markets?limit=%d&offset=%d&active=true&closed=false", gammaAPI, pageLimit, offset)

	var raw []gammaMarket
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

	return quotes, "", len(raw) == pageLimit, nil
}

func toQuote(m gammaMarket) (models.SourceQuote, error) {
	if m.Question == nil || *m.Question == "" {
		return models.SourceQuote{}, forerr.MissingRequiredField("question")
	}

	externalID := ""
	if m.ConditionID != nil {
		externalID = *m.ConditionID
	} else if m.QuestionID != nil {
		externalID = *m.QuestionID
	}
	if externalID == "" {
		return models.SourceQuote{}, forerr.MissingRequiredField("conditionId/questionID")
	}

	probability := 0.5
	if m.OutcomePrices != nil {
		var prices []string
		if err := json.Unmarshal([]byte(*m.OutcomePrices), &prices); err == nil && len(prices) > 0 {
			if p, err := strconv.ParseFloat(prices[0], 64); err == nil {
				probability = p
			}
		}
	}

	var externalURL *string
	if m.Slug != nil {
		u := fmt.Sprintf("https://polymarket.com/event/%s", *m.Slug)
		externalURL = &u
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"active":    m.Active,
		"closed":    m.Closed,
		"liquidity": m.LiquidityNum,
	})

	return models.SourceQuote{
		ExternalID:  externalID,
		Title:       *m.Question,
		Probability: probability,
		Volume:      m.VolumeNum,
		Liquidity:   m.LiquidityNum,
		ExternalURL: externalURL,
		Metadata:    metadata,
	}, nil
}
