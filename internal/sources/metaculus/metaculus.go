// Package metaculus implements the Metaculus Source Adapter (C1),
// transliterated from
// original_source/crates/workers/src/sources/metaculus.rs: a
// cursor-paginated (next-URL) questions feed, probability taken from the
// community prediction's median (q2), falling back to 0.5 when Metaculus
// has not yet published a community prediction for the question.
package metaculus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/derdennis123/forecise/internal/forerr"
	"github.com/derdennis123/forecise/internal/httpfetch"
	"github.com/derdennis123/forecise/pkg/contracts"
	"github.com/derdennis123/forecise/pkg/models"
)

const metaculusAPI = "https://www.metaculus.com/api2"

type questionsResponse struct {
	Results []question `json:"results"`
	Next    *string    `json:"next"`
}

type question struct {
	ID                   int64                `json:"id"`
	Title                *string              `json:"title"`
	URL                  *string              `json:"url"`
	Status               *string              `json:"status"`
	CommunityPrediction  *communityPrediction `json:"community_prediction"`
	NumberOfForecasters  *int64               `json:"number_of_forecasters"`
	QuestionType         *string              `json:"type"`
}

type communityPrediction struct {
	Full *predictionFull `json:"full"`
}

type predictionFull struct {
	Q2 *float64 `json:"q2"`
}

// Adapter polls the Metaculus public questions API.
type Adapter struct {
	client *http.Client
}

var _ contracts.SourceAdapter = (*Adapter)(nil)

// New builds a Metaculus adapter using client for outbound requests.
func New(client *http.Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) Slug() string                { return "metaculus" }
func (a *Adapter) SourceTag() string           { return "mc" }
func (a *Adapter) PollInterval() time.Duration { return 10 * time.Minute }
func (a *Adapter) StartDelay() time.Duration   { return 10 * time.Second }

// FetchPage retrieves one page of open binary questions. On the first call
// (cursor empty) it uses the canonical listing URL; afterward it follows
// the API's own next-page URL verbatim, exactly as the original worker's
// fetch_and_store loop does.
func (a *Adapter) FetchPage(ctx context.Context, page int, cursor string) ([]models.SourceQuote, string, bool, error) {
	url := cursor
	if url == "" {
		url = fmt.Sprintf("%s/questions/?limit=100&status=open&type=binary&order_by=-activity", metaculusAPI)
	}

	var resp questionsResponse
	if err := httpfetch.GetJSON(ctx, a.client, url, &resp); err != nil {
		return nil, "", false, err
	}

	quotes := make([]models.SourceQuote, 0, len(resp.Results))
	for _, q := range resp.Results {
		quote, err := toQuote(q)
		if err != nil {
			continue
		}
		quotes = append(quotes, quote)
	}

	if resp.Next == nil {
		return quotes, "", false, nil
	}
	return quotes, *resp.Next, true, nil
}

func toQuote(q question) (models.SourceQuote, error) {
	if q.Title == nil || *q.Title == "" {
		return models.SourceQuote{}, forerr.MissingRequiredField("title")
	}

	probability := 0.5
	if q.CommunityPrediction != nil && q.CommunityPrediction.Full != nil && q.CommunityPrediction.Full.Q2 != nil {
		probability = *q.CommunityPrediction.Full.Q2
	}

	externalID := fmt.Sprintf("%d", q.ID)

	externalURL := q.URL
	if externalURL == nil {
		u := fmt.Sprintf("https://www.metaculus.com/questions/%d/", q.ID)
		externalURL = &u
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"status":        q.Status,
		"question_type": q.QuestionType,
		"forecasters":   q.NumberOfForecasters,
	})

	return models.SourceQuote{
		ExternalID:  externalID,
		Title:       *q.Title,
		Probability: probability,
		ExternalURL: externalURL,
		Metadata:    metadata,
	}, nil
}
