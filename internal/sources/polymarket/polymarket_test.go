package polymarket

import "testing"

func ptr[T any](v T) *T { return &v }

func TestToQuoteParsesFirstOutcomePrice(t *testing.T) {
	m := gammaMarket{
		ConditionID:   ptr("0xabc"),
		Question:      ptr("Will it rain tomorrow?"),
		OutcomePrices: ptr(`["0.65", "0.35"]`),
		Slug:          ptr("will-it-rain-tomorrow"),
	}

	q, err := toQuote(m)
	if err != nil {
		t.Fatalf("toQuote returned error: %v", err)
	}
	if q.Probability != 0.65 {
		t.Errorf("Probability = %v, want 0.65", q.Probability)
	}
	if q.ExternalID != "0xabc" {
		t.Errorf("ExternalID = %q, want 0xabc", q.ExternalID)
	}
	if q.ExternalURL == nil || *q.ExternalURL != "https://polymarket.com/event/will-it-rain-tomorrow" {
		t.Errorf("ExternalURL = %v, want polymarket event URL", q.ExternalURL)
	}
}

func TestToQuoteFallsBackToQuestionID(t *testing.T) {
	m := gammaMarket{
		QuestionID: ptr("q-1"),
		Question:   ptr("Some question"),
	}

	q, err := toQuote(m)
	if err != nil {
		t.Fatalf("toQuote returned error: %v", err)
	}
	if q.ExternalID != "q-1" {
		t.Errorf("ExternalID = %q, want q-1", q.ExternalID)
	}
	if q.Probability != 0.5 {
		t.Errorf("Probability = %v, want default 0.5", q.Probability)
	}
}

func TestToQuoteRejectsMissingQuestion(t *testing.T) {
	m := gammaMarket{ConditionID: ptr("0xabc")}
	if _, err := toQuote(m); err == nil {
		t.Fatal("expected error for missing question")
	}
}

func TestToQuoteRejectsMissingExternalID(t *testing.T) {
	m := gammaMarket{Question: ptr("Some question")}
	if _, err := toQuote(m); err == nil {
		t.Fatal("expected error for missing external id")
	}
}

func TestToQuoteDefaultsWhenOutcomePricesMalformed(t *testing.T) {
	m := gammaMarket{
		ConditionID:   ptr("0xabc"),
		Question:      ptr("Some question"),
		OutcomePrices: ptr("not json"),
	}

	q, err := toQuote(m)
	if err != nil {
		t.Fatalf("toQuote returned error: %v", err)
	}
	if q.Probability != 0.5 {
		t.Errorf("Probability = %v, want default 0.5", q.Probability)
	}
}
