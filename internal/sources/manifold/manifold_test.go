package manifold

import "testing"

func ptr[T any](v T) *T { return &v }

func TestToQuoteAcceptsOpenBinaryMarket(t *testing.T) {
	m := market{
		ID:          "m1",
		Question:    ptr("Will Y happen?"),
		OutcomeType: ptr("BINARY"),
		Probability: ptr(0.4),
		Slug:        ptr("will-y-happen"),
	}

	q, err := toQuote(m)
	if err != nil {
		t.Fatalf("toQuote returned error: %v", err)
	}
	if q.Probability != 0.4 {
		t.Errorf("Probability = %v, want 0.4", q.Probability)
	}
	if q.ExternalURL == nil || *q.ExternalURL != "https://manifold.markets/will-y-happen" {
		t.Errorf("ExternalURL = %v, want constructed manifold URL", q.ExternalURL)
	}
}

func TestToQuoteRejectsNonBinaryMarket(t *testing.T) {
	m := market{
		ID:          "m2",
		Question:    ptr("Pick a number"),
		OutcomeType: ptr("MULTIPLE_CHOICE"),
	}
	if _, err := toQuote(m); err == nil {
		t.Fatal("expected error for non-binary market")
	}
}

func TestToQuoteRejectsResolvedMarket(t *testing.T) {
	m := market{
		ID:          "m3",
		Question:    ptr("Already resolved"),
		OutcomeType: ptr("BINARY"),
		IsResolved:  ptr(true),
	}
	if _, err := toQuote(m); err == nil {
		t.Fatal("expected error for resolved market")
	}
}

func TestToQuotePreservesAbsoluteURL(t *testing.T) {
	m := market{
		ID:          "m4",
		Question:    ptr("Has absolute URL"),
		OutcomeType: ptr("BINARY"),
		URL:         ptr("https://manifold.markets/user/market-slug"),
	}
	q, err := toQuote(m)
	if err != nil {
		t.Fatalf("toQuote returned error: %v", err)
	}
	if q.ExternalURL == nil || *q.ExternalURL != "https://manifold.markets/user/market-slug" {
		t.Errorf("ExternalURL = %v, want unchanged absolute URL", q.ExternalURL)
	}
}
