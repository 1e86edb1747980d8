package metaculus

import "testing"

func ptr[T any](v T) *T { return &v }

func TestToQuoteUsesCommunityMedian(t *testing.T) {
	q := question{
		ID:    42,
		Title: ptr("Will X happen?"),
		CommunityPrediction: &communityPrediction{
			Full: &predictionFull{Q2: ptr(0.72)},
		},
	}

	quote, err := toQuote(q)
	if err != nil {
		t.Fatalf("toQuote returned error: %v", err)
	}
	if quote.Probability != 0.72 {
		t.Errorf("Probability = %v, want 0.72", quote.Probability)
	}
	if quote.ExternalID != "42" {
		t.Errorf("ExternalID = %q, want 42", quote.ExternalID)
	}
}

func TestToQuoteDefaultsWithoutCommunityPrediction(t *testing.T) {
	q := question{ID: 7, Title: ptr("No prediction yet")}

	quote, err := toQuote(q)
	if err != nil {
		t.Fatalf("toQuote returned error: %v", err)
	}
	if quote.Probability != 0.5 {
		t.Errorf("Probability = %v, want default 0.5", quote.Probability)
	}
	if quote.ExternalURL == nil || *quote.ExternalURL != "https://www.metaculus.com/questions/7/" {
		t.Errorf("ExternalURL = %v, want constructed metaculus URL", quote.ExternalURL)
	}
}

func TestToQuoteRejectsMissingTitle(t *testing.T) {
	q := question{ID: 1}
	if _, err := toQuote(q); err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestAdapterIdentity(t *testing.T) {
	a := New(nil)
	if a.Slug() != "metaculus" || a.SourceTag() != "mc" {
		t.Errorf("unexpected identity: slug=%s tag=%s", a.Slug(), a.SourceTag())
	}
}
