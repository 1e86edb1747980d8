package ingestor

import "testing"

func TestSlug(t *testing.T) {
	cases := []struct {
		name      string
		sourceTag string
		title     string
		want      string
	}{
		{
			name:      "simple title",
			sourceTag: "pm",
			title:     "Will the Fed cut rates in 2026?",
			want:      "pm-will-the-fed-cut-rates-in-2026",
		},
		{
			name:      "collapses repeated punctuation",
			sourceTag: "mc",
			title:     "US GDP growth -- Q3??  2026",
			want:      "mc-us-gdp-growth-q3-2026",
		},
		{
			name:      "leading and trailing junk trimmed by field split",
			sourceTag: "mf",
			title:     "  !!! Recession watch !!!  ",
			want:      "mf-recession-watch",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Slug(tc.sourceTag, tc.title)
			if got != tc.want {
				t.Errorf("Slug(%q, %q) = %q, want %q", tc.sourceTag, tc.title, got, tc.want)
			}
		})
	}
}

func TestSlugTruncatesTo200Chars(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "abcdef "
	}
	got := Slug("pm", long)
	// 3-char prefix "pm-" plus at most 200 chars of hyphenated body.
	if len(got) > 3+200 {
		t.Errorf("Slug produced length %d, want <= 203", len(got))
	}
}
