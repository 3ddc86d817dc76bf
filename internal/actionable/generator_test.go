package actionable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"textqa-enrich/internal/aggregator"
)

func TestGenerate(t *testing.T) {
	cases := []struct {
		name    string
		ins     aggregator.Insight
		contain string
	}{
		{
			name:    "untranslated",
			ins:     aggregator.Insight{TranslatedLanguages: map[string]int{"en": 1, "sq": 3}},
			contain: "75% of translations are not in en-US",
		},
		{
			name:    "low confidence",
			ins:     aggregator.Insight{ConfidenceBuckets: map[string]int{"0-0.25": 2, "0.75-1": 1}, AnswerRate: 1},
			contain: "Low confidence in 67% of answers",
		},
		{
			name:    "few answers",
			ins:     aggregator.Insight{ConfidenceBuckets: map[string]int{"0.75-1": 1}, AnswerRate: 0.25},
			contain: "Only 25% of questions were answered",
		},
		{
			name:    "healthy",
			ins:     aggregator.Insight{TranslatedLanguages: map[string]int{"en": 9}, ConfidenceBuckets: map[string]int{"0.75-1": 3}, AnswerRate: 1},
			contain: "No strong quality issue",
		},
		{
			name:    "empty",
			ins:     aggregator.Insight{},
			contain: "No strong quality issue",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			card := Generate(tc.ins, "en-US")
			assert.Contains(t, card.Insight, tc.contain)
			assert.NotEmpty(t, card.Action)
		})
	}
}
