package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"textqa-enrich/internal/types"
)

func TestAggregate(t *testing.T) {
	ds := types.NewDataset([]types.Record{{}, {}, {}}).
		WithColumns(types.ColTextEN, types.ColQuestion, types.ColAnswer, types.ColAnswerConfidence)
	ds.Rows[0].Question = types.StrPtr("q1")
	ds.Rows[0].Answer = types.StrPtr("a1")
	ds.Rows[0].AnswerConfidence = types.FloatPtr(0.9)
	ds.Rows[1].Question = types.StrPtr("q2")
	ds.Rows[1].Answer = types.StrPtr("a2")
	ds.Rows[1].AnswerConfidence = types.FloatPtr(0.1)
	ds.Rows[2].Question = types.StrPtr("q3")
	ds.Rows[0].TextEN = types.StrPtr("The quick brown fox jumps over the lazy dog near the river bank.")

	ins := Aggregate(ds)
	assert.Equal(t, map[string]int{"0.75-1": 1, "0-0.25": 1}, ins.ConfidenceBuckets)
	assert.InDelta(t, 2.0/3.0, ins.AnswerRate, 1e-9)
	assert.Equal(t, 1, ins.TranslatedLanguages["en"])
}

func TestAggregateEmpty(t *testing.T) {
	ins := Aggregate(types.Dataset{})
	assert.Zero(t, ins.AnswerRate)
	assert.Empty(t, ins.ConfidenceBuckets)
}

func TestConfidenceBucketEdges(t *testing.T) {
	assert.Equal(t, "0-0.25", confidenceBucket(0))
	assert.Equal(t, "0.25-0.5", confidenceBucket(0.25))
	assert.Equal(t, "0.5-0.75", confidenceBucket(0.5))
	assert.Equal(t, "0.75-1", confidenceBucket(1))
}

func TestDominantLanguage(t *testing.T) {
	lang, share := DominantLanguage([]string{
		"",
		"This is an English sentence about the weather and the city council.",
		"Another English sentence describing the results of the local election.",
	})
	assert.Equal(t, "en", lang)
	assert.InDelta(t, 1.0, share, 1e-9)

	lang, share = DominantLanguage([]string{"  ", ""})
	assert.Equal(t, "", lang)
	assert.Zero(t, share)
}
