package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"textqa-enrich/internal/answer"
	"textqa-enrich/internal/batcher"
	"textqa-enrich/internal/dataset"
	"textqa-enrich/internal/llm"
	"textqa-enrich/internal/question"
	"textqa-enrich/internal/translation"
	"textqa-enrich/internal/types"
)

// scriptedLLM returns no fenced block for texts containing "skip".
type scriptedLLM struct {
	mu    sync.Mutex
	calls int
}

func (s *scriptedLLM) Complete(_ context.Context, prompt string, _ llm.Params) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if strings.Contains(prompt, "skip") {
		return "no idea", nil
	}
	return "```json\n{\"question\": \"What is it about?\"}\n```", nil
}

type countingQA struct {
	mu    sync.Mutex
	calls int
}

func (c *countingQA) Answer(_ context.Context, _, passage string) ([]answer.Candidate, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return []answer.Candidate{{Text: "low", Confidence: 0.2}, {Text: passage, Confidence: 0.9}}, nil
}

type failingTranslator struct{}

func (failingTranslator) Translate(context.Context, []string, string, string) ([]string, error) {
	return nil, errors.New("service down")
}

func newDriver(tc translation.Client, l llm.Completer, qa answer.Client, workers int) *Driver {
	return New(
		translation.New(tc, batcher.Limits{MaxItems: 2, MaxChars: 1000}),
		question.New(l),
		answer.New(qa),
		Options{SourceLang: "fr", TargetLang: "en", Workers: workers},
	)
}

func sample() types.Dataset {
	return types.NewDataset([]types.Record{
		{Text: "Bonjour", Summary: "Salut"},
		{Text: "please skip", Summary: "s"},
		{Text: "", Summary: "vide"},
	})
}

func TestEnrichEndToEnd(t *testing.T) {
	l, qa := &scriptedLLM{}, &countingQA{}
	d := newDriver(translation.Mock{}, l, qa, 1)

	in := sample()
	out, rep, err := d.Enrich(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, types.AllColumns, out.Columns)
	require.Equal(t, 3, out.Len())

	assert.Equal(t, "[en] Bonjour", *out.Rows[0].TextEN)
	assert.Equal(t, "[en] Salut", *out.Rows[0].SummaryEN)
	assert.Equal(t, "What is it about?", *out.Rows[0].Question)
	assert.Equal(t, "[en] Bonjour", *out.Rows[0].Answer)
	assert.Equal(t, 0.9, *out.Rows[0].AnswerConfidence)

	// no question means no answer and no confidence
	assert.Nil(t, out.Rows[1].Question)
	assert.Nil(t, out.Rows[1].Answer)
	assert.Nil(t, out.Rows[1].AnswerConfidence)

	// empty text is translated to a present empty string and skipped afterwards
	require.NotNil(t, out.Rows[2].TextEN)
	assert.Equal(t, "", *out.Rows[2].TextEN)
	assert.Nil(t, out.Rows[2].Question)

	assert.Equal(t, 2, l.calls)
	assert.Equal(t, 1, qa.calls)
	assert.Equal(t, Report{Rows: 3, Questions: 1, Answers: 1, Insight: rep.Insight, Action: rep.Action}, rep)
	assert.NotEmpty(t, rep.Action.Insight)
	assert.Equal(t, 1.0, rep.Insight.AnswerRate)

	// input untouched
	assert.Equal(t, []string{types.ColText, types.ColSummary}, in.Columns)
	assert.Nil(t, in.Rows[0].TextEN)
}

func TestFailedTranslationDegradesToEmpty(t *testing.T) {
	l, qa := &scriptedLLM{}, &countingQA{}
	d := newDriver(failingTranslator{}, l, qa, 1)

	out, rep, err := d.Enrich(context.Background(), sample())
	require.NoError(t, err)
	// 3 rows in batches of 2, for two columns
	assert.Equal(t, 4, rep.FailedBatches)
	for _, r := range out.Rows {
		require.NotNil(t, r.TextEN)
		assert.Equal(t, "", *r.TextEN)
		assert.Nil(t, r.Question)
		assert.Nil(t, r.Answer)
	}
	assert.Zero(t, l.calls)
	assert.Zero(t, qa.calls)
}

func TestWorkersKeepRowOrder(t *testing.T) {
	var recs []types.Record
	for i := 0; i < 57; i++ {
		recs = append(recs, types.Record{Text: fmt.Sprintf("row %d", i), Summary: "s"})
	}
	seq, _, err := newDriver(translation.Mock{}, llm.Mock{}, answer.Mock{}, 1).Enrich(context.Background(), types.NewDataset(recs))
	require.NoError(t, err)
	par, rep, err := newDriver(translation.Mock{}, llm.Mock{}, answer.Mock{}, 8).Enrich(context.Background(), types.NewDataset(recs))
	require.NoError(t, err)

	assert.Equal(t, seq, par)
	assert.Equal(t, 57, rep.Questions)
	for i, r := range par.Rows {
		assert.Equal(t, fmt.Sprintf("[en] row %d", i), *r.TextEN)
	}
}

func TestCancelledRunStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := newDriver(translation.Mock{}, llm.Mock{}, answer.Mock{}, 4)
	_, _, err := d.Enrich(ctx, sample())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRewritesSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, dataset.Save(context.Background(), path, sample()))

	d := newDriver(translation.Mock{}, &scriptedLLM{}, &countingQA{}, 2)
	rep, err := d.Run(context.Background(), path)
	require.NoError(t, err)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 3, rep.Rows)

	got, err := dataset.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, types.AllColumns, got.Columns)
	assert.Equal(t, "What is it about?", *got.Rows[0].Question)
	assert.Nil(t, got.Rows[1].Question)
	assert.Nil(t, got.Rows[1].AnswerConfidence)
}

func TestRunRequiresSourceColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	ds := types.Dataset{Columns: []string{types.ColText}, Rows: []types.EnrichedRow{{Record: types.Record{Text: "x"}}}}
	require.NoError(t, dataset.Save(context.Background(), path, ds))

	_, err := newDriver(translation.Mock{}, llm.Mock{}, answer.Mock{}, 1).Run(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary")
}

func TestRunMissingDataset(t *testing.T) {
	_, err := newDriver(translation.Mock{}, llm.Mock{}, answer.Mock{}, 1).Run(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, dataset.ErrNotFound)
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	d := newDriver(translation.Mock{}, llm.Mock{}, answer.Mock{}, 1)
	err := Schedule(context.Background(), d, "x.csv", "not a cron")
	assert.Error(t, err)
}
