package processor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"textqa-enrich/internal/aggregator"
	"textqa-enrich/internal/dataset"
	"textqa-enrich/internal/pipeline"
	"textqa-enrich/internal/types"
)

// TextResult is returned by /process
type TextResult struct {
	Text             string                 `json:"text"`
	DetectedLanguage string                 `json:"detected_language,omitempty"`
	TextEN           string                 `json:"text_en"`
	Question         *string                `json:"question"`
	Answer           *string                `json:"answer"`
	AnswerConfidence *float64               `json:"answer_confidence"`
	Evidence         map[string]interface{} `json:"evidence"`
	DurationMs       int64                  `json:"duration_ms"`
	Error            string                 `json:"error,omitempty"`
}

// ProcessText enriches a single ad-hoc text with the same stages as a dataset run and
// compares the result with the loaded dataset.
func ProcessText(ctx context.Context, d *pipeline.Driver, text string, timeout time.Duration, ds dataset.DatasetSummary) (TextResult, error) {
	start := time.Now()
	res := TextResult{Text: text}
	if strings.TrimSpace(text) == "" {
		res.Error = "text is required"
		return res, fmt.Errorf("text is required")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res.DetectedLanguage, _ = aggregator.DominantLanguage([]string{text})

	one := types.NewDataset([]types.Record{{Text: text}})
	out, rep, err := d.Enrich(ctx, one)
	if err != nil {
		res.Error = fmt.Sprintf("enrichment error: %v", err)
		res.DurationMs = time.Since(start).Milliseconds()
		return res, err
	}
	row := out.Rows[0]
	if row.TextEN != nil {
		res.TextEN = *row.TextEN
	}
	res.Question, res.Answer, res.AnswerConfidence = row.Question, row.Answer, row.AnswerConfidence

	// Dataset grounding: how this text compares with the rows already enriched
	evidence := map[string]interface{}{}
	evidence["dataset_total_rows"] = ds.TotalRows
	evidence["translation_failed"] = rep.FailedBatches > 0
	if row.AnswerConfidence != nil && ds.WithAnswer > 0 {
		evidence["dataset_mean_confidence"] = ds.MeanConfidence
		evidence["above_dataset_mean"] = *row.AnswerConfidence >= ds.MeanConfidence
	} else {
		evidence["above_dataset_mean"] = nil
	}
	similar := ""
	if row.Question != nil {
		q := strings.ToLower(*row.Question)
		for _, ex := range ds.ExampleQuestions {
			if strings.EqualFold(ex, q) || strings.Contains(q, strings.ToLower(ex)) {
				similar = ex
				break
			}
		}
	}
	if similar != "" {
		evidence["matched_example_question"] = similar
	} else {
		evidence["matched_example_question"] = nil
	}
	res.Evidence = evidence

	res.DurationMs = time.Since(start).Milliseconds()
	return res, nil
}
