package dataset

import (
	"strings"

	"textqa-enrich/internal/logger"
	"textqa-enrich/internal/types"
)

type DatasetSummary struct {
	TotalRows        int      `json:"total_rows"`
	Columns          []string `json:"columns"`
	Translated       int      `json:"translated"`
	TranslationGaps  int      `json:"translation_gaps"`
	WithQuestion     int      `json:"with_question"`
	WithAnswer       int      `json:"with_answer"`
	MeanConfidence   float64  `json:"mean_confidence"`
	ExampleQuestions []string `json:"example_questions"`
}

// Summarize counts how far each row got through enrichment.
// A translation gap is a row with source text whose text_en came back empty.
func Summarize(ds types.Dataset) DatasetSummary {
	log := logger.New().WithField("component", "dataset.summary")

	s := DatasetSummary{
		TotalRows: ds.Len(),
		Columns:   append([]string(nil), ds.Columns...),
	}
	confSum := 0.0
	for _, r := range ds.Rows {
		if r.TextEN != nil {
			if strings.TrimSpace(*r.TextEN) != "" {
				s.Translated++
			} else if strings.TrimSpace(r.Text) != "" {
				s.TranslationGaps++
			}
		}
		if r.Question != nil {
			s.WithQuestion++
			if len(s.ExampleQuestions) < 3 {
				s.ExampleQuestions = append(s.ExampleQuestions, *r.Question)
			}
		}
		if r.Answer != nil {
			s.WithAnswer++
		}
		if r.AnswerConfidence != nil {
			confSum += *r.AnswerConfidence
		}
	}
	if s.WithAnswer > 0 {
		s.MeanConfidence = confSum / float64(s.WithAnswer)
	}

	log.WithFields(map[string]interface{}{
		"total_rows":    s.TotalRows,
		"translated":    s.Translated,
		"with_question": s.WithQuestion,
		"with_answer":   s.WithAnswer,
	}).Debug("dataset summarization complete")
	for i, q := range s.ExampleQuestions {
		log.WithField("example_index", i).Debug("example question: ", q)
	}
	return s
}
