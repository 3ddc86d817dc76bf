package aggregator

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"textqa-enrich/internal/types"
)

type Insight struct {
	ConfidenceBuckets map[string]int `json:"confidence_buckets"`
	AnswerRate        float64        `json:"answer_rate"`
	// TranslatedLanguages counts the detected language of every non-blank text_en value.
	TranslatedLanguages map[string]int `json:"translated_languages"`
}

// Aggregate summarises answer quality and what the translations actually came out as.
// AnswerRate is answers over generated questions.
func Aggregate(ds types.Dataset) Insight {
	buckets := map[string]int{}
	langs := map[string]int{}
	questions, answers := 0, 0
	for _, r := range ds.Rows {
		if r.Question != nil {
			questions++
		}
		if r.Answer != nil {
			answers++
		}
		if r.AnswerConfidence != nil {
			buckets[confidenceBucket(*r.AnswerConfidence)]++
		}
		if r.TextEN != nil {
			if code := detect(*r.TextEN); code != "" {
				langs[code]++
			}
		}
	}
	rate := 0.0
	if questions > 0 {
		rate = float64(answers) / float64(questions)
	}
	return Insight{ConfidenceBuckets: buckets, AnswerRate: rate, TranslatedLanguages: langs}
}

func confidenceBucket(c float64) string {
	switch {
	case c < 0.25:
		return "0-0.25"
	case c < 0.5:
		return "0.25-0.5"
	case c < 0.75:
		return "0.5-0.75"
	default:
		return "0.75-1"
	}
}

// DominantLanguage returns the most common ISO 639 code among texts and its share of the
// non-blank ones. It returns "" when nothing could be detected.
func DominantLanguage(texts []string) (string, float64) {
	counts := map[string]int{}
	total := 0
	for _, t := range texts {
		code := detect(t)
		if code == "" {
			continue
		}
		counts[code]++
		total++
	}
	top, topCount := "", 0
	for code, n := range counts {
		if n > topCount || (n == topCount && code < top) {
			top, topCount = code, n
		}
	}
	if total == 0 {
		return "", 0
	}
	return top, float64(topCount) / float64(total)
}

func detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	info := whatlanggo.Detect(text)
	if code := info.Lang.Iso6391(); code != "" {
		return code
	}
	return info.Lang.Iso6393()
}
