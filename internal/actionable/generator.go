package actionable

import (
	"fmt"
	"strings"

	"textqa-enrich/internal/aggregator"
)

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// Generate turns a run's insight into the single most pressing follow-up. target is the
// language translations were requested in.
func Generate(ins aggregator.Insight, target string) ActionCard {
	total, offTarget := 0, 0
	for lang, n := range ins.TranslatedLanguages {
		total += n
		if !strings.EqualFold(lang, baseLang(target)) {
			offTarget += n
		}
	}
	if total > 0 && float64(offTarget)/float64(total) >= 0.35 {
		return ActionCard{
			Insight: fmt.Sprintf("%.0f%% of translations are not in %s", float64(offTarget)/float64(total)*100, target),
			Action:  "Check the source language setting and translator credentials; rerun enrichment",
			Impact:  "Questions and answers are generated from untranslated text",
		}
	}

	lowConf, answered := 0, 0
	for bucket, n := range ins.ConfidenceBuckets {
		answered += n
		if bucket == "0-0.25" || bucket == "0.25-0.5" {
			lowConf += n
		}
	}
	if answered > 0 && float64(lowConf)/float64(answered) >= 0.5 {
		return ActionCard{
			Insight: fmt.Sprintf("Low confidence in %.0f%% of answers", float64(lowConf)/float64(answered)*100),
			Action:  "Review generated questions for ones the text cannot answer",
			Impact:  "Answers below 0.5 confidence are often unrelated spans",
		}
	}

	if answered > 0 && ins.AnswerRate < 0.5 {
		return ActionCard{
			Insight: fmt.Sprintf("Only %.0f%% of questions were answered", ins.AnswerRate*100),
			Action:  "Inspect unanswered rows in the viewer",
			Impact:  "Half of the generated questions carry no answer",
		}
	}

	return ActionCard{
		Insight: "No strong quality issue detected",
		Action:  "Spot-check a few documents in the viewer",
		Impact:  "Low immediate intervention",
	}
}

// baseLang strips region and script subtags ("en-US" -> "en").
func baseLang(tag string) string {
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		return tag[:i]
	}
	return tag
}
