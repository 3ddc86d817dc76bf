// Package viewer lays out an enriched dataset row for display.
package viewer

import (
	"fmt"

	"textqa-enrich/internal/answer"
	"textqa-enrich/internal/types"
)

// MaxDocuments caps how many rows the selectors offer.
const MaxDocuments = 100

const NotAvailable = "N/A"

// Field labels.
const (
	LabelText       = "Original Text"
	LabelSummary    = "Original Summary"
	LabelTextEN     = "English Text"
	LabelSummaryEN  = "English Summary"
	LabelQuestion   = "Question"
	LabelAnswer     = "Answer"
	LabelConfidence = "Confidence Score"
)

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Document is one row split into the three display areas. A field whose column is missing
// from the dataset is left out entirely.
type Document struct {
	Title  string  `json:"title"`
	Index  int     `json:"index"`
	Left   []Field `json:"left"`
	Right  []Field `json:"right"`
	Bottom []Field `json:"bottom"`
}

// DocumentCount is how many rows can be selected.
func DocumentCount(ds types.Dataset) int {
	return min(ds.Len(), MaxDocuments)
}

// Title is the 1-based selector label for row i.
func Title(i int) string {
	return fmt.Sprintf("Text Document %d", i+1)
}

// Titles returns the selector labels for the first DocumentCount rows.
func Titles(ds types.Dataset) []string {
	out := make([]string, DocumentCount(ds))
	for i := range out {
		out[i] = Title(i)
	}
	return out
}

// Build lays out row i. It returns false when i is not selectable.
func Build(ds types.Dataset, i int) (Document, bool) {
	if i < 0 || i >= DocumentCount(ds) {
		return Document{}, false
	}
	r := ds.Rows[i]
	doc := Document{Title: Title(i), Index: i}

	if ds.HasColumn(types.ColText) {
		doc.Left = append(doc.Left, Field{LabelText, r.Text})
	}
	if ds.HasColumn(types.ColSummary) {
		doc.Left = append(doc.Left, Field{LabelSummary, r.Summary})
	}
	if ds.HasColumn(types.ColTextEN) {
		doc.Right = append(doc.Right, Field{LabelTextEN, orNA(r.TextEN)})
	}
	if ds.HasColumn(types.ColSummaryEN) {
		doc.Right = append(doc.Right, Field{LabelSummaryEN, orNA(r.SummaryEN)})
	}
	if ds.HasColumn(types.ColQuestion) {
		doc.Bottom = append(doc.Bottom, Field{LabelQuestion, orNA(r.Question)})
	}
	if ds.HasColumn(types.ColAnswer) {
		doc.Bottom = append(doc.Bottom, Field{LabelAnswer, orNA(r.Answer)})
	}
	if ds.HasColumn(types.ColAnswerConfidence) {
		doc.Bottom = append(doc.Bottom, Field{LabelConfidence, answer.FormatConfidence(r.AnswerConfidence)})
	}
	return doc, true
}

func orNA(s *string) string {
	if s == nil {
		return NotAvailable
	}
	return *s
}
