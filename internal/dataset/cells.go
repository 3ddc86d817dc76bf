package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"textqa-enrich/internal/types"
)

// Tabular files (CSV, XLSX) have no null. An empty question, answer or confidence cell
// means absent: those stages never store an empty value. Empty text_en/summary_en cells
// are real empty strings left by a failed translation batch.

// columnIndex maps known column names to their position in a header row.
// Unknown headers (a pandas index column, for example) are ignored.
func columnIndex(header []string) map[string]int {
	idx := map[string]int{}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, known := range types.AllColumns {
			if name == known {
				if _, dup := idx[name]; !dup {
					idx[name] = i
				}
			}
		}
	}
	return idx
}

func presentColumns(idx map[string]int) []string {
	var cols []string
	for _, c := range types.AllColumns {
		if _, ok := idx[c]; ok {
			cols = append(cols, c)
		}
	}
	return cols
}

func cellAt(r []string, i int) string {
	if i >= 0 && i < len(r) {
		return r[i]
	}
	return ""
}

// rowFromCells decodes one data row. rowNum is 1-based and only used in errors.
func rowFromCells(idx map[string]int, r []string, rowNum int) (types.EnrichedRow, error) {
	var row types.EnrichedRow
	get := func(col string) (string, bool) {
		i, ok := idx[col]
		if !ok {
			return "", false
		}
		return cellAt(r, i), true
	}
	row.Text, _ = get(types.ColText)
	row.Summary, _ = get(types.ColSummary)
	if v, ok := get(types.ColTextEN); ok {
		row.TextEN = types.StrPtr(v)
	}
	if v, ok := get(types.ColSummaryEN); ok {
		row.SummaryEN = types.StrPtr(v)
	}
	if v, ok := get(types.ColQuestion); ok && v != "" {
		row.Question = types.StrPtr(v)
	}
	if v, ok := get(types.ColAnswer); ok && v != "" {
		row.Answer = types.StrPtr(v)
	}
	if v, ok := get(types.ColAnswerConfidence); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return row, fmt.Errorf("row %d: answer_confidence %q: %w", rowNum, v, err)
		}
		row.AnswerConfidence = types.FloatPtr(f)
	}
	return row, nil
}

// cellValue renders one column of a row; ok is false when the value is absent.
func cellValue(row types.EnrichedRow, col string) (string, bool) {
	deref := func(p *string) (string, bool) {
		if p == nil {
			return "", false
		}
		return *p, true
	}
	switch col {
	case types.ColText:
		return row.Text, true
	case types.ColSummary:
		return row.Summary, true
	case types.ColTextEN:
		return deref(row.TextEN)
	case types.ColSummaryEN:
		return deref(row.SummaryEN)
	case types.ColQuestion:
		return deref(row.Question)
	case types.ColAnswer:
		return deref(row.Answer)
	case types.ColAnswerConfidence:
		if row.AnswerConfidence == nil {
			return "", false
		}
		return strconv.FormatFloat(*row.AnswerConfidence, 'f', -1, 64), true
	}
	return "", false
}
