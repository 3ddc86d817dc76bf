package types

// Column names in canonical order. Column presence in a persisted dataset gates what the
// viewers display.
const (
	ColText             = "text"
	ColSummary          = "summary"
	ColTextEN           = "text_en"
	ColSummaryEN        = "summary_en"
	ColQuestion         = "question"
	ColAnswer           = "answer"
	ColAnswerConfidence = "answer_confidence"
)

// AllColumns lists every known column in the order they are written.
var AllColumns = []string{
	ColText,
	ColSummary,
	ColTextEN,
	ColSummaryEN,
	ColQuestion,
	ColAnswer,
	ColAnswerConfidence,
}

// Record is one corpus entry projected to the two fields the pipeline uses.
type Record struct {
	Text    string `json:"text"`
	Summary string `json:"summary"`
}

// EnrichedRow is a Record plus the enrichment columns. A nil pointer means the value is
// absent, which is not the same thing as an empty string.
type EnrichedRow struct {
	Record
	TextEN           *string  `json:"text_en"`
	SummaryEN        *string  `json:"summary_en"`
	Question         *string  `json:"question"`
	Answer           *string  `json:"answer"`
	AnswerConfidence *float64 `json:"answer_confidence"`
}

// Dataset is an ordered table of rows plus the set of columns it carries.
// Rows are addressed by position only.
type Dataset struct {
	Columns []string
	Rows    []EnrichedRow
}

// NewDataset builds a dataset holding only the source columns.
func NewDataset(records []Record) Dataset {
	rows := make([]EnrichedRow, len(records))
	for i, r := range records {
		rows[i] = EnrichedRow{Record: r}
	}
	return Dataset{Columns: []string{ColText, ColSummary}, Rows: rows}
}

func (d Dataset) Len() int { return len(d.Rows) }

func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a copy that can be modified without touching d.
// Pointed-to values are never mutated in place, so sharing them is fine.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([]EnrichedRow, len(d.Rows)),
	}
	copy(out.Rows, d.Rows)
	return out
}

// WithColumns returns a clone that also carries names, kept in canonical order.
func (d Dataset) WithColumns(names ...string) Dataset {
	out := d.Clone()
	present := map[string]bool{}
	for _, c := range out.Columns {
		present[c] = true
	}
	for _, n := range names {
		present[n] = true
	}
	cols := make([]string, 0, len(present))
	for _, c := range AllColumns {
		if present[c] {
			cols = append(cols, c)
			delete(present, c)
		}
	}
	out.Columns = cols
	return out
}

// Texts returns the source text column.
func (d Dataset) Texts() []string {
	out := make([]string, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.Text
	}
	return out
}

// Summaries returns the source summary column.
func (d Dataset) Summaries() []string {
	out := make([]string, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.Summary
	}
	return out
}

func StrPtr(s string) *string { return &s }

func FloatPtr(f float64) *float64 { return &f }
