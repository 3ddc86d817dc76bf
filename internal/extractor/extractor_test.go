package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"textqa-enrich/internal/dataset"
	"textqa-enrich/internal/types"
)

func corpus(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `{"text":"t%d","summary":"s%d","extra":%d}`+"\n", i, i, i)
	}
	return sb.String()
}

func TestExtractHonoursLimit(t *testing.T) {
	recs, err := Extract(context.Background(), strings.NewReader(corpus(150)), 100)
	require.NoError(t, err)
	require.Len(t, recs, 100)
	for i, r := range recs {
		assert.Equal(t, fmt.Sprintf("t%d", i), r.Text)
		assert.Equal(t, fmt.Sprintf("s%d", i), r.Summary)
	}
}

func TestExtractStopsAtEOF(t *testing.T) {
	recs, err := Extract(context.Background(), strings.NewReader(corpus(3)), 100)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	// No trailing newline on the last line.
	recs, err = Extract(context.Background(), strings.NewReader(`{"text":"a"}`), 0)
	require.NoError(t, err)
	assert.Equal(t, []types.Record{{Text: "a"}}, recs)
}

func TestExtractDefaultsMissingFields(t *testing.T) {
	in := `{"text":"only text"}` + "\n" + `{"summary":null}` + "\n\n" + `{}` + "\n"
	recs, err := Extract(context.Background(), strings.NewReader(in), 10)
	require.NoError(t, err)
	assert.Equal(t, []types.Record{{Text: "only text"}, {}, {}}, recs)
}

func TestExtractBlankLinesDoNotCountTowardLimit(t *testing.T) {
	in := `{"text":"a"}` + "\n\n   \n" + `{"text":"b"}` + "\n" + `{"text":"c"}` + "\n"
	recs, err := Extract(context.Background(), strings.NewReader(in), 2)
	require.NoError(t, err)
	assert.Equal(t, []types.Record{{Text: "a"}, {Text: "b"}}, recs)
}

func TestExtractNormalizesCRLF(t *testing.T) {
	in := `{"text":"line one\r\nline two","summary":"x\r\ny"}` + "\n"
	recs, err := Extract(context.Background(), strings.NewReader(in), 0)
	require.NoError(t, err)
	assert.Equal(t, []types.Record{{Text: "line one\nline two", Summary: "x\ny"}}, recs)
}

func TestExtractMalformedLineIsFatal(t *testing.T) {
	in := `{"text":"ok"}` + "\n" + `{"text": broken` + "\n" + `{"text":"never"}` + "\n"
	recs, err := Extract(context.Background(), strings.NewReader(in), 10)
	require.Error(t, err)
	assert.Nil(t, recs)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}

func TestExtractRejectsNonObjectsAndWrongTypes(t *testing.T) {
	for _, in := range []string{`[1,2]`, `"text"`, `{"text": 5}`} {
		_, err := Extract(context.Background(), strings.NewReader(in), 10)
		assert.Error(t, err, in)
	}
}

func TestExtractLongLine(t *testing.T) {
	long := strings.Repeat("ë", 200000)
	recs, err := Extract(context.Background(), strings.NewReader(`{"text":"`+long+`"}`), 1)
	require.NoError(t, err)
	assert.Equal(t, long, recs[0].Text)
}

func TestExtractFileWritesDataset(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "data.jsonl")
	out := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(in, []byte(corpus(5)), 0o644))
	require.NoError(t, os.WriteFile(out, []byte("stale\n"), 0o644))

	ds, err := ExtractFile(context.Background(), in, out, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())

	loaded, err := dataset.Load(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, []string{types.ColText, types.ColSummary}, loaded.Columns)
	assert.Equal(t, ds.Rows, loaded.Rows)
}

func TestExtractFileDoesNotWriteOnParseError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "data.jsonl")
	out := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(in, []byte("{nope\n"), 0o644))

	_, err := ExtractFile(context.Background(), in, out, 10)
	require.Error(t, err)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}
