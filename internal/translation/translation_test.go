package translation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"textqa-enrich/internal/batcher"
	"textqa-enrich/internal/types"
)

// upperClient uppercases texts and fails any batch containing "FAIL".
type upperClient struct {
	calls [][]string
	froms []string
}

func (c *upperClient) Translate(_ context.Context, batch []string, from, _ string) ([]string, error) {
	c.calls = append(c.calls, append([]string(nil), batch...))
	c.froms = append(c.froms, from)
	out := make([]string, len(batch))
	for i, s := range batch {
		if s == "FAIL" {
			return nil, errors.New("service unavailable")
		}
		out[i] = strings.ToUpper(s)
	}
	return out, nil
}

func TestTranslateEmptyInputMakesNoCall(t *testing.T) {
	c := &upperClient{}
	res := New(c, batcher.Limits{}).Translate(context.Background(), nil, "sq", "en")
	assert.Empty(t, res.Texts)
	assert.NotNil(t, res.Texts)
	assert.Empty(t, c.calls)
}

func TestTranslateAlignsOutput(t *testing.T) {
	c := &upperClient{}
	in := []string{"a", "b", "c", "d", "e"}
	res := New(c, batcher.Limits{MaxItems: 2}).Translate(context.Background(), in, "sq", "en")

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, res.Texts)
	assert.Len(t, c.calls, 3)
	assert.Zero(t, res.Failed())
}

func TestTranslateFailedBatchDegrades(t *testing.T) {
	c := &upperClient{}
	in := []string{"a", "b", "FAIL", "x", "y"}
	res := New(c, batcher.Limits{MaxItems: 2}).Translate(context.Background(), in, "sq", "en")

	require.Len(t, res.Texts, len(in))
	assert.Equal(t, []string{"A", "B", "", "", "Y"}, res.Texts)
	require.Len(t, res.Batches, 3)
	assert.Equal(t, types.StatusFailed, res.Batches[1].Status)
	assert.Equal(t, 2, res.Batches[1].Start)
	assert.Equal(t, 1, res.Failed())
}

type shortClient struct{}

func (shortClient) Translate(_ context.Context, batch []string, _, _ string) ([]string, error) {
	return batch[:len(batch)-1], nil
}

func TestTranslateCountMismatchIsFailure(t *testing.T) {
	res := New(shortClient{}, batcher.Limits{}).Translate(context.Background(), []string{"a", "b"}, "sq", "en")
	assert.Equal(t, []string{"", ""}, res.Texts)
	assert.Equal(t, 1, res.Failed())
}

func TestTranslateAutoSource(t *testing.T) {
	c := &upperClient{}
	in := []string{"This is clearly an English sentence about the town hall meeting."}
	New(c, batcher.Limits{}).Translate(context.Background(), in, "auto", "de")
	require.Len(t, c.froms, 1)
	assert.Equal(t, "en", c.froms[0])

	assert.Equal(t, "sq", ResolveSource("sq", in))
	assert.Equal(t, "", ResolveSource("AUTO", []string{""}))
}

func TestMock(t *testing.T) {
	out, err := Mock{}.Translate(context.Background(), []string{"tekst", ""}, "sq", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"[en] tekst", ""}, out)
}
