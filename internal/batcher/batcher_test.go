package batcher

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchExample(t *testing.T) {
	got := Batch([]string{"ab", "cdefgh", "ij", "klmno"}, Limits{MaxItems: 2, MaxChars: 15})
	assert.Equal(t, [][]string{{"ab", "cdefgh"}, {"ij", "klmno"}}, got)
}

func TestBatchEmpty(t *testing.T) {
	assert.Empty(t, Batch(nil, Limits{}))
	assert.Empty(t, Batch([]string{}, Limits{MaxItems: 1, MaxChars: 1}))
}

func TestBatchCharLimit(t *testing.T) {
	got := Batch([]string{"aaaa", "bbbb", "cc", "d"}, Limits{MaxItems: 10, MaxChars: 8})
	assert.Equal(t, [][]string{{"aaaa", "bbbb"}, {"cc", "d"}}, got)
}

func TestBatchOversizeItemStandsAlone(t *testing.T) {
	long := strings.Repeat("x", 20)
	got := Batch([]string{"a", long, "b"}, Limits{MaxItems: 10, MaxChars: 5})
	assert.Equal(t, [][]string{{"a"}, {long}, {"b"}}, got)

	// A leading oversize item must not produce an empty batch before it.
	got = Batch([]string{long, "b"}, Limits{MaxItems: 10, MaxChars: 5})
	assert.Equal(t, [][]string{{long}, {"b"}}, got)
}

func TestBatchCountsRunes(t *testing.T) {
	// "ëëë" is 3 runes but 6 bytes.
	got := Batch([]string{"ëëë", "ççç"}, Limits{MaxItems: 10, MaxChars: 6})
	assert.Equal(t, [][]string{{"ëëë", "ççç"}}, got)
}

func TestBatchDefaults(t *testing.T) {
	items := make([]string, 250)
	for i := range items {
		items[i] = "x"
	}
	got := Batch(items, Limits{})
	require.Len(t, got, 3)
	assert.Len(t, got[0], 100)
	assert.Len(t, got[1], 100)
	assert.Len(t, got[2], 50)
}

func TestBatchKeepsEmptyItems(t *testing.T) {
	got := Batch([]string{"abc", "", "de"}, Limits{MaxItems: 10, MaxChars: 5})
	assert.Equal(t, [][]string{{"abc", "", "de"}}, got)
}

func TestBatchProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		items := make([]string, rng.Intn(60))
		for i := range items {
			items[i] = strings.Repeat("y", rng.Intn(30))
		}
		lim := Limits{MaxItems: 1 + rng.Intn(8), MaxChars: 1 + rng.Intn(60)}
		batches := Batch(items, lim)

		var flat []string
		for _, b := range batches {
			require.NotEmpty(t, b)
			assert.LessOrEqual(t, len(b), lim.MaxItems)
			chars := 0
			for _, s := range b {
				chars += utf8.RuneCountInString(s)
			}
			if len(b) > 1 {
				assert.LessOrEqual(t, chars, lim.MaxChars)
			}
			flat = append(flat, b...)
		}
		if len(items) == 0 {
			assert.Empty(t, flat)
			continue
		}
		assert.Equal(t, items, flat)
	}
}
