// Package translation translates a column of texts batch by batch.
package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"textqa-enrich/internal/aggregator"
	"textqa-enrich/internal/batcher"
	"textqa-enrich/internal/logger"
	"textqa-enrich/internal/types"
)

// Client translates one batch, returning one string per input in the same order.
type Client interface {
	Translate(ctx context.Context, batch []string, from, to string) ([]string, error)
}

// BatchOutcome records what happened to one batch.
type BatchOutcome struct {
	Start  int
	Size   int
	Status types.Status
	Err    error
}

// Result is positionally aligned with the input: len(Texts) == len(input) always.
type Result struct {
	Texts   []string
	Batches []BatchOutcome
}

// Failed counts the batches that degraded to empty strings.
func (r Result) Failed() int {
	n := 0
	for _, b := range r.Batches {
		if b.Status == types.StatusFailed {
			n++
		}
	}
	return n
}

type Translator struct {
	client Client
	limits batcher.Limits
	log    *logrus.Entry
}

func New(client Client, limits batcher.Limits) *Translator {
	return &Translator{
		client: client,
		limits: limits,
		log:    logger.New().WithField("component", "translator"),
	}
}

// Translate sends one request per batch, in order. A failed batch contributes empty strings
// for its items and the run carries on.
func (t *Translator) Translate(ctx context.Context, texts []string, from, to string) Result {
	res := Result{Texts: make([]string, 0, len(texts))}
	if len(texts) == 0 {
		return res
	}
	from = ResolveSource(from, texts)

	start := 0
	for i, batch := range batcher.Batch(texts, t.limits) {
		out, err := t.client.Translate(ctx, batch, from, to)
		if err == nil && len(out) != len(batch) {
			err = fmt.Errorf("got %d translations for %d texts", len(out), len(batch))
		}
		bo := BatchOutcome{Start: start, Size: len(batch), Status: types.StatusOK}
		if err != nil {
			t.log.WithError(err).WithFields(logrus.Fields{
				"batch": i,
				"start": start,
				"size":  len(batch),
			}).Warn("translation error for batch")
			out = make([]string, len(batch))
			bo.Status, bo.Err = types.StatusFailed, err
		}
		res.Texts = append(res.Texts, out...)
		res.Batches = append(res.Batches, bo)
		start += len(batch)
	}
	return res
}

// ResolveSource turns "auto" into a detected language code. It returns "" (let the service
// detect) when nothing could be detected.
func ResolveSource(from string, texts []string) string {
	if !strings.EqualFold(from, "auto") {
		return from
	}
	lang, _ := aggregator.DominantLanguage(texts)
	return lang
}

// Mock tags every text with the target language. It is used for offline runs.
type Mock struct{}

func (Mock) Translate(_ context.Context, batch []string, _, to string) ([]string, error) {
	out := make([]string, len(batch))
	for i, s := range batch {
		if s == "" {
			continue
		}
		out[i] = "[" + to + "] " + s
	}
	return out, nil
}
