// Package answer picks the best extractive answer for a generated question.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"textqa-enrich/internal/logger"
	"textqa-enrich/internal/types"
)

// Candidate is one answer span proposed by the QA service.
type Candidate struct {
	Text       string
	Confidence float64
}

// Client is an extractive question-answering service over a single document.
type Client interface {
	Answer(ctx context.Context, question, passage string) ([]Candidate, error)
}

// Answer is the chosen span and the service's confidence in it.
type Answer struct {
	Text       string
	Confidence float64
}

type Answerer struct {
	client Client
	log    *logrus.Entry
}

func New(client Client) *Answerer {
	return &Answerer{
		client: client,
		log:    logger.New().WithField("component", "answerer"),
	}
}

// Answer asks question against passage. Absent or blank inputs are skipped without a call.
// Failures are logged and reported in the outcome, never returned as errors.
func (a *Answerer) Answer(ctx context.Context, question, passage *string) types.Outcome[Answer] {
	if question == nil || strings.TrimSpace(*question) == "" {
		return types.Skipped[Answer]("no question")
	}
	if passage == nil || strings.TrimSpace(*passage) == "" {
		return types.Skipped[Answer]("no context")
	}

	cands, err := a.client.Answer(ctx, *question, *passage)
	if err != nil {
		a.log.WithError(err).WithField("question", *question).Warn("answering failed")
		return types.Failed[Answer](err)
	}
	best, ok := Best(cands)
	if !ok {
		return types.Empty[Answer]("no candidates")
	}
	if strings.TrimSpace(best.Text) == "" {
		return types.Empty[Answer]("best candidate is blank")
	}
	return types.OK(Answer{Text: best.Text, Confidence: best.Confidence})
}

// Best returns the candidate with the highest confidence. On ties the first one wins.
func Best(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return best, true
}

// FormatConfidence renders a confidence with two decimals, or "N/A" when absent.
func FormatConfidence(c *float64) string {
	if c == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *c)
}

// Mock answers with the first sentence of the passage. It is used for offline runs.
type Mock struct{}

func (Mock) Answer(_ context.Context, _ string, passage string) ([]Candidate, error) {
	s := strings.TrimSpace(passage)
	if i := strings.IndexAny(s, ".!?"); i >= 0 {
		s = s[:i+1]
	}
	if s == "" {
		return nil, nil
	}
	return []Candidate{{Text: s, Confidence: 0.5}}, nil
}
