// Package question asks a language model for one question per text.
package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"textqa-enrich/internal/llm"
	"textqa-enrich/internal/logger"
	"textqa-enrich/internal/types"
)

const instruction = "Based on the following text, suggest a question that could be asked about it. " +
	"Respond with a JSON object containing a single field 'question'."

// Params are the sampling settings used for every question request.
var Params = llm.Params{Temperature: 0.1, MaxTokens: 100}

var (
	jsonFence = regexp.MustCompile("(?s)```json(.*?)```")

	ErrNoFence       = errors.New("no fenced json block in response")
	ErrMissingField  = errors.New("json block has no non-blank 'question'")
	ErrEmptyResponse = errors.New("empty model response")
)

// Prompt builds the request text for one input.
func Prompt(text string) string {
	return instruction + "\n\n" + text
}

// Parse pulls the question out of the first ```json fenced block in raw.
func Parse(raw string) (string, error) {
	m := jsonFence.FindStringSubmatch(strings.ReplaceAll(raw, "\r\n", "\n"))
	if m == nil {
		return "", ErrNoFence
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &payload); err != nil {
		return "", fmt.Errorf("invalid json block: %w", err)
	}
	q, ok := payload["question"].(string)
	if !ok || strings.TrimSpace(q) == "" {
		return "", ErrMissingField
	}
	return strings.TrimSpace(q), nil
}

type Generator struct {
	llm llm.Completer
	log *logrus.Entry
}

func New(c llm.Completer) *Generator {
	return &Generator{llm: c, log: logger.New().WithField("component", "question")}
}

// Generate never returns an error; every non-ok outcome is logged and reported in the Outcome.
func (g *Generator) Generate(ctx context.Context, text *string) types.Outcome[string] {
	if text == nil || strings.TrimSpace(*text) == "" {
		return types.Skipped[string]("no text")
	}

	raw, err := g.llm.Complete(ctx, Prompt(*text), Params)
	if err != nil {
		g.log.WithError(err).Warn("question request failed")
		return types.Failed[string](err)
	}
	if strings.TrimSpace(raw) == "" {
		g.log.Warn("question request returned nothing")
		return types.Failed[string](ErrEmptyResponse)
	}

	q, err := Parse(raw)
	if err != nil {
		g.log.WithError(err).WithField("response_len", len(raw)).Info("no question in response")
		return types.Empty[string](err.Error())
	}
	return types.OK(q)
}
