// Package llm sends single-prompt completions to a language model.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Params are the sampling settings for one completion.
type Params struct {
	Temperature float64
	MaxTokens   int
}

// Completer turns a prompt into free-form model output.
type Completer interface {
	Complete(ctx context.Context, prompt string, p Params) (string, error)
}

// Mock answers every prompt with a fenced JSON question about the last paragraph of the
// prompt. It is used for offline runs.
type Mock struct{}

func (Mock) Complete(_ context.Context, prompt string, _ Params) (string, error) {
	text := prompt
	if i := strings.LastIndex(prompt, "\n\n"); i >= 0 {
		text = prompt[i+2:]
	}
	words := strings.Fields(text)
	if len(words) > 6 {
		words = words[:6]
	}
	q := fmt.Sprintf("What does the text say about %q?", strings.Join(words, " "))
	return fmt.Sprintf("```json\n{\"question\": %q}\n```", q), nil
}
