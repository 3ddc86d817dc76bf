package question

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"textqa-enrich/internal/llm"
	"textqa-enrich/internal/types"
)

type fakeLLM struct {
	out     string
	err     error
	prompts []string
	params  []llm.Params
}

func (f *fakeLLM) Complete(_ context.Context, prompt string, p llm.Params) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.params = append(f.params, p)
	return f.out, f.err
}

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"fenced", "```json\n{\"question\": \"Who won?\"}\n```", "Who won?", false},
		{"surrounding prose", "Sure!\n```json\n{\"question\": \" Why? \"}\n```\nHope that helps.", "Why?", false},
		{"first block wins", "```json\n{\"question\": \"A?\"}\n```\n```json\n{\"question\": \"B?\"}\n```", "A?", false},
		{"crlf", "```json\r\n{\"question\": \"C?\"}\r\n```", "C?", false},
		{"bare json is not fenced", `{"question": "Who?"}`, "", true},
		{"other fence label", "```yaml\nquestion: x\n```", "", true},
		{"invalid json", "```json\n{question: x}\n```", "", true},
		{"missing field", "```json\n{\"q\": \"x\"}\n```", "", true},
		{"blank field", "```json\n{\"question\": \"  \"}\n```", "", true},
		{"non-string field", "```json\n{\"question\": 3}\n```", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGenerateSkipsAbsentOrBlank(t *testing.T) {
	f := &fakeLLM{}
	g := New(f)

	assert.Equal(t, types.StatusSkipped, g.Generate(context.Background(), nil).Status)
	assert.Equal(t, types.StatusSkipped, g.Generate(context.Background(), types.StrPtr(" \n")).Status)
	assert.Empty(t, f.prompts)
}

func TestGenerateRequest(t *testing.T) {
	f := &fakeLLM{out: "```json\n{\"question\": \"What happened?\"}\n```"}
	out := New(f).Generate(context.Background(), types.StrPtr("The council met."))

	require.True(t, out.Ok())
	assert.Equal(t, "What happened?", out.Value)
	require.Len(t, f.prompts, 1)
	assert.Equal(t, "Based on the following text, suggest a question that could be asked about it. "+
		"Respond with a JSON object containing a single field 'question'.\n\nThe council met.", f.prompts[0])
	assert.Equal(t, llm.Params{Temperature: 0.1, MaxTokens: 100}, f.params[0])
}

func TestGenerateOutcomes(t *testing.T) {
	text := types.StrPtr("Some text.")

	out := New(&fakeLLM{err: errors.New("boom")}).Generate(context.Background(), text)
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Nil(t, out.Ptr())

	out = New(&fakeLLM{out: "  "}).Generate(context.Background(), text)
	assert.Equal(t, types.StatusFailed, out.Status)

	out = New(&fakeLLM{out: "I cannot help with that."}).Generate(context.Background(), text)
	assert.Equal(t, types.StatusEmpty, out.Status)
	assert.NotEmpty(t, out.Reason)
}

func TestGenerateWithMock(t *testing.T) {
	out := New(llm.Mock{}).Generate(context.Background(), types.StrPtr("Rain is expected tomorrow."))
	require.True(t, out.Ok())
	assert.Contains(t, out.Value, "Rain is expected tomorrow.")
}
