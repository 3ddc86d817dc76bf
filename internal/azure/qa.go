package azure

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"textqa-enrich/internal/answer"
)

const qaAPIVersion = "2021-10-01"

// QA calls the Azure Language "query-text" API, which extracts answers from documents sent
// with the request.
type QA struct {
	endpoint string
	key      string
	language string
	rest     *restClient
}

func NewQA(endpoint, key, language string, o Options) (*QA, error) {
	if endpoint == "" || key == "" {
		return nil, fmt.Errorf("language service endpoint and key are required")
	}
	if language == "" {
		language = "en"
	}
	return &QA{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		language: language,
		rest:     newRESTClient("azure.qa", o),
	}, nil
}

type qaRecord struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type qaRequest struct {
	Question string     `json:"question"`
	Records  []qaRecord `json:"records"`
	Language string     `json:"language,omitempty"`
}

type qaResponse struct {
	Answers []struct {
		Answer          string  `json:"answer"`
		ConfidenceScore float64 `json:"confidenceScore"`
		ID              string  `json:"id"`
	} `json:"answers"`
}

// Answer asks question against a single document and returns every candidate span.
func (q *QA) Answer(ctx context.Context, question, passage string) ([]answer.Candidate, error) {
	endpoint := q.endpoint + "/language/:query-text?" + url.Values{"api-version": {qaAPIVersion}}.Encode()
	req := qaRequest{
		Question: question,
		Records:  []qaRecord{{ID: "1", Text: passage}},
		Language: q.language,
	}
	var resp qaResponse
	if err := q.rest.doJSON(ctx, endpoint, map[string]string{"Ocp-Apim-Subscription-Key": q.key}, req, &resp); err != nil {
		return nil, fmt.Errorf("query text: %w", err)
	}
	out := make([]answer.Candidate, 0, len(resp.Answers))
	for _, a := range resp.Answers {
		out = append(out, answer.Candidate{Text: a.Answer, Confidence: a.ConfidenceScore})
	}
	return out, nil
}
