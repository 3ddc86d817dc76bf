package azure

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const translatorAPIVersion = "3.0"

// Translator calls the Azure Translator v3 /translate endpoint.
type Translator struct {
	endpoint string
	key      string
	region   string
	rest     *restClient
}

func NewTranslator(endpoint, key, region string, o Options) (*Translator, error) {
	if endpoint == "" || key == "" {
		return nil, fmt.Errorf("translator endpoint and key are required")
	}
	return &Translator{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		region:   region,
		rest:     newRESTClient("azure.translator", o),
	}, nil
}

type translateItem struct {
	Text string `json:"Text"`
}

type translateResult struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

// Translate sends one batch. An empty from lets the service detect the source language.
// An item the service returns without translations comes back as "".
func (t *Translator) Translate(ctx context.Context, batch []string, from, to string) ([]string, error) {
	q := url.Values{}
	q.Set("api-version", translatorAPIVersion)
	q.Set("to", to)
	if from != "" {
		q.Set("from", from)
	}
	endpoint := t.endpoint + "/translate?" + q.Encode()

	headers := map[string]string{
		"Ocp-Apim-Subscription-Key": t.key,
		"X-ClientTraceId":           uuid.New().String(),
	}
	if t.region != "" {
		headers["Ocp-Apim-Subscription-Region"] = t.region
	}

	body := make([]translateItem, len(batch))
	for i, s := range batch {
		body[i] = translateItem{Text: s}
	}

	var results []translateResult
	if err := t.rest.doJSON(ctx, endpoint, headers, body, &results); err != nil {
		return nil, fmt.Errorf("translate batch of %d: %w", len(batch), err)
	}
	if len(results) != len(batch) {
		return nil, fmt.Errorf("translate batch: got %d results for %d texts", len(results), len(batch))
	}
	out := make([]string, len(results))
	for i, r := range results {
		if len(r.Translations) > 0 {
			out[i] = r.Translations[0].Text
		}
	}
	return out, nil
}
