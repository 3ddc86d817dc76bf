package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"textqa-enrich/internal/logger"
)

// ChatConfig describes an OpenAI-style chat completions endpoint.
type ChatConfig struct {
	// URL is the full chat completions URL for a gateway. Ignored when AzureEndpoint is set.
	URL    string
	APIKey string
	Model  string

	// Azure OpenAI: requests go to {AzureEndpoint}/openai/deployments/{Model}/chat/completions.
	AzureEndpoint string
	APIVersion    string

	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
	HTTPClient      *http.Client
}

// ChatClient calls an OpenAI-compatible gateway or an Azure OpenAI deployment.
type ChatClient struct {
	cfg      ChatConfig
	endpoint string
	azure    bool
	http     *http.Client
	log      *logrus.Entry
}

func NewChatClient(cfg ChatConfig) (*ChatClient, error) {
	c := &ChatClient{cfg: cfg, http: cfg.HTTPClient, log: logger.New().WithField("component", "llm-chat")}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.cfg.Timeout <= 0 {
		c.cfg.Timeout = 25 * time.Second
	}
	switch {
	case cfg.AzureEndpoint != "":
		if cfg.APIKey == "" || cfg.Model == "" {
			return nil, fmt.Errorf("azure openai: api key and deployment name are required")
		}
		c.azure = true
		c.endpoint = fmt.Sprintf("%s/openai/deployments/%s/chat/completions?%s",
			strings.TrimRight(cfg.AzureEndpoint, "/"),
			url.PathEscape(cfg.Model),
			url.Values{"api-version": {cfg.APIVersion}}.Encode())
	case cfg.URL != "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("llm gateway not configured: missing api key")
		}
		c.endpoint = cfg.URL
	default:
		return nil, fmt.Errorf("llm gateway not configured")
	}
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as a single user message and returns choices[0].message.content.
func (c *ChatClient) Complete(ctx context.Context, prompt string, p Params) (string, error) {
	reqBody := chatRequest{
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	}
	if !c.azure {
		reqBody.Model = c.cfg.Model
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	c.log.WithField("payload_len", len(data)).Debug("llm request")

	var content string
	var lastErr error

	// LLM call with retry/backoff
	op := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.endpoint, bytes.NewReader(data))
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.azure {
			req.Header.Set("api-key", c.cfg.APIKey)
		} else {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			c.log.WithError(err).Warn("llm request failed")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		c.log.WithField("http_status", resp.StatusCode).Debug("llm raw:\n" + string(body))

		if resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("llm http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				// Permanent: don't retry on client errors
				return backoff.Permanent(lastErr)
			}
			return lastErr
		}

		var parsed chatResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			lastErr = fmt.Errorf("decode llm response: %w", err)
			return backoff.Permanent(lastErr)
		}
		if len(parsed.Choices) == 0 {
			lastErr = fmt.Errorf("llm response has no choices")
			return backoff.Permanent(lastErr)
		}
		content = parsed.Choices[0].Message.Content
		lastErr = nil
		return nil
	}

	b := backoff.NewExponentialBackOff()
	if c.cfg.InitialInterval > 0 {
		b.InitialInterval = c.cfg.InitialInterval
	}
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, c.cfg.MaxRetries), ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return "", fmt.Errorf("llm completion failed: %w", lastErr)
	}
	return content, nil
}
