// Package azure talks to the Azure Translator and Azure Language question-answering REST APIs.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"textqa-enrich/internal/logger"
)

// StatusError is a non-2xx reply from a service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

// Options tune the REST plumbing shared by every client in this package.
type Options struct {
	// Timeout bounds one HTTP attempt.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint64
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	// InitialInterval overrides the first backoff wait (tests).
	InitialInterval time.Duration
}

type restClient struct {
	http    *http.Client
	timeout time.Duration
	retries uint64
	initial time.Duration
	log     *logrus.Entry
}

func newRESTClient(component string, o Options) *restClient {
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &restClient{
		http:    hc,
		timeout: timeout,
		retries: o.MaxRetries,
		initial: o.InitialInterval,
		log:     logger.New().WithField("component", component),
	}
}

// doJSON posts payload as JSON and decodes the reply into target, retrying transport errors,
// 5xx and 429 with exponential backoff. Other 4xx replies are not retried.
func (c *restClient) doJSON(ctx context.Context, url string, headers map[string]string, payload, target any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	var lastErr error
	op := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			c.log.WithError(err).Warn("request failed")
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 512)}
			c.log.WithField("http_status", resp.StatusCode).Warn("service returned error status")
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(lastErr)
			}
			return lastErr
		}
		if len(body) == 0 {
			lastErr = fmt.Errorf("empty body")
			return lastErr
		}
		if err := json.Unmarshal(body, target); err != nil {
			lastErr = fmt.Errorf("json decode error: %v body=%s", err, truncate(string(body), 512))
			return backoff.Permanent(lastErr)
		}
		lastErr = nil
		return nil
	}

	b := backoff.NewExponentialBackOff()
	if c.initial > 0 {
		b.InitialInterval = c.initial
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
