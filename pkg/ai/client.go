package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"meraki-api/config"
	"meraki-api/internal/domain"

	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of a failed response is echoed into errors.
const maxErrorBody = 512

// Client calls the agent service that hosts the crews.
type Client struct {
	BaseURL     string
	APIKey      string
	HTTP        *http.Client
	MaxAttempts int

	limiter *rate.Limiter
	backoff func(attempt int) time.Duration
}

func NewClient(cfg config.AIConfig) *Client {
	return &Client{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		HTTP:        &http.Client{Timeout: cfg.Timeout},
		MaxAttempts: cfg.MaxAttempts,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		backoff:     func(i int) time.Duration { return time.Duration(1<<i) * time.Second },
	}
}

type kickoffRequest struct {
	Inputs map[string]any `json:"inputs"`
}

// StatusError is returned when the agent service answers with a non-200 status.
type StatusError struct {
	Crew   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("agent service returned %d for crew %s: %s", e.Status, e.Crew, e.Body)
}

// Kickoff runs crew with inputs and waits for its output. The call blocks
// for as long as the crew runs.
func (c *Client) Kickoff(ctx context.Context, crew string, inputs map[string]any) (*domain.CrewOutput, error) {
	body, err := json.Marshal(kickoffRequest{Inputs: inputs})
	if err != nil {
		return nil, err
	}

	path := "/v1/crews/" + url.PathEscape(crew) + "/kickoff"
	slog.Debug("ai.client: kickoff", "crew", crew, "inputs", len(inputs))

	resp, err := c.doPostWithRetry(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("kickoff %s: %w", crew, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", crew, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := string(respBytes)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &StatusError{Crew: crew, Status: resp.StatusCode, Body: msg}
	}

	var out domain.CrewOutput
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", crew, err)
	}
	slog.Debug("ai.client: kickoff done", "crew", crew, "raw_len", len(out.Raw), "tasks", len(out.Tasks))
	return &out, nil
}

// doPostWithRetry performs an HTTP POST to the given path, retrying with
// exponential backoff only when the request never reached the agent service.
// Timeouts and HTTP error statuses are final, since the crew may already be
// running.
func (c *Client) doPostWithRetry(ctx context.Context, path string, body []byte) (*http.Response, error) {
	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.APIKey)
		}

		resp, err := c.HTTP.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		slog.Warn("ai.client: request failed", "path", path, "attempt", i+1, "error", err)
		if !undelivered(err) {
			return nil, err
		}

		if i < attempts-1 {
			wait := time.Second
			if c.backoff != nil {
				wait = c.backoff(i)
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// undelivered reports whether err was raised while connecting, before any
// bytes of the request were sent.
func undelivered(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
