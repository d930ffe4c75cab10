package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"
)

const (
	// APIBaseURL is the Discord REST endpoint the client talks to.
	APIBaseURL = "https://discord.com/api/v10"

	userAgent = "DiscordBot (summary-bot, v0.5)"

	// defaultRetryWait is used when a 429 response carries no usable
	// retry_after field.
	defaultRetryWait = time.Second

	// defaultMaxAttempts bounds the rate-limit retry loop. High enough
	// that it never triggers in practice; tests set a small value.
	defaultMaxAttempts = 50

	// postRetries and postRetryDelay govern non-429 send failures; the
	// delay doubles with each failure and carries jitter.
	postRetries    = 3
	postRetryDelay = 2 * time.Second
)

// Client is a minimal rate-limited Discord REST client. On 429 it
// sleeps for the server-advertised retry_after and repeats the request;
// other GET failures surface as errors that callers treat as "unknown,
// assume not found", and other POST failures are retried a bounded
// number of times before giving up.
type Client struct {
	Token   string
	BaseURL string
	HTTP    *http.Client

	// MaxAttempts bounds the 429 retry loop. Zero means the default.
	MaxAttempts int

	// Sleep is swappable in tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

// NewClient creates a client for the given bot token.
func NewClient(token string) *Client {
	return &Client{
		Token:   token,
		BaseURL: APIBaseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) sleep(d time.Duration) {
	if c.Sleep != nil {
		c.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (c *Client) maxAttempts() int {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return defaultMaxAttempts
}

type rateLimitResponse struct {
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after"`
}

// retryWait extracts the server-advertised wait from a 429 body.
func retryWait(body []byte) time.Duration {
	var rl rateLimitResponse
	if err := json.Unmarshal(body, &rl); err != nil || rl.RetryAfter <= 0 {
		return defaultRetryWait
	}
	return time.Duration(rl.RetryAfter * float64(time.Second))
}

// jitter adds up to 25% random slack so concurrent deployments don't
// retry in lockstep.
func jitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Int63n(int64(d)/4+1))
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	req.Header.Set("Authorization", "Bot "+c.Token)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// Get performs a rate-limited GET and decodes the JSON response into
// out. Non-429 failures are returned to the caller; they must be
// treated as "unknown", never as fatal.
func (c *Client) Get(path string, out any) error {
	for attempt := 0; attempt < c.maxAttempts(); attempt++ {
		req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
		if err != nil {
			return fmt.Errorf("failed to build request for %s: %w", path, err)
		}

		status, body, err := c.do(req)
		if err != nil {
			return fmt.Errorf("request to %s failed: %w", path, err)
		}
		if status == http.StatusTooManyRequests {
			wait := retryWait(body)
			log.Printf("Rate limited on GET %s. Sleeping for %v.", path, wait)
			c.sleep(wait)
			continue
		}
		if status >= 400 {
			return fmt.Errorf("GET %s returned status %d", path, status)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("GET %s: rate-limit retries exhausted", path)
}

// Post performs a rate-limited POST and decodes the JSON response into
// out. 429 responses are always retried after the advertised wait;
// other failures are retried a bounded number of times with a short
// backoff before the error is reported to the caller.
func (c *Client) Post(path string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload for %s: %w", path, err)
	}

	failures := 0
	for attempt := 0; attempt < c.maxAttempts(); attempt++ {
		req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to build request for %s: %w", path, err)
		}

		status, body, err := c.do(req)
		if err == nil && status == http.StatusTooManyRequests {
			wait := retryWait(body)
			log.Printf("Rate limited on POST %s. Sleeping for %v.", path, wait)
			c.sleep(wait)
			continue
		}
		if err != nil || status >= 400 {
			failures++
			if failures >= postRetries {
				if err != nil {
					return fmt.Errorf("POST %s failed after %d attempts: %w", path, failures, err)
				}
				return fmt.Errorf("POST %s failed after %d attempts: status %d", path, failures, status)
			}
			log.Printf("Error sending POST %s (attempt %d/%d), retrying...", path, failures, postRetries)
			c.sleep(jitter(postRetryDelay << (failures - 1)))
			continue
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("POST %s: rate-limit retries exhausted", path)
}
