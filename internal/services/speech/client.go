package speech

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"voxscribe/internal/recognize"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultBaseURL     = "http://www.google.com/speech-api/v2/recognize"
	maxErrorBody       = 512
)

// Config captures the endpoint settings.
type Config struct {
	BaseURL         string
	APIKey          string
	ProfanityFilter bool
	TimeoutSeconds  int
}

// Client calls the speech endpoint. It satisfies recognize.Backend.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a speech client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:         strings.TrimSpace(cfg.BaseURL),
			APIKey:          strings.TrimSpace(cfg.APIKey),
			ProfanityFilter: cfg.ProfanityFilter,
			TimeoutSeconds:  cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	return client
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("speech request: http %d", e.StatusCode)
	}
	return fmt.Sprintf("speech request: http %d: %s", e.StatusCode, body)
}

type response struct {
	Result []struct {
		Alternative []struct {
			Transcript string   `json:"transcript"`
			Confidence *float64 `json:"confidence"`
		} `json:"alternative"`
		Final bool `json:"final"`
	} `json:"result"`
	ResultIndex int `json:"result_index"`
}

// Recognize posts req and returns the best transcript. It returns
// recognize.ErrUnintelligible when the endpoint found no speech.
func (c *Client) Recognize(ctx context.Context, req recognize.Request) (string, error) {
	endpoint, err := c.endpoint(req.Language)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(req.PCM))
	if err != nil {
		return "", fmt.Errorf("speech request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "audio/l16; rate="+strconv.Itoa(recognize.RequestSampleRate)+";")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &httpStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return parseResponse(resp.Body)
}

func (c *Client) endpoint(lang string) (string, error) {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("speech request: invalid base url: %w", err)
	}
	q := base.Query()
	q.Set("client", "chromium")
	q.Set("lang", lang)
	if c.cfg.APIKey != "" {
		q.Set("key", c.cfg.APIKey)
	}
	if c.cfg.ProfanityFilter {
		q.Set("pFilter", "1")
	} else {
		q.Set("pFilter", "0")
	}
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// parseResponse picks the first non-empty result line. The endpoint emits an
// empty {"result":[]} line before the real one.
func parseResponse(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var payload response
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			return "", fmt.Errorf("speech response: %w", err)
		}
		if len(payload.Result) == 0 {
			continue
		}
		alternatives := payload.Result[0].Alternative
		if len(alternatives) == 0 {
			return "", recognize.ErrUnintelligible
		}
		best := alternatives[0]
		for _, alt := range alternatives {
			if alt.Confidence != nil {
				best = alt
				break
			}
		}
		return best.Transcript, nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("speech response: %w", err)
	}
	return "", recognize.ErrUnintelligible
}
