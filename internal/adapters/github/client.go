package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/kekayan/runs-cli/internal/domain"
)

const (
	DefaultBaseURL = "https://api.github.com"

	apiVersion        = "2022-11-28"
	rateLimitLowWater = 10
	maxResponseBytes  = 4 << 20
)

// Client executes authenticated requests against one REST backend and maps
// every outcome onto the domain error taxonomy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	warn       io.Writer
}

func NewClient(baseURL string, httpClient *http.Client, warn io.Writer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if warn == nil {
		warn = os.Stderr
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		warn:       warn,
	}
}

type Request struct {
	Endpoint string
	Method   string
	Body     []byte
	Token    string
	Headers  map[string]string
}

// Do performs the request and decodes a 2xx body as T. Timestamps decode
// per RFC 3339 through encoding/json's time.Time handling.
func Do[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var zero T

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Endpoint, body)
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-GitHub-Api-Version", apiVersion)
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return zero, fmt.Errorf("%w: perform request: %w", domain.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return zero, fmt.Errorf("%w: read response: %w", domain.ErrNetwork, err)
	}

	c.checkRateLimit(resp.Header)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		var decoded T
		if err := json.Unmarshal(data, &decoded); err != nil {
			return zero, fmt.Errorf("%w: %s %s: %w", domain.ErrDecode, method, req.Endpoint, err)
		}
		return decoded, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return zero, fmt.Errorf("%s %s: %w", method, req.Endpoint, domain.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		return zero, fmt.Errorf("%s %s: %w", method, req.Endpoint, domain.ErrForbidden)
	case resp.StatusCode == http.StatusNotFound:
		return zero, fmt.Errorf("%s %s: %w", method, req.Endpoint, domain.ErrNotFound)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return zero, fmt.Errorf("%s %s: %w", method, req.Endpoint, domain.ErrValidationFailed)
	default:
		return zero, fmt.Errorf("%s %s: %w", method, req.Endpoint, &domain.StatusError{StatusCode: resp.StatusCode})
	}
}

// checkRateLimit warns when the remaining quota drops below the low-water
// mark. Observability only; control flow never changes.
func (c *Client) checkRateLimit(header http.Header) {
	raw := header.Get("X-RateLimit-Remaining")
	if raw == "" {
		return
	}

	remaining, err := strconv.Atoi(raw)
	if err != nil || remaining >= rateLimitLowWater {
		return
	}

	_, _ = fmt.Fprintf(c.warn, "warning: GitHub API rate limit low, %d requests remaining\n", remaining)
}
