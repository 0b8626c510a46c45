package application

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/kekayan/runs-cli/internal/domain"
	"github.com/kekayan/runs-cli/internal/ports"
)

// FlowState is the OAuth controller's position in the login flow.
type FlowState string

const (
	FlowIdle             FlowState = "idle"
	FlowAwaitingCallback FlowState = "awaiting_callback"
	FlowExchangingCode   FlowState = "exchanging_code"
	FlowAuthenticated    FlowState = "authenticated"
	FlowFailed           FlowState = "failed"
)

// CallbackFunc receives a redirect callback URL.
type CallbackFunc func(rawURL string)

// OAuthController owns the redirect-callback race. The redirect arrives on
// its own schedule, possibly before any consumer is listening, so the
// controller keeps a single-slot mailbox: an unconsumed URL is buffered and
// a newer arrival replaces it, last write wins. Registering a consumer
// drains the slot exactly once.
type OAuthController struct {
	mu       sync.Mutex
	flow     ports.OAuthFlow
	browser  ports.BrowserOpener
	consumer CallbackFunc
	pending  string
	buffered bool
	state    FlowState
}

func NewOAuthController(flow ports.OAuthFlow, browser ports.BrowserOpener) *OAuthController {
	return &OAuthController{
		flow:    flow,
		browser: browser,
		state:   FlowIdle,
	}
}

// BeginFlow hands the authorization URL to the browser and starts waiting
// for the redirect.
func (c *OAuthController) BeginFlow() error {
	authURL, err := c.flow.AuthorizationURL()
	if err != nil {
		return fmt.Errorf("build authorization url: %w", err)
	}

	if err := c.browser.Open(authURL); err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	c.mu.Lock()
	c.state = FlowAwaitingCallback
	c.mu.Unlock()

	return nil
}

// HandleRedirect accepts a callback URL whenever it arrives. With a
// registered consumer the URL is delivered immediately and synchronously;
// without one it is buffered, replacing any older unconsumed URL.
func (c *OAuthController) HandleRedirect(rawURL string) {
	c.mu.Lock()
	consumer := c.consumer
	if consumer == nil {
		c.pending = rawURL
		c.buffered = true
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	consumer(rawURL)
}

// RegisterConsumer installs the delivery callback, replacing any previous
// one. A buffered URL is delivered immediately, exactly once.
func (c *OAuthController) RegisterConsumer(consumer CallbackFunc) {
	c.mu.Lock()
	c.consumer = consumer
	deliver := c.buffered && consumer != nil
	pending := c.pending
	if deliver {
		c.pending = ""
		c.buffered = false
	}
	c.mu.Unlock()

	if deliver {
		consumer(pending)
	}
}

// CompleteFlow extracts the authorization code from the callback URL and
// exchanges it for a credential.
func (c *OAuthController) CompleteFlow(ctx context.Context, rawURL string) (string, error) {
	c.setState(FlowExchangingCode)

	code, err := parseCallbackCode(rawURL)
	if err != nil {
		c.setState(FlowFailed)
		return "", err
	}

	credential, err := c.flow.ExchangeCode(ctx, code)
	if err != nil {
		c.setState(FlowFailed)
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}

	c.setState(FlowAuthenticated)
	return credential, nil
}

func (c *OAuthController) State() FlowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *OAuthController) setState(state FlowState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

func parseCallbackCode(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidCallback, err)
	}

	code := parsed.Query().Get("code")
	if code == "" {
		return "", domain.ErrInvalidCallback
	}

	return code, nil
}
