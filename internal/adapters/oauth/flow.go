package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/kekayan/runs-cli/internal/domain"
	"github.com/kekayan/runs-cli/internal/ports"
)

const (
	DefaultAuthorizeURL = "https://github.com/login/oauth/authorize"
	DefaultTokenURL     = "https://github.com/login/oauth/access_token"
	DefaultScopes       = "repo"

	maxTokenResponseBytes = 1 << 20
)

type Config struct {
	AuthorizeURL string
	TokenURL     string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       string
}

// Flow implements the authorization-code mechanics against GitHub's OAuth
// endpoints: the authorize URL and the JSON code-exchange request.
type Flow struct {
	cfg        Config
	httpClient *http.Client
}

var _ ports.OAuthFlow = (*Flow)(nil)

func NewFlow(cfg Config, httpClient *http.Client) (*Flow, error) {
	if cfg.AuthorizeURL == "" {
		cfg.AuthorizeURL = DefaultAuthorizeURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.Scopes == "" {
		cfg.Scopes = DefaultScopes
	}
	if cfg.ClientID == "" {
		return nil, errors.New("client id is required")
	}
	if cfg.RedirectURI == "" {
		return nil, errors.New("redirect uri is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Flow{cfg: cfg, httpClient: httpClient}, nil
}

func (f *Flow) AuthorizationURL() (string, error) {
	parsed, err := url.Parse(f.cfg.AuthorizeURL)
	if err != nil {
		return "", fmt.Errorf("parse authorize url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("authorize url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("authorize url host is required")
	}

	q := parsed.Query()
	q.Set("client_id", f.cfg.ClientID)
	q.Set("redirect_uri", f.cfg.RedirectURI)
	q.Set("scope", f.cfg.Scopes)
	parsed.RawQuery = q.Encode()

	return parsed.String(), nil
}

type tokenExchangeBody struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode posts the authorization code to the token endpoint. GitHub
// reports OAuth-level failures inside a 200 body, so the error field is
// checked before concluding no token was issued.
func (f *Flow) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", domain.ErrInvalidCallback
	}

	payload, err := json.Marshal(tokenExchangeBody{
		ClientID:     f.cfg.ClientID,
		ClientSecret: f.cfg.ClientSecret,
		Code:         code,
		RedirectURI:  f.cfg.RedirectURI,
	})
	if err != nil {
		return "", fmt.Errorf("encode token exchange body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.TokenURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create token exchange request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: exchange code: %w", domain.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint: %w", &domain.StatusError{StatusCode: resp.StatusCode})
	}

	var tokens tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTokenResponseBytes)).Decode(&tokens); err != nil {
		return "", fmt.Errorf("%w: token response: %w", domain.ErrDecode, err)
	}

	if tokens.AccessToken == "" {
		if tokens.Error != "" {
			return "", &domain.OAuthError{Code: tokens.Error, Description: tokens.ErrorDescription}
		}
		return "", domain.ErrNoToken
	}

	return tokens.AccessToken, nil
}
