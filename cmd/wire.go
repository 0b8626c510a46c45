package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	browseradapter "github.com/kekayan/runs-cli/internal/adapters/browser"
	githubadapter "github.com/kekayan/runs-cli/internal/adapters/github"
	oauthadapter "github.com/kekayan/runs-cli/internal/adapters/oauth"
	runsrender "github.com/kekayan/runs-cli/internal/adapters/render/runs"
	chainstore "github.com/kekayan/runs-cli/internal/adapters/secrets/chain"
	settingsadapter "github.com/kekayan/runs-cli/internal/adapters/settings"
	stepupadapter "github.com/kekayan/runs-cli/internal/adapters/stepup"
	"github.com/kekayan/runs-cli/internal/application"
	"github.com/kekayan/runs-cli/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	vault           *application.Vault
	actions         ports.ActionsService
	settings        ports.SettingsStore
	secretStore     ports.SecretStore
	browser         ports.BrowserOpener
	renderer        func(application.Session, runsrender.RenderOptions) (string, error)
	login           loginConfig
	refreshInterval time.Duration
	httpClient      *http.Client
	now             func() time.Time
}

type loginConfig struct {
	AuthorizeURL string
	TokenURL     string
	ClientID     string
	ClientSecret string
	ListenAddr   string
	Timeout      time.Duration
}

func wireApp() (*app, error) {
	settingsStore, err := settingsadapter.NewStore(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire settings store: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(filepath.Join(homeDir, ".runs", "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	vault := application.NewVault(secretStore, stepupadapter.NewTTY(), settingsStore)

	client := githubadapter.NewClient(
		envOrDefault("RUNS_GITHUB_API_URL", githubadapter.DefaultBaseURL),
		http.DefaultClient,
		os.Stderr,
	)

	return &app{
		vault:       vault,
		actions:     githubadapter.NewService(client),
		settings:    settingsStore,
		secretStore: secretStore,
		browser:     browseradapter.Opener{},
		renderer:    runsrender.Render,
		login: loginConfig{
			AuthorizeURL: envOrDefault("RUNS_AUTH_AUTHORIZE_URL", oauthadapter.DefaultAuthorizeURL),
			TokenURL:     envOrDefault("RUNS_AUTH_TOKEN_URL", oauthadapter.DefaultTokenURL),
			ClientID:     envOrDefault("RUNS_GITHUB_CLIENT_ID", "Ov23liiRWGLaXVGnEIN0"),
			ClientSecret: envOrDefault("RUNS_GITHUB_CLIENT_SECRET", "94d4e79d6867dcaf19e9593e65279617af5552d3"),
			ListenAddr:   envOrDefault("RUNS_AUTH_LISTEN", "127.0.0.1:8976"),
			Timeout:      5 * time.Minute,
		},
		refreshInterval: envDurationOrDefault("RUNS_REFRESH_INTERVAL", application.DefaultRefreshInterval),
		httpClient:      http.DefaultClient,
		now:             time.Now,
	}, nil
}

func (a *app) newOrchestrator(oauth *application.OAuthController) *application.Orchestrator {
	return application.NewOrchestrator(a.vault, a.actions, oauth, a.settings, ports.SystemClock{})
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
