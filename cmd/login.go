package cmd

import (
	"errors"
	"fmt"
	"sync"
	"time"

	oauthadapter "github.com/kekayan/runs-cli/internal/adapters/oauth"
	"github.com/kekayan/runs-cli/internal/application"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in to GitHub via the browser OAuth flow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowserLogin(cmd, app)
		},
	}
}

func runBrowserLogin(cmd *cobra.Command, app *app) error {
	// The callback server must be listening before the flow can be built,
	// because the redirect URI depends on the bound port. No redirect can
	// legitimately arrive before the browser is opened, which happens after
	// the controller is in place.
	var (
		controllerMu sync.Mutex
		controller   *application.OAuthController
	)

	server, err := oauthadapter.StartCallbackServer(app.login.ListenAddr, func(rawURL string) {
		controllerMu.Lock()
		c := controller
		controllerMu.Unlock()
		if c != nil {
			c.HandleRedirect(rawURL)
		}
	})
	if err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}
	defer func() { _ = server.Close() }()

	flow, err := oauthadapter.NewFlow(oauthadapter.Config{
		AuthorizeURL: app.login.AuthorizeURL,
		TokenURL:     app.login.TokenURL,
		ClientID:     app.login.ClientID,
		ClientSecret: app.login.ClientSecret,
		RedirectURI:  server.RedirectURI(),
	}, app.httpClient)
	if err != nil {
		return fmt.Errorf("build oauth flow: %w", err)
	}

	controllerMu.Lock()
	controller = application.NewOAuthController(flow, app.browser)
	controllerMu.Unlock()

	orch := app.newOrchestrator(controller)

	done := make(chan error, 1)
	controller.RegisterConsumer(func(rawURL string) {
		done <- orch.HandleOAuthCallback(cmd.Context(), rawURL)
	})

	authURL, err := flow.AuthorizationURL()
	if err != nil {
		return fmt.Errorf("build authorization url: %w", err)
	}

	if err := orch.Login(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Opening your browser to sign in. If nothing happens, visit:\n%s\n", authURL)

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-time.After(app.login.Timeout):
		return errors.New("timed out waiting for the oauth callback")
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}

	session := orch.Snapshot()
	if session.User != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Authenticated as %s\n", session.User.Login)
	}

	return nil
}
