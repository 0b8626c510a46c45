package ports

import "context"

// OAuthFlow covers the HTTP mechanics of the authorization-code flow; the
// controller owning the callback state machine drives it.
type OAuthFlow interface {
	AuthorizationURL() (string, error)
	ExchangeCode(ctx context.Context, code string) (string, error)
}
