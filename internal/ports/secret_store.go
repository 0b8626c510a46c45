package ports

import "context"

// SecretStore is a named secret backend. Get returns an error wrapping
// domain.ErrCredentialNotFound when the key has no entry.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
