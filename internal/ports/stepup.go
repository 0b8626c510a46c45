package ports

import "context"

// StepUpAuthenticator is a local proof-of-presence check gating credential
// retrieval. Availability gates enforcement: callers waive the challenge
// when Available reports false.
type StepUpAuthenticator interface {
	Available() bool
	Challenge(ctx context.Context, reason string) error
}
