package domain

import (
	"errors"
	"fmt"
)

var (
	// API error taxonomy. The gateway maps every response onto exactly one
	// of these; ErrUnauthorized is the only one with a destructive recovery
	// (forced logout) and ErrNotFound the only one ever swallowed.
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrNetwork          = errors.New("network error")
	ErrDecode           = errors.New("response decode error")

	// Credential vault.
	ErrCredentialNotFound = errors.New("credential not found")
	ErrStepUpFailed       = errors.New("step-up authentication failed")

	// OAuth flow.
	ErrInvalidCallback = errors.New("oauth callback missing authorization code")
	ErrNoToken         = errors.New("no access token received")

	ErrNotAuthenticated = errors.New("not authenticated")
)

// StatusError covers HTTP failure codes outside the named taxonomy.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected http status %d", e.StatusCode)
}

// OAuthError is an error reported by the token endpoint itself.
type OAuthError struct {
	Code        string
	Description string
}

func (e *OAuthError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("oauth error: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("oauth error: %s", e.Code)
}
