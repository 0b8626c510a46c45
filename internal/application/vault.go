package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kekayan/runs-cli/internal/domain"
	"github.com/kekayan/runs-cli/internal/ports"
)

// DefaultCredentialKey names the single stored credential entry.
const DefaultCredentialKey = "runs/github-token"

// Vault stores the one bearer credential, optionally gated by a step-up
// challenge on retrieval. The step-up preference itself is ordinary,
// non-secret state and lives in the settings store.
type Vault struct {
	writeMu  sync.Mutex
	store    ports.SecretStore
	stepUp   ports.StepUpAuthenticator
	settings ports.SettingsStore
	key      string
}

func NewVault(store ports.SecretStore, stepUp ports.StepUpAuthenticator, settings ports.SettingsStore) *Vault {
	return &Vault{
		store:    store,
		stepUp:   stepUp,
		settings: settings,
		key:      DefaultCredentialKey,
	}
}

// Store replaces any prior credential and records the step-up preference.
// Writes are serialized; login success and logout must not interleave.
func (v *Vault) Store(ctx context.Context, credential string, requireStepUp bool) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	// Replace semantics: clear any prior entry first. A failed delete of a
	// missing entry must not block the write.
	_ = v.store.Delete(ctx, v.key)

	if err := v.store.Put(ctx, v.key, credential); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}

	if err := v.saveStepUpPreference(ctx, requireStepUp); err != nil {
		return err
	}

	return nil
}

// Retrieve returns the empty string with no error when nothing is stored.
// The step-up challenge runs only when it is both required and available;
// an unavailable authenticator waives the requirement.
func (v *Vault) Retrieve(ctx context.Context, requireStepUp bool, reason string) (string, error) {
	if requireStepUp && v.stepUp.Available() {
		if err := v.stepUp.Challenge(ctx, reason); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrStepUpFailed, err)
		}
	}

	credential, err := v.store.Get(ctx, v.key)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("retrieve credential: %w", err)
	}

	return credential, nil
}

// Delete removes the credential and clears the step-up preference. A
// missing entry is not an error.
func (v *Vault) Delete(ctx context.Context) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	if err := v.store.Delete(ctx, v.key); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}

	if err := v.saveStepUpPreference(ctx, false); err != nil {
		return err
	}

	return nil
}

func (v *Vault) StepUpEnabled(ctx context.Context) bool {
	settings, err := v.settings.Load(ctx)
	if err != nil {
		return false
	}
	return settings.RequireStepUp
}

func (v *Vault) StepUpAvailable() bool {
	return v.stepUp.Available()
}

func (v *Vault) saveStepUpPreference(ctx context.Context, requireStepUp bool) error {
	settings, err := v.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings.RequireStepUp == requireStepUp {
		return nil
	}

	settings.RequireStepUp = requireStepUp
	if err := v.settings.Save(ctx, settings); err != nil {
		return fmt.Errorf("save step-up preference: %w", err)
	}

	return nil
}
