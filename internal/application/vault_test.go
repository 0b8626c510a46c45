package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kekayan/runs-cli/internal/domain"
)

func newTestVault() (*Vault, *fakeSecretStore, *fakeStepUp, *fakeSettingsStore) {
	store := newFakeSecretStore()
	stepUp := &fakeStepUp{available: true}
	settings := newFakeSettingsStore()
	return NewVault(store, stepUp, settings), store, stepUp, settings
}

func TestVaultStoreReplacesExistingCredential(t *testing.T) {
	t.Parallel()

	vault, store, _, _ := newTestVault()
	ctx := context.Background()

	require.NoError(t, vault.Store(ctx, "token-old", false))
	require.NoError(t, vault.Store(ctx, "token-new", false))

	value, ok := store.stored(DefaultCredentialKey)
	require.True(t, ok)
	assert.Equal(t, "token-new", value)
}

func TestVaultStorePersistsStepUpPreference(t *testing.T) {
	t.Parallel()

	vault, _, _, settings := newTestVault()
	ctx := context.Background()

	require.NoError(t, vault.Store(ctx, "token", true))
	assert.True(t, settings.current().RequireStepUp)

	// Saving the same preference again must not rewrite settings.
	saves := settings.saves
	require.NoError(t, vault.Store(ctx, "token-2", true))
	assert.Equal(t, saves, settings.saves)
}

func TestVaultRetrieveMissingCredentialIsNotAnError(t *testing.T) {
	t.Parallel()

	vault, _, _, _ := newTestVault()

	credential, err := vault.Retrieve(context.Background(), false, "reason")
	require.NoError(t, err)
	assert.Empty(t, credential)
}

func TestVaultRetrieveChallengesOnlyWhenRequired(t *testing.T) {
	t.Parallel()

	vault, _, stepUp, _ := newTestVault()
	ctx := context.Background()
	require.NoError(t, vault.Store(ctx, "token", false))

	credential, err := vault.Retrieve(ctx, false, "reason")
	require.NoError(t, err)
	assert.Equal(t, "token", credential)
	assert.Zero(t, stepUp.challengeCount())

	credential, err = vault.Retrieve(ctx, true, "reason")
	require.NoError(t, err)
	assert.Equal(t, "token", credential)
	assert.Equal(t, 1, stepUp.challengeCount())
}

func TestVaultRetrieveWaivesStepUpWhenUnavailable(t *testing.T) {
	t.Parallel()

	vault, _, stepUp, _ := newTestVault()
	stepUp.available = false
	ctx := context.Background()
	require.NoError(t, vault.Store(ctx, "token", true))

	credential, err := vault.Retrieve(ctx, true, "reason")
	require.NoError(t, err)
	assert.Equal(t, "token", credential)
	assert.Zero(t, stepUp.challengeCount())
}

func TestVaultRetrieveFailedChallengeBlocksAccess(t *testing.T) {
	t.Parallel()

	vault, _, stepUp, _ := newTestVault()
	stepUp.err = errors.New("declined")
	ctx := context.Background()
	require.NoError(t, vault.Store(ctx, "token", true))

	_, err := vault.Retrieve(ctx, true, "reason")
	require.ErrorIs(t, err, domain.ErrStepUpFailed)
	assert.ErrorContains(t, err, "declined")
}

func TestVaultDeleteClearsCredentialAndPreference(t *testing.T) {
	t.Parallel()

	vault, store, _, settings := newTestVault()
	ctx := context.Background()
	require.NoError(t, vault.Store(ctx, "token", true))

	require.NoError(t, vault.Delete(ctx))

	_, ok := store.stored(DefaultCredentialKey)
	assert.False(t, ok)
	assert.False(t, settings.current().RequireStepUp)

	// Deleting again is a no-op for the fake backend.
	require.NoError(t, vault.Delete(ctx))
}

func TestVaultStepUpEnabledReadsSettings(t *testing.T) {
	t.Parallel()

	vault, _, _, settings := newTestVault()
	ctx := context.Background()

	assert.False(t, vault.StepUpEnabled(ctx))

	settings.settings.RequireStepUp = true
	assert.True(t, vault.StepUpEnabled(ctx))

	settings.loadErr = errors.New("disk gone")
	assert.False(t, vault.StepUpEnabled(ctx))
}
