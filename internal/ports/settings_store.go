package ports

import (
	"context"

	"github.com/kekayan/runs-cli/internal/domain"
)

// SettingsStore persists the non-secret local state. Load returns zero-value
// settings when nothing has been saved yet.
type SettingsStore interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
	Clear(ctx context.Context) error
}
