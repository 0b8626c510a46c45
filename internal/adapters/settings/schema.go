package settings

import (
	"fmt"

	"github.com/kekayan/runs-cli/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int             `toml:"version"`
	Selection selectionSchema `toml:"selection"`
	Security  securitySchema  `toml:"security"`
}

type selectionSchema struct {
	RepositoryIDs []int64 `toml:"repository_ids"`
}

type securitySchema struct {
	RequireStepUp bool `toml:"require_step_up"`
}

func (f *fileSchema) applyDefaults() {
	if f.Version == 0 {
		f.Version = currentSchemaVersion
	}
}

func (f fileSchema) validateVersion() error {
	if f.Version != 0 && f.Version != currentSchemaVersion {
		return fmt.Errorf("unsupported settings schema version %d", f.Version)
	}
	return nil
}

func toSchema(settings domain.Settings) fileSchema {
	ids := make([]int64, 0, len(settings.Selected))
	for _, id := range settings.Selected.IDs() {
		ids = append(ids, int64(id))
	}

	return fileSchema{
		Version:   currentSchemaVersion,
		Selection: selectionSchema{RepositoryIDs: ids},
		Security:  securitySchema{RequireStepUp: settings.RequireStepUp},
	}
}

func fromSchema(file fileSchema) domain.Settings {
	selected := make(domain.Selection, len(file.Selection.RepositoryIDs))
	for _, id := range file.Selection.RepositoryIDs {
		selected[domain.RepositoryID(id)] = struct{}{}
	}

	return domain.Settings{
		Selected:      selected,
		RequireStepUp: file.Security.RequireStepUp,
	}
}
