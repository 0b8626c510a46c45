package ports

import (
	"context"

	"github.com/kekayan/runs-cli/internal/domain"
)

// ActionsService is the typed surface over the GitHub REST API consumed by
// the session orchestrator.
type ActionsService interface {
	FetchUser(ctx context.Context, token string) (domain.User, error)
	FetchRepositories(ctx context.Context, token string) ([]domain.Repository, error)

	// FetchLatestRun returns nil with no error when the repository has no
	// workflow runs.
	FetchLatestRun(ctx context.Context, repo domain.Repository, token string) (*domain.Run, error)

	// FetchLatestRuns fans out FetchLatestRun across all repositories and
	// waits for every fetch. Any error other than the swallowed not-found
	// fails the aggregate. Results are sorted by creation time descending.
	FetchLatestRuns(ctx context.Context, repos []domain.Repository, token string) ([]domain.Run, error)
}
