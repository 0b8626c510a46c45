package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/kekayan/runs-cli/internal/domain"
	"github.com/kekayan/runs-cli/internal/ports"
)

const reposPerPage = 100

// Service is the typed layer over Client.
type Service struct {
	client *Client
}

var _ ports.ActionsService = (*Service)(nil)

func NewService(client *Client) *Service {
	return &Service{client: client}
}

func (s *Service) FetchUser(ctx context.Context, token string) (domain.User, error) {
	payload, err := Do[userPayload](ctx, s.client, Request{Endpoint: "/user", Token: token})
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}

	return payload.toDomain(), nil
}

// FetchRepositories requests a single page of the most recently updated
// repositories. Accounts with more than 100 repositories see only the first
// page; there is no pagination.
func (s *Service) FetchRepositories(ctx context.Context, token string) ([]domain.Repository, error) {
	endpoint := fmt.Sprintf("/user/repos?sort=updated&per_page=%d", reposPerPage)
	payload, err := Do[[]repositoryPayload](ctx, s.client, Request{Endpoint: endpoint, Token: token})
	if err != nil {
		return nil, fmt.Errorf("fetch repositories: %w", err)
	}

	repos := make([]domain.Repository, 0, len(payload))
	for _, entry := range payload {
		repos = append(repos, entry.toDomain())
	}

	return repos, nil
}

// FetchLatestRun requests the most recent run only. A not-found response
// means the repository has no runs and maps to nil, not an error.
func (s *Service) FetchLatestRun(ctx context.Context, repo domain.Repository, token string) (*domain.Run, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/actions/runs?per_page=1",
		url.PathEscape(repo.Owner.Login), url.PathEscape(repo.Name))

	payload, err := Do[workflowRunsPayload](ctx, s.client, Request{Endpoint: endpoint, Token: token})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch latest run for %s: %w", repo.FullName, err)
	}

	if len(payload.WorkflowRuns) == 0 {
		return nil, nil
	}

	run, err := payload.WorkflowRuns[0].toDomain()
	if err != nil {
		return nil, fmt.Errorf("fetch latest run for %s: %w", repo.FullName, err)
	}

	return &run, nil
}

// FetchLatestRuns fans out one request per repository and joins on all of
// them. The aggregate fails if any single fetch fails; the not-found case
// is already absorbed by FetchLatestRun.
func (s *Service) FetchLatestRuns(ctx context.Context, repos []domain.Repository, token string) ([]domain.Run, error) {
	results := make([]*domain.Run, len(repos))
	errs := make([]error, len(repos))

	var wg sync.WaitGroup
	for i, repo := range repos {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.FetchLatestRun(ctx, repo, token)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	runs := make([]domain.Run, 0, len(results))
	for _, run := range results {
		if run != nil {
			runs = append(runs, *run)
		}
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })

	return runs, nil
}
