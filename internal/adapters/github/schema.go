package github

import (
	"fmt"
	"time"

	"github.com/kekayan/runs-cli/internal/domain"
)

type userPayload struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Email     string `json:"email"`
}

func (p userPayload) toDomain() domain.User {
	return domain.User{
		ID:        domain.UserID(p.ID),
		Login:     p.Login,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		Email:     p.Email,
	}
}

type ownerPayload struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

type repositoryPayload struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	FullName      string       `json:"full_name"`
	Owner         ownerPayload `json:"owner"`
	DefaultBranch string       `json:"default_branch"`
	Private       bool         `json:"private"`
}

func (p repositoryPayload) toDomain() domain.Repository {
	return domain.Repository{
		ID:            domain.RepositoryID(p.ID),
		Name:          p.Name,
		FullName:      p.FullName,
		Owner:         domain.RepositoryOwner{ID: p.Owner.ID, Login: p.Owner.Login},
		DefaultBranch: p.DefaultBranch,
		Private:       p.Private,
	}
}

type runRepositoryPayload struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type runPayload struct {
	ID         int64                `json:"id"`
	Name       string               `json:"name"`
	HeadSHA    string               `json:"head_sha"`
	Status     string               `json:"status"`
	Conclusion string               `json:"conclusion"`
	CreatedAt  time.Time            `json:"created_at"`
	HTMLURL    string               `json:"html_url"`
	Repository runRepositoryPayload `json:"repository"`
}

func (p runPayload) toDomain() (domain.Run, error) {
	status, err := domain.ParseRunStatus(p.Status)
	if err != nil {
		return domain.Run{}, fmt.Errorf("%w: run %d: %w", domain.ErrDecode, p.ID, err)
	}

	conclusion, err := domain.ParseRunConclusion(p.Conclusion)
	if err != nil {
		return domain.Run{}, fmt.Errorf("%w: run %d: %w", domain.ErrDecode, p.ID, err)
	}

	return domain.Run{
		ID:         domain.RunID(p.ID),
		Name:       p.Name,
		HeadSHA:    p.HeadSHA,
		Status:     status,
		Conclusion: conclusion,
		CreatedAt:  p.CreatedAt,
		HTMLURL:    p.HTMLURL,
		Repository: domain.RunRepository{Name: p.Repository.Name, FullName: p.Repository.FullName},
	}, nil
}

type workflowRunsPayload struct {
	TotalCount   int          `json:"total_count"`
	WorkflowRuns []runPayload `json:"workflow_runs"`
}
