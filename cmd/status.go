package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	runsrender "github.com/kekayan/runs-cli/internal/adapters/render/runs"
	"github.com/kekayan/runs-cli/internal/application"
	"github.com/kekayan/runs-cli/internal/domain"
	"github.com/spf13/cobra"
)

var errNotAuthenticated = errors.New("not authenticated; run `runs login` first")

func newStatusCmd(app *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the latest workflow run for each watched repository",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch := app.newOrchestrator(nil)

			restore := func(ctx context.Context) error {
				return orch.RestoreSavedState(ctx)
			}

			var err error
			if jsonOutput {
				err = restore(cmd.Context())
			} else {
				err = runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching workflow runs...", restore)
			}
			if err != nil {
				return err
			}

			if !orch.IsAuthenticated() {
				return errNotAuthenticated
			}

			session := orch.Snapshot()
			if jsonOutput {
				return writeSessionJSON(cmd.OutOrStdout(), session)
			}

			output, err := app.renderer(session, runsrender.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output machine-readable JSON")

	return cmd
}

type userJSON struct {
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
}

type repositoryJSON struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

type runJSON struct {
	Repository string    `json:"repository"`
	Workflow   string    `json:"workflow"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion,omitempty"`
	HeadSHA    string    `json:"head_sha"`
	CreatedAt  time.Time `json:"created_at"`
	URL        string    `json:"url,omitempty"`
}

type sessionJSON struct {
	User        *userJSON        `json:"user,omitempty"`
	Selected    []repositoryJSON `json:"selected_repositories"`
	LatestRuns  []runJSON        `json:"latest_runs"`
	RefreshedAt *time.Time       `json:"refreshed_at,omitempty"`
}

func writeSessionJSON(out io.Writer, session application.Session) error {
	payload := sessionJSON{
		Selected:   make([]repositoryJSON, 0, len(session.Selected)),
		LatestRuns: make([]runJSON, 0, len(session.LatestRuns)),
	}

	if session.User != nil {
		payload.User = &userJSON{Login: session.User.Login, Name: session.User.Name}
	}
	if !session.LastRefresh.IsZero() {
		refreshedAt := session.LastRefresh
		payload.RefreshedAt = &refreshedAt
	}

	for _, repo := range session.Repositories {
		if session.Selected.Has(repo.ID) {
			payload.Selected = append(payload.Selected, repositoryJSON{
				ID:       int64(repo.ID),
				FullName: repo.FullName,
			})
		}
	}

	for _, run := range session.LatestRuns {
		payload.LatestRuns = append(payload.LatestRuns, runJSON{
			Repository: run.Repository.FullName,
			Workflow:   run.Name,
			Status:     string(run.Status),
			Conclusion: string(run.Conclusion),
			HeadSHA:    run.HeadSHA,
			CreatedAt:  run.CreatedAt,
			URL:        run.HTMLURL,
		})
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func selectionMarker(session application.Session, id domain.RepositoryID) string {
	if session.Selected.Has(id) {
		return "[x]"
	}
	return "[ ]"
}
