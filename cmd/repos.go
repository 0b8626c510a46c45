package cmd

import (
	"fmt"
	"strconv"

	"github.com/kekayan/runs-cli/internal/application"
	"github.com/kekayan/runs-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newReposCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "Manage which repositories are watched",
	}

	cmd.AddCommand(newReposListCmd(app), newReposToggleCmd(app))

	return cmd
}

func newReposListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your repositories; [x] marks watched ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch := app.newOrchestrator(nil)
			if err := orch.RestoreSavedState(cmd.Context()); err != nil {
				return err
			}
			if !orch.IsAuthenticated() {
				return errNotAuthenticated
			}

			session := orch.Snapshot()
			for _, repo := range session.Repositories {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s\n",
					selectionMarker(session, repo.ID), repo.ID, repo.FullName)
			}

			return nil
		},
	}
}

func newReposToggleCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <owner/name|id>",
		Short: "Start or stop watching a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch := app.newOrchestrator(nil)
			if err := orch.RestoreSavedState(cmd.Context()); err != nil {
				return err
			}
			if !orch.IsAuthenticated() {
				return errNotAuthenticated
			}

			session := orch.Snapshot()
			repo, err := resolveRepository(session, args[0])
			if err != nil {
				return err
			}

			selected, err := orch.ToggleRepositorySelection(cmd.Context(), repo.ID)
			if err != nil {
				return err
			}

			if selected {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", repo.FullName)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stopped watching %s\n", repo.FullName)
			}

			return nil
		},
	}
}

func resolveRepository(session application.Session, raw string) (domain.Repository, error) {
	for _, repo := range session.Repositories {
		if repo.FullName == raw {
			return repo, nil
		}
	}

	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		for _, repo := range session.Repositories {
			if repo.ID == domain.RepositoryID(id) {
				return repo, nil
			}
		}
	}

	return domain.Repository{}, fmt.Errorf("unknown repository %q", raw)
}
