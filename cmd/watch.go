package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	runsrender "github.com/kekayan/runs-cli/internal/adapters/render/runs"
	"github.com/kekayan/runs-cli/internal/application"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Refresh and render run status on an interval until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			orch := app.newOrchestrator(nil)
			if err := orch.RestoreSavedState(ctx); err != nil {
				return err
			}
			if !orch.IsAuthenticated() {
				return errNotAuthenticated
			}

			render := func() {
				output, err := app.renderer(orch.Snapshot(), runsrender.RenderOptions{Now: app.now()})
				if err != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "render: %v\n", err)
					return
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
			}

			render()

			scheduler := application.NewScheduler(app.refreshInterval)
			scheduler.Start(func(tickCtx context.Context) {
				if err := orch.RefreshRuns(tickCtx); err != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "refresh: %v\n", err)
				}
				render()
			})
			defer scheduler.Stop()

			<-ctx.Done()
			return nil
		},
	}
}
