package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStepUpCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stepup",
		Short: "Manage the confirmation gate on credential retrieval",
	}

	cmd.AddCommand(
		newStepUpSetCmd(app, "enable", true),
		newStepUpSetCmd(app, "disable", false),
		newStepUpShowCmd(app),
	)

	return cmd
}

func newStepUpSetCmd(app *app, use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: use + " the step-up confirmation before credential retrieval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.settings.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			settings.RequireStepUp = enabled
			if err := app.settings.Save(cmd.Context(), settings); err != nil {
				return fmt.Errorf("save settings: %w", err)
			}

			if enabled {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Step-up confirmation enabled.")
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Step-up confirmation disabled.")
			}

			return nil
		},
	}
}

func newStepUpShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current step-up preference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.settings.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			state := "disabled"
			if settings.RequireStepUp {
				state = "enabled"
			}

			availability := "terminal confirmation available"
			if !app.vault.StepUpAvailable() {
				availability = "no terminal attached; challenges are waived"
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "step-up: %s (%s)\n", state, availability)
			return nil
		},
	}
}
