package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "runs",
		Short:         "runs: watch GitHub Actions build status from the terminal",
		Long:          "runs signs in to GitHub via OAuth, remembers which repositories you care about, and shows the latest workflow run for each of them.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newReposCmd(app),
		newWatchCmd(app),
		newStepUpCmd(app),
	)

	return rootCmd
}
