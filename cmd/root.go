package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ax",
		Short:         "Academix CLI (ax): search journals and keep a watchlist",
		Long:          "ax (Academix CLI) searches the journal catalog as you type, keeps a per-user watchlist of journals, and shows the Academix landing page in the terminal.",
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
		newSearchCmd(app),
		newWatchlistCmd(app),
		newCatalogCmd(app),
		newBrowseCmd(app),
	)

	return rootCmd
}
