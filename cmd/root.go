package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sponsorctl",
		Short:         "sponsorctl: manage sponsor credit pools from the terminal",
		Long:          "sponsorctl manages sponsor credit pools on a credit-sponsorship service: connect a wallet, create and edit pools, whitelist addresses, sponsor credits, and watch pool windows from the terminal.",
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
		newWalletCmd(app),
		newPoolCmd(app),
	)

	return rootCmd
}
