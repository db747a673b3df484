package cmd

import (
	"github.com/spf13/cobra"
)

func newPoolRevokeCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke <address>",
		Short: "Revoke a whitelisted address from the selected pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := app.poolManager(cmd)
			if err != nil {
				return err
			}

			manager.RevokeAccess(cmd.Context(), args[0])
			return app.flush(cmd)
		},
	}

	return cmd
}

func newPoolTopUpCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "topup",
		Short: "Top up the selected pool with AR",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := app.poolManager(cmd)
			if err != nil {
				return err
			}

			manager.TopUp(cmd.Context())
			return app.flush(cmd)
		},
	}
}

func newPoolSponsorCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sponsor",
		Short: "Sponsor credits to every whitelisted address",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := app.poolManager(cmd)
			if err != nil {
				return err
			}

			manager.SponsorCredits(cmd.Context())
			return app.flush(cmd)
		},
	}
}

func newPoolWalletCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Download the selected pool's wallet key file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := app.poolManager(cmd)
			if err != nil {
				return err
			}

			manager.DownloadWallet(cmd.Context(), output)
			return app.flush(cmd)
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Destination path (default pool-<id>-wallet.json)")

	return cmd
}
