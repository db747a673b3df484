package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/veldt-labs/sponsorctl/internal/adapters/wallet"
	"github.com/veldt-labs/sponsorctl/internal/ports"
)

func newWalletCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the wallet connection",
	}

	cmd.AddCommand(
		newWalletConnectCmd(app),
		newWalletDisconnectCmd(app),
		newWalletStatusCmd(app),
	)

	return cmd
}

func newWalletConnectCmd(app *app) *cobra.Command {
	var strategy string
	var keyfile string

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect a wallet and start a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keyfile != "" {
				app.registry.Register(wallet.KeyfileStrategyName, func() (ports.WalletStrategy, error) {
					return wallet.NewKeyfileStrategy(keyfile)
				})
			}

			app.sessionService().Connect(cmd.Context(), strategy)
			return app.flush(cmd)
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", wallet.KeyfileStrategyName,
		fmt.Sprintf("Wallet backend (%s)", strings.Join(app.registry.Names(), ", ")))
	cmd.Flags().StringVar(&keyfile, "keyfile", "", "Path to an Arweave JWK key file (default "+app.keyfilePath+")")

	return cmd
}

func newWalletDisconnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect the wallet and clear the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.sessionService().Disconnect(cmd.Context())
			return app.flush(cmd)
		},
	}
}

func newWalletStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the wallet session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.sessionService().Current(cmd.Context())
			if err != nil {
				return err
			}

			if !session.Connected {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "connected: false")
				return nil
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "connected: true")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "address: %s\n", session.Address)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "strategy: %s\n", session.Strategy)
			if session.HasSelection() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "selected pool: %s\n", session.SelectedPool)
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "selected pool: none")
			}
			return nil
		},
	}
}
