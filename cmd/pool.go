package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/veldt-labs/sponsorctl/internal/adapters/render/pools"
	"github.com/veldt-labs/sponsorctl/internal/domain"
	"github.com/veldt-labs/sponsorctl/internal/watch"
)

func newPoolCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Manage sponsor credit pools",
	}

	cmd.AddCommand(
		newPoolListCmd(app),
		newPoolShowCmd(app),
		newPoolSelectCmd(app),
		newPoolCreateCmd(app),
		newPoolEditCmd(app),
		newPoolDeleteCmd(app),
		newPoolRevokeCmd(app),
		newPoolTopUpCmd(app),
		newPoolSponsorCmd(app),
		newPoolBalanceCmd(app),
		newPoolWalletCmd(app),
		newPoolWatchCmd(app),
	)

	return cmd
}

func newPoolListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pools with balances and time windows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := app.poolManager(cmd)
			if err != nil {
				return err
			}

			if err := runLoadSpinner(cmd.Context(), cmd.ErrOrStderr(), "Loading pools...", func() {
				manager.LoadPools(cmd.Context())
			}); err != nil {
				return err
			}

			if flushErr := app.flush(cmd); flushErr != nil {
				return flushErr
			}

			snapshot := manager.Snapshot()
			output, err := pools.Render(snapshot, pools.RenderOptions{Now: snapshot.Now})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
}

func newPoolShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [pool]",
		Short: "Show one pool in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := app.poolManager(cmd)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				manager.SelectPool(cmd.Context(), args[0])
			}

			selected, ok := manager.Selected()
			if flushErr := app.flush(cmd); flushErr != nil {
				return flushErr
			}
			if !ok {
				return fmt.Errorf("%w: pass a pool id or name, or run 'pool select'", domain.ErrNoPoolSelected)
			}

			snapshot := manager.Snapshot()
			for _, pool := range snapshot.Pools {
				if pool.ID == selected.ID {
					snapshot.Pools = []domain.Pool{pool}
					break
				}
			}

			output, err := pools.Render(snapshot, pools.RenderOptions{Now: snapshot.Now, Detailed: true})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
}

func newPoolSelectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select <pool>",
		Short: "Select a pool by id or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := app.poolManager(cmd)
			if err != nil {
				return err
			}

			manager.SelectPool(cmd.Context(), args[0])
			return app.flush(cmd)
		},
	}
}

func newPoolBalanceCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Refresh the selected pool's balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := app.poolManager(cmd)
			if err != nil {
				return err
			}

			manager.RefreshBalance(cmd.Context())
			if flushErr := app.flush(cmd); flushErr != nil {
				return flushErr
			}

			if selected, ok := manager.Selected(); ok && selected.Balance != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %.6f Credits\n", selected.Name, *selected.Balance)
			}
			return nil
		},
	}
}

func newPoolWatchCmd(app *app) *cobra.Command {
	var every string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously re-render pools on a schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := app.poolManager(cmd)
			if err != nil {
				return err
			}

			watcher := watch.NewWatcher(manager, cmd.OutOrStdout(), app.log)
			return watcher.Run(cmd.Context(), "@every "+every)
		},
	}

	cmd.Flags().StringVar(&every, "every", "30s", "Refresh interval")

	return cmd
}
