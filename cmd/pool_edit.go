package cmd

import (
	"github.com/spf13/cobra"
	"github.com/veldt-labs/sponsorctl/internal/domain"
)

func newPoolCreateCmd(app *app) *cobra.Command {
	var draft draftFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new sponsor pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := app.poolManager(cmd)
			if err != nil {
				return err
			}

			manager.CreatePool(cmd.Context(), draft.toDraft())
			return app.flush(cmd)
		},
	}

	draft.register(cmd, true)

	return cmd
}

func newPoolEditCmd(app *app) *cobra.Command {
	var draft draftFlags

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the selected pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := app.poolManager(cmd)
			if err != nil {
				return err
			}

			manager.EditPool(cmd.Context(), draft.toDraft())
			return app.flush(cmd)
		},
	}

	draft.register(cmd, false)

	return cmd
}

func newPoolDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the selected pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := app.poolManager(cmd)
			if err != nil {
				return err
			}

			manager.DeletePool(cmd.Context())
			return app.flush(cmd)
		},
	}
}

// draftFlags collects the pool form fields shared by create and edit.
type draftFlags struct {
	name            string
	password        string
	confirmPassword string
	start           string
	end             string
	usageCap        float64
	whitelist       []string
	sponsorInfo     string
}

func (f *draftFlags) register(cmd *cobra.Command, withPassword bool) {
	cmd.Flags().StringVar(&f.name, "name", "", "Pool name")
	cmd.Flags().StringVar(&f.start, "start", "", "Start of the pool window (e.g. 2026-04-01T10:00)")
	cmd.Flags().StringVar(&f.end, "end", "", "End of the pool window")
	cmd.Flags().Float64Var(&f.usageCap, "usage-cap", 0, "Per-address usage cap in Credits")
	cmd.Flags().StringSliceVar(&f.whitelist, "whitelist", nil, "Whitelisted wallet addresses (repeatable or comma-separated)")
	cmd.Flags().StringVar(&f.sponsorInfo, "sponsor-info", "", "Sponsor display text")

	if withPassword {
		cmd.Flags().StringVar(&f.password, "password", "", "Pool password")
		cmd.Flags().StringVar(&f.confirmPassword, "confirm-password", "", "Pool password confirmation")
	}
}

func (f *draftFlags) toDraft() domain.PoolDraft {
	return domain.PoolDraft{
		Name:            f.name,
		Password:        f.password,
		ConfirmPassword: f.confirmPassword,
		Start:           f.start,
		End:             f.end,
		UsageCap:        f.usageCap,
		Whitelist:       domain.CleanWhitelist(f.whitelist),
		SponsorInfo:     f.sponsorInfo,
	}
}
