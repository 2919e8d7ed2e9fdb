package cli

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/passmatic/passmatic/internal/config"
)

func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check gh, authentication and oracle configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "passmatic doctor")
			if !app.Config.Mock.Enabled {
				if err := app.GH.CheckInstalled(app.Config.GitHub.Command); err != nil {
					return err
				}
				fmt.Fprintln(out, "- gh: ok")
			}
			if err := app.GH.AuthStatus(ctx); err != nil {
				return fmt.Errorf("gh is not authenticated: %w", err)
			}
			fmt.Fprintln(out, "- gh auth: ok")

			if err := app.Config.ValidateOracle(); err != nil {
				return err
			}
			if app.Config.Oracle.Provider == config.ProviderClaudeCLI && !app.Config.Mock.Enabled {
				if _, err := exec.LookPath(app.Config.Oracle.Command); err != nil {
					return fmt.Errorf("oracle command not found: %s", app.Config.Oracle.Command)
				}
			}
			fmt.Fprintf(out, "- oracle (%s): ok\n", app.Config.Oracle.Provider)
			fmt.Fprintf(out, "- comment format: %s (%d question(s))\n", app.Format.Version(), app.Format.Arity())
			fmt.Fprintln(out, "doctor checks passed")
			return nil
		},
	}
	return cmd
}
