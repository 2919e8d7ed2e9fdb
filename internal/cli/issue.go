package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewIssueCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "issue [pr]",
		Short: "Ask the PR author questions about the diff",
		Long: "Fetch the PR diff, ask the oracle for questions with reference answers, " +
			"and post them as a comment. The PR defaults to PR_NUMBER.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				app.Config.Trigger.PRNumber = args[0]
			}
			if err := app.Config.ValidateIssue(); err != nil {
				return err
			}

			res, err := app.Issuer().Run(cmd.Context(), app.Config.Trigger.PRNumber, dryRun)
			if err != nil {
				return err
			}
			if dryRun {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Body)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the comment instead of posting it")
	return cmd
}
