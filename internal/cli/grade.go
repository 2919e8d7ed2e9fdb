package cli

import (
	"github.com/spf13/cobra"

	"github.com/passmatic/passmatic/internal/passmatic"
)

func NewGradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade an !answer comment and approve the PR when it passes",
		Long: "Read the triggering comment from COMMENT_BODY, find the question comment " +
			"on the PR and grade every answer. Comments that do not start with !answer " +
			"are ignored. Exits non-zero when any answer fails.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.Config.ValidateGrade(); err != nil {
				return err
			}

			trigger := app.Config.Trigger
			out, err := app.Grader().Run(cmd.Context(), passmatic.Submission{
				PR:            trigger.PRNumber,
				Body:          trigger.CommentBody,
				CommentID:     trigger.CommentID,
				PRAuthor:      trigger.PRAuthor,
				CommentAuthor: trigger.CommentAuthor,
			})
			if err != nil {
				return err
			}
			if out.Skipped {
				app.UI.Step("Skipped: %s", out.SkipReason)
			}
			return nil
		},
	}
	return cmd
}
