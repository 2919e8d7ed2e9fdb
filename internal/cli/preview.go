package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/passmatic/passmatic/internal/output"
)

func NewPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [diff-file]",
		Short: "Render the question comment for a local diff without posting",
		Long:  "Read a unified diff from a file, or from stdin when the file is omitted or \"-\", and print the comment that issue would post.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.Config.ValidateOracle(); err != nil {
				return err
			}

			var raw []byte
			if len(args) == 0 || args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read diff: %w", err)
			}

			// Progress lines go to stderr so stdout is just the comment.
			issuer := app.Issuer()
			issuer.UI = output.New(cmd.ErrOrStderr())
			res, err := issuer.Compose(cmd.Context(), string(raw))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Body)
			return err
		},
	}
	return cmd
}
