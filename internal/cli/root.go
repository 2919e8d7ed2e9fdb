package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/passmatic/passmatic/internal/config"
	"github.com/passmatic/passmatic/internal/logging"
	"github.com/passmatic/passmatic/internal/passmatic"
)

func NewRootCmd() *cobra.Command {
	var opts config.LoadOptions

	root := &cobra.Command{
		Use:           "passmatic",
		Short:         "Quiz pull request authors about their changes before merge",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app, err := initApp(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withApp(ctx, app))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to passmatic.yaml")
	root.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "Load environment variables from this file")

	root.AddCommand(NewIssueCmd())
	root.AddCommand(NewGradeCmd())
	root.AddCommand(NewPreviewCmd())
	root.AddCommand(NewWorkflowCmd())
	root.AddCommand(NewDoctorCmd())
	root.AddCommand(NewConfigCmd())

	return root
}

// Run executes the CLI and returns the process exit code. Every failure
// is reported here once.
func Run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	log := logging.Fallback(stderr)
	if cmd != nil {
		if app, appErr := getApp(cmd.Context()); appErr == nil {
			log = app.Log
		}
	}
	defer func() { _ = log.Sync() }()

	if err == nil {
		return 0
	}
	if errors.Is(err, passmatic.ErrGradingFailed) {
		log.Errorw("vibe check failed", "error", err)
	} else {
		log.Errorw("passmatic failed", "error", err)
	}
	return 1
}
