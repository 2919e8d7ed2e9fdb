package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/passmatic/passmatic/internal/config"
	"github.com/passmatic/passmatic/internal/workflow"
)

func NewWorkflowCmd() *cobra.Command {
	var (
		outputPath string
		version    string
		force      bool
		stdout     bool
	)

	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Generate the GitHub Actions workflow that runs passmatic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			cfg := workflow.Config{
				Provider:   app.Config.Oracle.Provider,
				Model:      app.Config.Oracle.Model,
				Format:     app.Format.Version(),
				Version:    version,
				AuthorOnly: app.Config.Grade.AuthorOnly,
			}
			if cfg.Model == config.Defaults().Oracle.Model {
				cfg.Model = ""
			}

			if stdout {
				content, err := workflow.Generate(cfg)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			if _, err := os.Stat(outputPath); err == nil && !force {
				ok, err := confirm(cmd, fmt.Sprintf("%s exists. Overwrite? [y/N] ", outputPath))
				if err != nil {
					return err
				}
				if !ok {
					app.UI.Warning("Kept existing %s", outputPath)
					return nil
				}
				force = true
			}
			if err := workflow.Write(cfg, outputPath, force); err != nil {
				return err
			}
			app.UI.Success("Wrote %s", outputPath)
			app.UI.Step("Add a repository secret named %s", workflow.SecretName(cfg.Provider))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", workflow.DefaultPath, "Where to write the workflow")
	cmd.Flags().StringVar(&version, "version", "", "Pin the passmatic release the workflow installs (e.g. v0.4.1)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing workflow without asking")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the workflow instead of writing it")
	return cmd
}
