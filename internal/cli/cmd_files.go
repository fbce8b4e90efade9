package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations, then run post-migrate hooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("migrate does not accept positional arguments")
			}
			a, err := deps.openApp(cmd.Context())
			if err != nil {
				return mapCommandError(err)
			}
			defer a.Close()

			if err := a.Migrate(cmd.Context()); err != nil {
				return mapCommandError(err)
			}
			_, err = fmt.Fprintln(deps.out, "Migrations applied.")
			return mapCommandError(err)
		},
	}
}

func newCreateFilesCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "create-files [app_label.ModelName ...]",
		Short: "Create files for all models that are file-backed",
		Long: "Create files for all file-backed models.\n" +
			"Optionally give specific models as dotted strings in 'app.Model' form.\n" +
			"Without arguments every file-backed model is processed.",
		Example: "  filesify create-files\n" +
			"  filesify create-files app.Config app.Secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := deps.openApp(cmd.Context())
			if err != nil {
				return mapCommandError(err)
			}
			defer a.Close()

			return mapCommandError(a.Manager().CreateFiles(cmd.Context(), deps.out, args...))
		},
	}
}
