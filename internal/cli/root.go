// Package cli is the filesify command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/filesify/internal/app"
	"github.com/dmitrijs2005/filesify/internal/common"
	"github.com/dmitrijs2005/filesify/internal/config"
	"github.com/spf13/cobra"
)

type commandDeps struct {
	cfg    *config.Config
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// openApp builds the application for one command run. The caller closes it.
func (d *commandDeps) openApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, d.cfg, app.Options{Out: d.out, LogOutput: d.errOut})
}

func NewRootCommand(cfg *config.Config, in io.Reader, out, errOut io.Writer) *cobra.Command {
	deps := &commandDeps{cfg: cfg, in: in, out: out, errOut: errOut}
	var askPassphrase bool

	cmd := &cobra.Command{
		Use:   "filesify",
		Short: "Keep files on disk in sync with database records",
		Long: "filesify stores records whose content is mirrored into a file at file_path.\n" +
			"Saving a record writes the file, deleting it removes the file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !askPassphrase {
				return nil
			}
			pw, err := GetPassphrase(errOut)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)
			cfg.EncryptionPassphrase = string(pw)
			return nil
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})

	config.BindFlags(cmd.PersistentFlags(), cfg)
	cmd.PersistentFlags().BoolVar(&askPassphrase, "ask-passphrase", false, "read the encryption passphrase from the terminal")

	cmd.AddCommand(
		newMigrateCommand(deps),
		newCreateFilesCommand(deps),
		newSaveCommand(deps),
		newDeleteCommand(deps),
		newListCommand(deps),
		newAdminCommand(deps),
		newKeygenCommand(deps),
		newVersionCommand(deps),
	)
	return cmd
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, cfg *config.Config, args []string, in io.Reader, out, errOut io.Writer) int {
	root := NewRootCommand(cfg, in, out, errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitCodeSuccess
	}
	fmt.Fprintln(errOut, "Error:", err)
	return exitCode(err)
}
