package cli

import (
	"fmt"

	"github.com/dmitrijs2005/filesify/internal/auth"
	"github.com/dmitrijs2005/filesify/internal/buildinfo"
	"github.com/dmitrijs2005/filesify/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newAdminCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin listing of file-backed models",
	}
	cmd.AddCommand(newAdminServeCommand(deps), newAdminTokenCommand(deps))
	return cmd
}

func newAdminServeCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin listing over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("admin serve does not accept positional arguments")
			}
			if deps.cfg.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			a, err := deps.openApp(cmd.Context())
			if err != nil {
				return mapCommandError(err)
			}
			defer a.Close()

			return mapCommandError(a.ServeAdmin(cmd.Context()))
		},
	}
}

func newAdminTokenCommand(deps *commandDeps) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the admin listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("admin token does not accept positional arguments")
			}
			if username == "" {
				return usageErrorf("--user must not be empty")
			}
			tok, err := auth.GenerateToken(username, []byte(deps.cfg.AdminSecret), deps.cfg.AdminTokenTTL)
			if err != nil {
				return mapCommandError(err)
			}
			_, err = fmt.Fprintln(deps.out, tok)
			return mapCommandError(err)
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "admin", "user name recorded in the token")
	return cmd
}

func newKeygenCommand(deps *commandDeps) *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Print a random hex string usable as passphrase or admin secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("keygen does not accept positional arguments")
			}
			if size <= 0 {
				return usageErrorf("--bytes must be positive")
			}
			s, err := common.MakeRandHexString(size)
			if err != nil {
				return mapCommandError(err)
			}
			_, err = fmt.Fprintln(deps.out, s)
			return mapCommandError(err)
		},
	}

	cmd.Flags().IntVar(&size, "bytes", 32, "number of random bytes")
	return cmd
}

func newVersionCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("version does not accept positional arguments")
			}
			buildinfo.PrintBuildData(deps.out)
			return nil
		},
	}
}
