package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lldpgraph/internal/config"
	"lldpgraph/internal/ui"
)

func newInitCmd(o *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: `Write the default settings to the --config path, or to
~/.config/lldpgraph/config.yaml, ready to be edited. Passwords are not
written: keep them in TACACS_PASS and TACACS_SECRET or a .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.Output = cmd.OutOrStdout()

			path := o.cfgFile
			if path == "" {
				path = config.DefaultConfigPath()
			}

			if _, err := os.Stat(path); err == nil && !force {
				err := fmt.Errorf("%s already exists", path)
				fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError(err.Error(), "", "use --force to overwrite it"))
				return reported(err)
			}

			cfg := config.DefaultConfig()
			cfg.Credentials.Password = ""
			cfg.Credentials.Secret = ""
			if err := cfg.Save(path); err != nil {
				return err
			}

			ui.Success(fmt.Sprintf("Created %s", path))
			fmt.Fprintf(ui.Output, "Next step: %s\n", ui.Bold("lldpgraph -i hosts.txt"))
			fmt.Fprintf(ui.Output, "           %s\n", ui.Hint("or edit "+path+" to fine-tune your config"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}
