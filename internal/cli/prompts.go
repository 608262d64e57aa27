package cli

import (
	"fmt"

	constants "github.com/ImGajeed76/charmglob/internal"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/config"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/console"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/glob"
	pathlib "github.com/ImGajeed76/charmglob/pkg/charmglob/path"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newOptionsCmd(a *app) *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Pick the compiler options interactively",
		Long:  "Pick the compiler options interactively and print them. With --save they are written to a config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.settings.GlobOptions()
			if err != nil {
				return err
			}
			chosen, err := console.PromptOptions(current)
			if err != nil {
				return err
			}

			if save != "" {
				if err := a.saveOptions(chosen, save); err != nil {
					return err
				}
			}
			printOptions(cmd, chosen)
			return nil
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "write the options to this config file")
	return cmd
}

func printOptions(cmd *cobra.Command, o glob.Options) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %t\n", config.KeyExtended, o.Extended)
	fmt.Fprintf(out, "%s: %t\n", config.KeyGlobstar, o.Globstar)
	fmt.Fprintf(out, "%s: %t\n", config.KeyCaseInsensitive, o.CaseInsensitive)
	fmt.Fprintf(out, "%s: %s\n", config.KeyPlatform, platformSetting(o.Platform))
}

func platformSetting(p glob.Platform) string {
	if p == glob.Host {
		return "host"
	}
	return p.String()
}

func (a *app) saveOptions(o glob.Options, file string) error {
	a.v.Set(config.KeyExtended, o.Extended)
	a.v.Set(config.KeyGlobstar, o.Globstar)
	a.v.Set(config.KeyCaseInsensitive, o.CaseInsensitive)
	a.v.Set(config.KeyPlatform, platformSetting(o.Platform))
	if err := a.v.WriteConfigAs(file); err != nil {
		return errors.Wrapf(err, "write %s", file)
	}
	return nil
}

func newPasswordCmd() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:     "password <sftp-url>",
		Short:   "Store the password of an SFTP connection in the keyring",
		Example: "charmglob password sftp://deploy@example.com:2222",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := pathlib.New(args[0])
			if target == nil || !target.IsSftp() {
				return errors.Errorf("not an sftp URL: %q", args[0])
			}
			cfg, err := config.New(constants.ServiceName)
			if err != nil {
				return err
			}

			details := target.ConnectionDetails()
			details.Password = ""
			if remove {
				if err := cfg.Delete(config.SftpKey(details)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed password for %s\n", details)
				return nil
			}

			if _, err := cfg.PromptSftpPassword(details); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored password for %s\n", details)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remove, "delete", false, "remove the stored password instead")
	return cmd
}
