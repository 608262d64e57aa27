// Package cli wires the charmglob command line.
package cli

import (
	"os"

	constants "github.com/ImGajeed76/charmglob/internal"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/config"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errNoMatch makes the process exit non-zero without printing anything.
var errNoMatch = errors.New("no match")

// IsNoMatch reports whether err only signals that nothing matched.
func IsNoMatch(err error) bool {
	return errors.Is(err, errNoMatch)
}

type app struct {
	v          *viper.Viper
	settings   *config.Settings
	configFile string
}

// NewRootCmd builds the command tree. Each call starts from fresh settings.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           constants.ServiceName,
		Short:         "Compile, test and run shell-style globs",
		Long:          "charmglob translates globs into anchored regular expressions and uses them to find files locally or over SFTP.",
		Version:       constants.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./charmglob.yaml or ~/.config/charmglob/charmglob.yaml)")
	flags.String(config.KeyLogLevel, "warn", "log level: debug, info, warn or error")
	flags.String(config.KeyPlatform, "host", "separator rules: host, posix or windows")
	flags.Bool(config.KeyExtended, true, "enable ?(..) *(..) +(..) @(..) !(..) groups")
	flags.Bool(config.KeyGlobstar, true, "let a lone ** match any number of segments")
	flags.BoolP(config.KeyCaseInsensitive, "i", false, "match without regard to case")

	root.AddCommand(
		newRegexpCmd(a),
		newMatchCmd(a),
		newIsGlobCmd(),
		newNormalizeCmd(a),
		newJoinCmd(a),
		newFindCmd(a),
		newTesterCmd(a),
		newOptionsCmd(a),
		newSyntaxCmd(),
		newPasswordCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}
	settings, err := config.NewSettings(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.settings = settings

	level, err := settings.LogLevel()
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	log.SetOutput(os.Stderr)
	if err := NewRootCmd().Execute(); err != nil {
		if !IsNoMatch(err) {
			log.Error(err)
		}
		return 1
	}
	return 0
}
