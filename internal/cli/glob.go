package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ImGajeed76/charmglob/pkg/charmglob/console"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/glob"
	pathhelpers "github.com/ImGajeed76/charmglob/pkg/charmglob/path/helpers"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRegexpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "regexp <glob>",
		Short:   "Print the regular expression a glob compiles to",
		Example: "charmglob regexp 'src/**/*.{js,ts}'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.settings.GlobOptions()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), glob.Compile(args[0], opts).String())
			return nil
		},
	}
}

func newMatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "match <glob> [name...]",
		Short: "Print the names a glob matches",
		Long: "Print the names a glob matches. Without names, one name per line is read from stdin. " +
			"Exits with status 1 when nothing matches.",
		Example: "git ls-files | charmglob match '**/*_test.go'",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.settings.GlobOptions()
			if err != nil {
				return err
			}

			names := args[1:]
			if len(names) == 0 {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
						names = append(names, line)
					}
				}
				if err := scanner.Err(); err != nil {
					return errors.Wrap(err, "read names")
				}
			}

			matches := pathhelpers.FilterMatches(args[0], names, opts)
			log.Debug("matched names", "glob", args[0], "names", len(names), "matches", len(matches))
			for _, m := range matches {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			if len(matches) == 0 {
				return errNoMatch
			}
			return nil
		},
	}
}

func newIsGlobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "isglob <string>...",
		Short: "Report whether each string contains glob syntax",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%t\t%s\n", glob.IsGlob(arg), arg)
			}
			return nil
		},
	}
}

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "normalize <glob>",
		Short:   "Clean a glob without collapsing **/..",
		Example: "charmglob normalize 'a/**/../b'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.settings.GlobOptions()
			if err != nil {
				return err
			}
			normalized, err := glob.NormalizeGlob(args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), normalized)
			return nil
		},
	}
}

func newJoinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "join <glob>...",
		Short: "Join globs with the platform separator",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.settings.GlobOptions()
			if err != nil {
				return err
			}
			joined, err := glob.JoinGlobs(args, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), joined)
			return nil
		},
	}
}

func newSyntaxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "syntax",
		Short: "Show the glob cheat sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			width := 80
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
				width = w
			}
			out, err := console.RenderSyntaxHelp(width)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
