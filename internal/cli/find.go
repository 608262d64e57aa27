package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	constants "github.com/ImGajeed76/charmglob/internal"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/config"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/console"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/glob"
	pathlib "github.com/ImGajeed76/charmglob/pkg/charmglob/path"
	pathhelpers "github.com/ImGajeed76/charmglob/pkg/charmglob/path/helpers"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type findFlags struct {
	progress    bool
	selectOne   bool
	askPassword bool
}

func newFindCmd(a *app) *cobra.Command {
	var f findFlags

	cmd := &cobra.Command{
		Use:   "find <glob> [root]",
		Short: "Walk a directory, local or sftp://, and print the paths a glob matches",
		Long: "Walk root (default the working directory) and print every path whose path relative to root matches the glob. " +
			"Only the literal prefix of the glob is walked. Root may be an sftp://user@host[:port]/dir URL.",
		Example: "charmglob find 'src/**/*.go' --ignore-file .globignore\n" +
			"charmglob find '**/*.log' sftp://deploy@example.com/var/log --progress",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootArg := "."
			if len(args) > 1 {
				rootArg = args[1]
			}
			return a.find(cmd, args[0], rootArg, f)
		},
	}

	flags := cmd.Flags()
	flags.Bool(config.KeyIncludeHidden, false, "include entries whose name starts with a dot")
	flags.Int(config.KeyMaxDepth, 0, "maximum depth below root, 0 for unlimited")
	flags.String(config.KeyIgnoreFile, "", "file with one glob per line to leave out")
	flags.String(config.KeyIgnoreEncoding, "UTF-8", "IANA encoding of the ignore file")
	flags.BoolVar(&f.progress, "progress", false, "show scan progress")
	flags.BoolVar(&f.selectOne, "select", false, "pick one match interactively")
	flags.BoolVar(&f.askPassword, "ask-password", false, "prompt for the sftp password and store it in the keyring")
	return cmd
}

func (a *app) find(cmd *cobra.Command, pattern, rootArg string, f findFlags) error {
	root := pathlib.New(rootArg)
	if root == nil {
		return errors.Errorf("invalid root %q", rootArg)
	}

	opts, err := a.settings.PathGlobOptions()
	if err != nil {
		return err
	}

	if ignoreFile := a.settings.IgnoreFile(); ignoreFile != "" {
		patterns, err := a.ignorePatterns(root, ignoreFile, opts.Options)
		if err != nil {
			return err
		}
		opts.IgnorePatterns = append(opts.IgnorePatterns, patterns...)
	}

	if f.askPassword && root.IsSftp() {
		cfg, err := config.New(constants.ServiceName)
		if err != nil {
			return err
		}
		if _, err := cfg.PromptSftpPassword(root.ConnectionDetails()); err != nil {
			return err
		}
	}

	var progress *console.ScanProgress
	if f.progress {
		options := console.DefaultProgressOptions()
		options.Label = pattern
		progress = console.NewScanProgress(options)
		opts.ProgressFunc = progress.Update
	}

	matches, err := root.GlobContext(cmd.Context(), pattern, opts)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.IsSftp() {
			lines = append(lines, m.SftpPath())
		} else {
			lines = append(lines, filepath.FromSlash(m.String()))
		}
	}
	if len(lines) == 0 {
		return errNoMatch
	}

	if f.selectOne {
		idx, err := console.ListSelect(lines, console.ListSelectOptions{
			Title:       fmt.Sprintf("%d matches for %s", len(lines), pattern),
			GlobOptions: opts.Options,
		})
		if err != nil {
			return err
		}
		lines = lines[idx : idx+1]
	}

	for _, line := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

// ignorePatterns reads the ignore file. A relative name is resolved against
// a remote root so the file travels with the tree it describes.
func (a *app) ignorePatterns(root *pathlib.Path, name string, opts glob.Options) ([]string, error) {
	file := pathlib.New(name)
	if root.IsSftp() && !file.IsSftp() && !strings.HasPrefix(name, "/") {
		file = root.Join(name)
	}
	patterns, err := file.ReadPatterns(a.settings.IgnoreEncoding(), opts)
	if err != nil {
		return nil, errors.Wrap(err, "ignore file")
	}
	log.Debug("loaded ignore patterns", "file", name, "count", len(patterns))
	return patterns, nil
}

func newTesterCmd(a *app) *cobra.Command {
	var (
		rootDir string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "tester [glob]",
		Short: "Try a glob interactively against the files below a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.settings.GlobOptions()
			if err != nil {
				return err
			}
			initial := ""
			if len(args) > 0 {
				initial = args[0]
			}

			candidates, err := listCandidates(rootDir, limit)
			if err != nil {
				return err
			}

			result, err := console.RunTester(candidates, initial, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Glob)
			fmt.Fprintln(cmd.OutOrStdout(), glob.ToRegExp(result.Glob, result.Options))
			return nil
		},
	}
	cmd.Flags().StringVar(&rootDir, "root", ".", "directory whose entries are the candidates")
	cmd.Flags().IntVar(&limit, "limit", 1000, "maximum number of candidates")
	return cmd
}

// listCandidates returns up to limit slash separated paths below dir,
// relative to it.
func listCandidates(dir string, limit int) ([]string, error) {
	root := pathlib.New(dir)
	if root == nil {
		return nil, errors.Errorf("invalid root %q", dir)
	}
	entries, err := root.List(true)
	if err != nil {
		return nil, err
	}

	prefix := root.String()
	if !root.IsSftp() {
		abs, err := filepath.Abs(filepath.FromSlash(prefix))
		if err != nil {
			return nil, errors.Wrap(err, "resolve root")
		}
		prefix = filepath.ToSlash(abs)
	}

	candidates := make([]string, 0, len(entries))
	for _, e := range entries {
		if limit > 0 && len(candidates) >= limit {
			log.Info("candidate list truncated", "limit", limit)
			break
		}
		if rel, ok := pathhelpers.RelSlash(prefix, e.String()); ok {
			candidates = append(candidates, rel)
		}
	}
	return candidates, nil
}
