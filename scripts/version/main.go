// Command version cuts a charmglob release: it runs the test suite, writes
// internal/version.go, checks that the built CLI reports the new version,
// then commits, tags and pushes.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	versionFile = "internal/version.go"
	modulePath  = "github.com/ImGajeed76/charmglob"
	cliPackage  = "./cmd/charmglob"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)

	// v1.2.3, v1.2.3-beta, v1.2.3-alpha.1
	semverPattern = regexp2.MustCompile(`^v\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?\z`, regexp2.None)
)

// runner executes a command and returns its combined output.
type runner func(name string, args ...string) (string, error)

func execRunner(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return string(out), err
}

type step struct {
	name string
	run  func() error
}

type release struct {
	version string
	run     runner
	write   func(name string, data []byte) error
	push    bool
}

// steps lists the release in order. Nothing is tagged unless the tests pass
// and the CLI reports the new version.
func (r *release) steps() []step {
	steps := []step{
		{"check working tree", r.checkClean},
		{"run go test ./...", r.test},
		{"update " + versionFile, r.updateVersionFile},
		{"check charmglob --version", r.checkCLIVersion},
		{"commit " + versionFile, r.commit},
		{"tag " + r.version, r.tag},
	}
	if r.push {
		steps = append(steps,
			step{"push commit", r.pushCommit},
			step{"push tag " + r.version, r.pushTag},
		)
	}
	return steps
}

func (r *release) checkClean() error {
	out, err := r.run("git", "status", "--porcelain")
	if err != nil {
		return errors.Wrap(err, "git status")
	}
	if strings.TrimSpace(out) != "" {
		return errors.New("uncommitted changes, commit or stash them first")
	}
	return nil
}

func (r *release) test() error {
	if out, err := r.run("go", "test", "./..."); err != nil {
		return errors.Wrapf(err, "tests failed:\n%s", out)
	}
	return nil
}

func (r *release) updateVersionFile() error {
	return r.write(versionFile, []byte(renderVersionFile(r.version)))
}

func (r *release) checkCLIVersion() error {
	out, err := r.run("go", "run", cliPackage, "--version")
	if err != nil {
		return errors.Wrapf(err, "charmglob --version:\n%s", out)
	}
	return checkVersionOutput(out, r.version)
}

func (r *release) commit() error {
	if _, err := r.run("git", "add", versionFile); err != nil {
		return errors.Wrap(err, "git add")
	}
	_, err := r.run("git", "commit", "-m", fmt.Sprintf("chore: bump version to %s", r.version))
	return errors.Wrap(err, "git commit")
}

func (r *release) tag() error {
	_, err := r.run("git", "tag", "-a", r.version, "-m", fmt.Sprintf("Release %s", r.version))
	return errors.Wrap(err, "git tag")
}

func (r *release) pushCommit() error {
	_, err := r.run("git", "push", "origin", "HEAD")
	return errors.Wrap(err, "git push")
}

func (r *release) pushTag() error {
	_, err := r.run("git", "push", "origin", r.version)
	return errors.Wrap(err, "git push tag")
}

// normalizeVersion adds the leading v and validates the result.
func normalizeVersion(raw string) (string, error) {
	version := raw
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if ok, _ := semverPattern.MatchString(version); !ok {
		return "", errors.Errorf("invalid version %q, use 1.0.0 or v1.0.0", raw)
	}
	return version, nil
}

func renderVersionFile(version string) string {
	return fmt.Sprintf("package internal\n\nvar Version = %q\n", version)
}

// checkVersionOutput accepts cobra's "charmglob version v1.2.3" line.
func checkVersionOutput(out, version string) error {
	fields := strings.Fields(out)
	if len(fields) == 0 || fields[len(fields)-1] != version {
		return errors.Errorf("charmglob reports %q, want %s", strings.TrimSpace(out), version)
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprint(out, warningStyle.Render(question+" (y/N): "))
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

func newCmd() *cobra.Command {
	var (
		yes    bool
		noPush bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:           "version <version>",
		Short:         "Test, bump, tag and push a charmglob release",
		Example:       "go run ./scripts/version 1.2.0\ngo run ./scripts/version v1.2.0-rc.1 --no-push",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := normalizeVersion(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			r := &release{
				version: version,
				run:     execRunner,
				write:   func(name string, data []byte) error { return os.WriteFile(name, data, 0o644) },
				push:    !noPush,
			}

			steps := r.steps()
			fmt.Fprintln(out, infoStyle.Render("Releasing "+version+":"))
			for i, s := range steps {
				fmt.Fprintf(out, "  %d. %s\n", i+1, s.name)
			}
			fmt.Fprintln(out)
			if dryRun {
				return nil
			}
			if !yes && !confirm(cmd.InOrStdin(), out, "Continue?") {
				fmt.Fprintln(out, warningStyle.Render("Aborted"))
				return nil
			}

			for _, s := range steps {
				fmt.Fprintln(out, stepStyle.Render(s.name+"..."))
				if err := s.run(); err != nil {
					return errors.Wrap(err, s.name)
				}
				fmt.Fprintln(out, successStyle.Render("✓ "+s.name))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, successStyle.Render("Released "+version))
			if !r.push {
				fmt.Fprintln(out, warningStyle.Render("Not pushed. Run: git push origin HEAD && git push origin "+version))
			}
			fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("go install %s/cmd/charmglob@%s", modulePath, version)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&noPush, "no-push", false, "stop after tagging")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only print the steps")
	return cmd
}

func main() {
	if err := newCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
