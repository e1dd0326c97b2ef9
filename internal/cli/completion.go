package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var completionInstall bool

// shellCompletion describes completion handling for one shell: how to
// generate the script, where --install puts it, and what to tell the user.
type shellCompletion struct {
	generate func(w io.Writer) error
	// target returns the install path under home. Nil when automatic
	// install is not supported for the shell.
	target      func(home string) string
	hints       []string
	postInstall func(target string) []string
}

var shellCompletions = map[string]shellCompletion{
	"bash": {
		generate: func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
		target: func(home string) string {
			return filepath.Join(home, ".local", "share", "bash-completion", "completions", "wires")
		},
		hints: []string{
			"# To load completions in your current session:",
			`#   eval "$(wires completion bash)"`,
			"#",
			"# To install permanently:",
			"#   wires completion bash --install",
			"#",
		},
		postInstall: func(target string) []string {
			return []string{
				fmt.Sprintf("Bash completions installed to %s", target),
				fmt.Sprintf("Restart your shell or run: source %s", target),
			}
		},
	},
	"zsh": {
		generate: func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
		target: func(home string) string {
			return filepath.Join(home, ".local", "share", "zsh", "site-functions", "_wires")
		},
		hints: []string{
			"# To load completions in your current session:",
			`#   eval "$(wires completion zsh)"`,
			"#",
			"# To install permanently:",
			"#   wires completion zsh --install",
			"#",
		},
		postInstall: func(target string) []string {
			dir := filepath.Dir(target)
			return []string{
				fmt.Sprintf("Zsh completions installed to %s", target),
				"",
				"Ensure this directory is in your fpath. Add to ~/.zshrc if needed:",
				fmt.Sprintf("  fpath=(%s $fpath)", dir),
				"  autoload -Uz compinit && compinit",
			}
		},
	},
	"fish": {
		generate: func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
		target: func(home string) string {
			return filepath.Join(home, ".config", "fish", "completions", "wires.fish")
		},
		hints: []string{
			"# To load completions in your current session:",
			"#   wires completion fish | source",
			"#",
			"# To install permanently:",
			"#   wires completion fish --install",
			"#",
		},
		postInstall: func(target string) []string {
			return []string{
				fmt.Sprintf("Fish completions installed to %s", target),
				"Completions will be available in new fish sessions automatically.",
			}
		},
	},
	"powershell": {
		generate: func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) },
		hints: []string{
			"# To load completions in your current session:",
			"#   wires completion powershell | Out-String | Invoke-Expression",
			"#",
			"# Automatic install is not supported for PowerShell.",
			"# Add the above command to your PowerShell profile manually.",
			"#",
		},
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Set up shell completions for wires",
	Long: `Set up shell tab-completions for wires commands, flags, and wire ids.

Supported shells: bash, zsh, fish, powershell

Quick install (adds completions to your shell profile):

  wires completion bash --install
  wires completion zsh --install
  wires completion fish --install

Or print the completion script to stdout (for manual setup):

  wires completion bash
  wires completion zsh
  wires completion fish
  wires completion powershell`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MaximumNArgs(1),
	RunE:      runCompletion,
}

func init() {
	completionCmd.Flags().BoolVar(&completionInstall, "install", false,
		"Install completions into your shell profile")

	// Remove Cobra's default completion command and add ours.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	name := args[0]
	shell, ok := shellCompletions[name]
	if !ok {
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish, powershell)", name)
	}

	if completionInstall {
		return installCompletion(name, shell)
	}

	// Usage hints go to stderr so they don't interfere with piping the
	// script, e.g. eval "$(wires completion bash)".
	for _, line := range shell.hints {
		fmt.Fprintln(cmd.ErrOrStderr(), line)
	}
	return shell.generate(cmd.OutOrStdout())
}

func installCompletion(name string, shell shellCompletion) error {
	if shell.target == nil {
		return fmt.Errorf("automatic install is not supported for %s; run 'wires completion %s' and add the output to your profile", name, name)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("detecting home directory: %w", err)
	}
	target := shell.target(home)

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("creating completion directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating completion file %s: %w", target, err)
	}
	writeErr := shell.generate(f)
	closeErr := f.Close()
	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		return fmt.Errorf("closing completion file %s: %w", target, closeErr)
	}

	for _, line := range shell.postInstall(target) {
		fmt.Println(line)
	}
	return nil
}
