package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barooo/wires/pkg/models"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "wires",
	Short: "Lightweight local task tracker optimized for AI coding agents",
	Long: `wires is a SQLite-backed task tracker built for AI agents working on
multi-step coding tasks. Tasks ("wires") form a dependency graph: the
tracker refuses circular dependencies and can tell you which wires are
ready to work on right now.

Output is JSON when piped and a human-readable table on a terminal,
so the same commands serve both agents and people.`,

	// Failures are rendered as JSON on stderr by Execute, so cobra's own
	// error and usage printing stays off.
	SilenceErrors: true,
	SilenceUsage:  true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wires %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "Output format: json or table (default: auto-detect)")
	rootCmd.AddCommand(versionCmd)
}

// printError renders err as a single-line JSON object on stderr so that
// failures can be parsed the same way as results. Cycle rejections carry
// the offending path as a separate key.
func printError(err error) {
	payload := map[string]any{"error": err.Error()}
	var cycleErr *models.CycleError
	if errors.As(err, &cycleErr) {
		payload["path"] = cycleErr.Path
	}
	line, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		fmt.Fprintf(os.Stderr, "{\"error\":%q}\n", err.Error())
		return
	}
	fmt.Fprintln(os.Stderr, string(line))
}

// Execute runs the root command, rendering any failure as JSON on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}
