package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/barooo/wires/internal/core"
	"github.com/barooo/wires/internal/storage"
)

type initializedPayload struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a wires repository in the current directory",
	Long: `Create the .wires directory with an empty task database and a default
config scaffold. Fails if the directory is already initialized.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := WorkDir
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolving working directory: %w", err)
			}
			dir = cwd
		}

		dbPath, err := storage.Init(dir)
		if err != nil {
			return err
		}
		if err := core.NewConfigManager(filepath.Dir(dbPath)).WriteDefault(); err != nil {
			return fmt.Errorf("writing config scaffold: %w", err)
		}

		return printJSON(initializedPayload{Status: "initialized", Path: dbPath})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
