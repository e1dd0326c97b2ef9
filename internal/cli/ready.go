package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barooo/wires/internal/core"
	"github.com/barooo/wires/pkg/models"
)

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "List wires that are ready to work on",
	Long: `List wires that are unblocked: status TODO or IN_PROGRESS with every
dependency DONE. Wires already in progress sort first, then by priority.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := requireEngine()
		if err != nil {
			return err
		}
		format, err := resolveFormat()
		if err != nil {
			return err
		}

		wires, err := eng.ReadyWires(cmd.Context())
		if err != nil {
			return err
		}

		if format == core.FormatTable {
			rows := make([]models.WireWithDeps, len(wires))
			for i, w := range wires {
				rows[i] = models.WireWithDeps{Wire: w}
			}
			fmt.Print(renderWireTable(rows))
			return nil
		}
		return printJSON(wires)
	},
}

func init() {
	rootCmd.AddCommand(readyCmd)
}
