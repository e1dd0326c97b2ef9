package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barooo/wires/internal/core"
	"github.com/barooo/wires/pkg/models"
)

var listStatusFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List wires, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := requireEngine()
		if err != nil {
			return err
		}
		format, err := resolveFormat()
		if err != nil {
			return err
		}

		var filter *models.Status
		if listStatusFlag != "" {
			status, err := models.ParseStatus(listStatusFlag)
			if err != nil {
				return err
			}
			filter = &status
		}

		wires, err := eng.ListWires(cmd.Context(), filter)
		if err != nil {
			return err
		}

		if format == core.FormatTable {
			fmt.Print(renderWireTable(wires))
			return nil
		}
		return printJSON(wires)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listStatusFlag, "status", "s", "", "Filter by status (TODO, IN_PROGRESS, DONE, CANCELLED)")
	rootCmd.AddCommand(listCmd)
}
