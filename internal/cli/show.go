package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barooo/wires/internal/core"
)

var showCmd = &cobra.Command{
	Use:               "show <id>",
	Short:             "Show wire details including dependencies",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeWireIDs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := requireEngine()
		if err != nil {
			return err
		}
		format, err := resolveFormat()
		if err != nil {
			return err
		}

		wire, err := eng.GetWire(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if format == core.FormatTable {
			fmt.Print(renderWireDetail(wire))
			return nil
		}
		return printJSON(wire)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
