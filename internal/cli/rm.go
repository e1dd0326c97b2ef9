package cli

import (
	"github.com/spf13/cobra"
)

type deletedPayload struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a wire",
	Long: `Delete a wire permanently. Dependency edges pointing at the wire in
either direction are removed with it.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeWireIDs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := requireEngine()
		if err != nil {
			return err
		}

		if err := eng.DeleteWire(cmd.Context(), args[0]); err != nil {
			return err
		}
		return printJSON(deletedPayload{ID: args[0], Action: "deleted"})
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
