package cli

import (
	"github.com/spf13/cobra"
)

type edgePayload struct {
	WireID    string `json:"wire_id"`
	DependsOn string `json:"depends_on"`
	Action    string `json:"action"`
}

var depCmd = &cobra.Command{
	Use:   "dep <wire-id> <depends-on>",
	Short: "Add a dependency between wires",
	Long: `Record that the first wire depends on the second. The edge is rejected
if it would close a cycle, adding an existing edge is a no-op.`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeWireIDs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := requireEngine()
		if err != nil {
			return err
		}

		if err := eng.AddDependency(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		return printJSON(edgePayload{WireID: args[0], DependsOn: args[1], Action: "added"})
	},
}

var undepCmd = &cobra.Command{
	Use:   "undep <wire-id> <depends-on>",
	Short: "Remove a dependency between wires",
	Long: `Remove the dependency of the first wire on the second. Removing an edge
that does not exist succeeds silently.`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeWireIDs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := requireEngine()
		if err != nil {
			return err
		}

		if err := eng.RemoveDependency(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		return printJSON(edgePayload{WireID: args[0], DependsOn: args[1], Action: "removed"})
	},
}

func init() {
	rootCmd.AddCommand(depCmd)
	rootCmd.AddCommand(undepCmd)
}
