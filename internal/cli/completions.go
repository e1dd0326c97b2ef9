package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/barooo/wires/pkg/models"
)

// completeWireIDs returns a completion function that lists wire ids,
// optionally excluding wires in certain statuses.
func completeWireIDs(excludeStatuses ...models.Status) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if Engine == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		wires, err := Engine.ListWires(cmd.Context(), nil)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		exclude := make(map[models.Status]bool)
		for _, s := range excludeStatuses {
			exclude[s] = true
		}

		var ids []string
		for _, w := range wires {
			if exclude[w.Status] {
				continue
			}
			if toComplete == "" || strings.HasPrefix(w.ID, toComplete) {
				// Tab separates the id from the description shells display.
				ids = append(ids, w.ID+"\t"+w.Title)
			}
		}

		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}
