package cli

import (
	"github.com/spf13/cobra"

	"github.com/barooo/wires/pkg/models"
)

var (
	updateTitleFlag       string
	updateDescriptionFlag string
	updateStatusFlag      string
	updatePriorityFlag    int
)

type updatedPayload struct {
	ID        string        `json:"id"`
	Status    models.Status `json:"status"`
	Priority  int           `json:"priority"`
	UpdatedAt int64         `json:"updated_at"`
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update wire fields",
	Long: `Update any combination of title, description, status, and priority in a
single atomic change. Flags that are not passed leave the field untouched.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeWireIDs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := requireEngine()
		if err != nil {
			return err
		}

		var upd models.WireUpdate
		if cmd.Flags().Changed("title") {
			upd.Title = &updateTitleFlag
		}
		if cmd.Flags().Changed("description") {
			upd.Description = &updateDescriptionFlag
		}
		if cmd.Flags().Changed("status") {
			status, err := models.ParseStatus(updateStatusFlag)
			if err != nil {
				return err
			}
			upd.Status = &status
		}
		if cmd.Flags().Changed("priority") {
			upd.Priority = &updatePriorityFlag
		}

		wire, _, err := eng.UpdateWire(cmd.Context(), args[0], upd)
		if err != nil {
			return err
		}

		return printJSON(updatedPayload{
			ID:        wire.ID,
			Status:    wire.Status,
			Priority:  wire.Priority,
			UpdatedAt: wire.UpdatedAt,
		})
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitleFlag, "title", "", "New title")
	updateCmd.Flags().StringVar(&updateDescriptionFlag, "description", "", "New description")
	updateCmd.Flags().StringVar(&updateStatusFlag, "status", "", "New status (TODO, IN_PROGRESS, DONE, CANCELLED)")
	updateCmd.Flags().IntVar(&updatePriorityFlag, "priority", 0, "New priority")
	rootCmd.AddCommand(updateCmd)
}
