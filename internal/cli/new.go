package cli

import (
	"github.com/spf13/cobra"

	"github.com/barooo/wires/pkg/models"
)

var (
	newDescriptionFlag string
	newPriorityFlag    int
)

type createdPayload struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Status    models.Status `json:"status"`
	Priority  int           `json:"priority"`
	CreatedAt int64         `json:"created_at"`
}

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a new wire",
	Long: `Create a new wire with the given title. New wires start in TODO status.

The priority defaults to the configured default_priority (0 unless
overridden in .wires/config.yaml).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := requireEngine()
		if err != nil {
			return err
		}

		priority := newPriorityFlag
		if !cmd.Flags().Changed("priority") && Cfg != nil {
			priority = Cfg.DefaultPriority
		}

		wire, err := eng.CreateWire(cmd.Context(), args[0], newDescriptionFlag, priority)
		if err != nil {
			return err
		}

		return printJSON(createdPayload{
			ID:        wire.ID,
			Title:     wire.Title,
			Status:    wire.Status,
			Priority:  wire.Priority,
			CreatedAt: wire.CreatedAt,
		})
	},
}

func init() {
	newCmd.Flags().StringVarP(&newDescriptionFlag, "description", "d", "", "Wire description")
	newCmd.Flags().IntVarP(&newPriorityFlag, "priority", "p", 0, "Priority (higher sorts first in ready output)")
	rootCmd.AddCommand(newCmd)
}
