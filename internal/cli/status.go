package cli

import (
	"github.com/spf13/cobra"

	"github.com/barooo/wires/pkg/models"
)

type warningPayload struct {
	Type   string        `json:"type"`
	WireID string        `json:"wire_id"`
	Status models.Status `json:"status"`
}

type statusPayload struct {
	ID        string           `json:"id"`
	Status    models.Status    `json:"status"`
	UpdatedAt int64            `json:"updated_at"`
	Warnings  []warningPayload `json:"warnings,omitempty"`
}

// runStatusChange moves a wire to the given status and prints the result.
// Completing a wire whose dependencies are unfinished still succeeds, the
// engine reports those dependencies and they are rendered as warnings.
func runStatusChange(cmd *cobra.Command, id string, status models.Status) error {
	eng, err := requireEngine()
	if err != nil {
		return err
	}

	wire, incomplete, err := eng.SetStatus(cmd.Context(), id, status)
	if err != nil {
		return err
	}

	payload := statusPayload{ID: wire.ID, Status: wire.Status, UpdatedAt: wire.UpdatedAt}
	for _, dep := range incomplete {
		payload.Warnings = append(payload.Warnings, warningPayload{
			Type:   "incomplete_dependency",
			WireID: dep.ID,
			Status: dep.Status,
		})
	}
	return printJSON(payload)
}

var startCmd = &cobra.Command{
	Use:               "start <id>",
	Short:             "Mark a wire as in progress",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeWireIDs(models.StatusInProgress, models.StatusDone),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatusChange(cmd, args[0], models.StatusInProgress)
	},
}

var doneCmd = &cobra.Command{
	Use:               "done <id>",
	Short:             "Mark a wire as done",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeWireIDs(models.StatusDone, models.StatusCancelled),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatusChange(cmd, args[0], models.StatusDone)
	},
}

var cancelCmd = &cobra.Command{
	Use:               "cancel <id>",
	Short:             "Mark a wire as cancelled",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeWireIDs(models.StatusDone, models.StatusCancelled),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatusChange(cmd, args[0], models.StatusCancelled)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(cancelCmd)
}
