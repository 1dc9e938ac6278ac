package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// ReorderCmd creates the reorder command.
func ReorderCmd(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder FROM TO",
		Short: "Move an active queue member to a new position",
		Long:  `Positions are 1-based and refer to the active queue shown by status; paused members cannot be reordered.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("FROM must be a number: %w", err)
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("TO must be a number: %w", err)
			}

			a := app()
			if err := a.Svc.Reorder(a.Ctx, from-1, to-1); err != nil {
				return err
			}
			fmt.Println("Queue:", a.Svc.Snapshot().Active)
			return nil
		},
	}
}
