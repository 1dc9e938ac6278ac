package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// PauseCmd creates the pause command.
func PauseCmd(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "pause NAME",
		Short: "Pause or resume a member's place in the rotation",
		Long:  `Toggles the paused flag for a member. Paused members keep their credit and PIN but are skipped when assigning loads; resuming puts them at the back of the active queue.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Svc.TogglePause(a.Ctx, args[0]); err != nil {
				return err
			}
			snap := a.Svc.Snapshot()
			for _, name := range snap.Paused {
				if name == args[0] {
					fmt.Printf("%s is now paused\n", args[0])
					return nil
				}
			}
			fmt.Printf("%s is back in the rotation\n", args[0])
			return nil
		},
	}
}
