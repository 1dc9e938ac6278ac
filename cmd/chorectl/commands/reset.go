package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ResetCmd creates the reset command.
func ResetCmd(app App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset every member's credit to zero",
		Long:  `Zeroes all credits. The history log is kept. This cannot be undone.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm("Reset ALL credits to zero?") {
				fmt.Println("Cancelled")
				return nil
			}
			a := app()
			if err := a.Svc.ResetCredits(a.Ctx, true); err != nil {
				return err
			}
			fmt.Println("All credits reset to zero")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
