package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RosterCmd creates the roster command with its set subcommand.
func RosterCmd(app App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage the household roster",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set NAME...",
		Short: "Replace the roster with the given names",
		Long:  `Replaces the roster. Members keep their credit and PIN; new names start fresh; removed names lose their entries.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Svc.SetRoster(a.Ctx, args); err != nil {
				return err
			}
			fmt.Println("Roster updated:", a.Svc.Snapshot().Roster)
			return nil
		},
	})
	return cmd
}
