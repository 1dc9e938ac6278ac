package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mquinn/chorewheel/internal/auth"
	"github.com/mquinn/chorewheel/internal/models"
)

// ClaimCmd creates the claim command.
func ClaimCmd(app App) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "claim ROLE KIND NAME",
		Short: "Claim a single step of a load for one member",
		Long: `Claims one step of a load. A run claim credits NAME for both
steps; an unload claim credits NAME for the unload and the current
assignee for the run. Only NAME's PIN is checked.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := auth.ParseRole(args[0])
			if err != nil {
				return err
			}
			kind, err := models.ParseKind(args[1])
			if err != nil {
				return err
			}
			name := args[2]

			a := app()
			if pin == "" {
				entered, ok := promptPIN(a, name)
				if !ok {
					fmt.Println("Cancelled, nothing recorded")
					return nil
				}
				pin = entered
			}

			entry, err := a.Svc.QuickClaim(a.Ctx, kind, role, name, pin)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded %s load: run by %s, unloaded by %s\n",
				entry.Kind, entry.RanBy, entry.UnloadedBy)
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "the member's PIN (prompted when needed)")
	return cmd
}
