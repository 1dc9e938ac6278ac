package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// PinCmd creates the pin command with set and clear subcommands.
func PinCmd(app App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Manage member PINs",
	}

	var pin string
	setCmd := &cobra.Command{
		Use:   "set NAME",
		Short: "Set a member's PIN (4-8 digits)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if pin == "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "New PIN for %s: ", args[0])
				if _, err := fmt.Scanln(&pin); err != nil {
					return fmt.Errorf("no PIN entered")
				}
			}
			if err := a.Svc.SetPIN(a.Ctx, args[0], pin); err != nil {
				return err
			}
			fmt.Printf("PIN set for %s\n", args[0])
			return nil
		},
	}
	setCmd.Flags().StringVar(&pin, "pin", "", "the PIN (prompted when omitted)")

	clearCmd := &cobra.Command{
		Use:   "clear NAME",
		Short: "Remove a member's PIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Svc.SetPIN(a.Ctx, args[0], ""); err != nil {
				return err
			}
			fmt.Printf("PIN cleared for %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(setCmd, clearCmd)
	return cmd
}
