package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mquinn/chorewheel/internal/models"
)

// CompleteCmd creates the complete command.
func CompleteCmd(app App) *cobra.Command {
	var runner, unloader string
	var runnerPIN, unloaderPIN string

	cmd := &cobra.Command{
		Use:   "complete KIND",
		Short: "Record a completed load (afternoon or night)",
		Long: `Records a completed load and advances the rotation. The runner
defaults to the current assignee and the unloader to the runner. Members
with a PIN set are prompted for it; cancelling the prompt aborts the
whole action with nothing recorded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}

			a := app()
			if runner == "" {
				runner = a.Svc.DefaultRunner()
			}
			if unloader == "" {
				unloader = runner
			}

			if runnerPIN == "" {
				pin, ok := promptPIN(a, runner)
				if !ok {
					fmt.Println("Cancelled, nothing recorded")
					return nil
				}
				runnerPIN = pin
			}
			if unloaderPIN == "" && unloader != runner {
				pin, ok := promptPIN(a, unloader)
				if !ok {
					fmt.Println("Cancelled, nothing recorded")
					return nil
				}
				unloaderPIN = pin
			} else if unloader == runner && unloaderPIN == "" {
				unloaderPIN = runnerPIN
			}

			entry, err := a.Svc.CompleteLoad(a.Ctx, kind, runner, runnerPIN, unloader, unloaderPIN)
			if err != nil {
				return err
			}

			when := time.Unix(entry.Timestamp, 0).Format("15:04")
			fmt.Printf("Recorded %s load at %s: run by %s, unloaded by %s\n",
				entry.Kind, when, entry.RanBy, entry.UnloadedBy)
			if next, ok := nextUp(a); ok {
				fmt.Println("Up next:", next)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runner, "runner", "", "who ran the load (default: current assignee)")
	cmd.Flags().StringVar(&unloader, "unloader", "", "who unloaded it (default: the runner)")
	cmd.Flags().StringVar(&runnerPIN, "runner-pin", "", "runner's PIN (prompted when needed)")
	cmd.Flags().StringVar(&unloaderPIN, "unloader-pin", "", "unloader's PIN (prompted when needed)")
	return cmd
}

func nextUp(a *AppContext) (string, bool) {
	snap := a.Svc.Snapshot()
	if snap.Current == "" {
		return "", false
	}
	return snap.Current, true
}
