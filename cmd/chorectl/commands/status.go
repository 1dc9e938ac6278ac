package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// StatusCmd creates the status command.
func StatusCmd(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the rotation, credits and recent loads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app().Svc.Snapshot()

			current := snap.Current
			if current == "" {
				current = "none"
			}
			next := snap.Next
			if next == "" {
				next = "none"
			}
			fmt.Printf("Up next: %s (then %s)\n\n", current, next)

			fmt.Println("Queue:")
			for i, name := range snap.Active {
				fmt.Printf("  %d. %s\n", i+1, name)
			}
			for _, name := range snap.Paused {
				fmt.Printf("  -  %s (paused)\n", name)
			}

			fmt.Println("\nCredits:")
			for _, name := range snap.Roster {
				pin := ""
				if snap.PINSet[name] {
					pin = "  [pin set]"
				}
				fmt.Printf("  %-16s %5.1f%s\n", name, snap.Credits[name], pin)
			}

			if len(snap.History) > 0 {
				fmt.Println("\nRecent loads:")
				for _, e := range snap.History {
					who := e.RanBy
					if e.UnloadedBy != e.RanBy {
						who = fmt.Sprintf("%s / %s", e.RanBy, e.UnloadedBy)
					}
					ts := time.Unix(e.Timestamp, 0).Format("Mon Jan 2 15:04")
					fmt.Printf("  %s  %-9s %s\n", ts, strings.ToLower(string(e.Kind)), who)
				}
			}
			return nil
		},
	}
}
