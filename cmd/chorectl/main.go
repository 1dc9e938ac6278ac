package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mquinn/chorewheel/cmd/chorectl/commands"
	"github.com/mquinn/chorewheel/internal/config"
	"github.com/mquinn/chorewheel/internal/service"
	"github.com/mquinn/chorewheel/internal/storage/sqlite"
	"github.com/mquinn/chorewheel/pkg/logging"
)

var (
	dbPath string
	app    *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chorectl",
		Short: "Chorewheel CLI - manage the dishwasher rotation",
		Long:  `A local admin tool for the household dishwasher rotation: view the queue, record loads, manage the roster, pauses and PINs.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Store != nil {
				app.Store.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the state database (default: DB_PATH env)")

	// Commands are registered before the app exists; they resolve it
	// lazily once PersistentPreRunE has run.
	getApp := func() *commands.AppContext { return app }
	rootCmd.AddCommand(
		commands.StatusCmd(getApp),
		commands.RosterCmd(getApp),
		commands.PauseCmd(getApp),
		commands.ReorderCmd(getApp),
		commands.PinCmd(getApp),
		commands.CompleteCmd(getApp),
		commands.ClaimCmd(getApp),
		commands.ResetCmd(getApp),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func initApp() error {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}

	ctx := context.Background()
	svc, err := service.New(ctx, store)
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to initialize service: %w", err)
	}

	app = &commands.AppContext{
		Ctx:   ctx,
		Store: store,
		Svc:   svc,
	}
	return nil
}
