// Package commands contains the chorectl subcommands. Each constructor
// takes a lazy app accessor because the app is wired up in the root
// command's PersistentPreRunE.
package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mquinn/chorewheel/internal/service"
	"github.com/mquinn/chorewheel/internal/storage"
)

// AppContext holds the dependencies shared by all subcommands.
type AppContext struct {
	Ctx   context.Context
	Store storage.Store
	Svc   *service.Service
}

// App resolves an AppContext at run time.
type App func() *AppContext

// promptPIN asks for a member's PIN on the terminal when one is set.
// Returns ok=false when the user declines (empty input), which aborts
// the action with no side effects.
func promptPIN(app *AppContext, name string) (pin string, ok bool) {
	if !app.Svc.Snapshot().PINSet[name] {
		return "", true
	}
	fmt.Fprintf(os.Stderr, "PIN for %s (enter to cancel): ", name)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	return line, true
}

// confirm asks a yes/no question on the terminal.
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
