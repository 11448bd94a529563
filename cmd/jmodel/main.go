// Package main is the entry point for the jmodel tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/jmodel/cmd/jmodel/commands"
	"go.trai.ch/jmodel/internal/app"
	"go.trai.ch/jmodel/internal/core/domain"
	_ "go.trai.ch/jmodel/internal/wiring"
)

// exitProblems is returned when validation finds classpath problems.
const exitProblems = 2

func main() {
	os.Exit(run())
}

func run(opts ...func(*commands.CLI)) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// The logger is not available yet.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)
	cli.SetArgs(os.Args[1:])
	for _, opt := range opts {
		opt(cli)
	}

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrValidationFailed) {
			return exitProblems
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
