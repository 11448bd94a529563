package commands

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"go.trai.ch/jmodel/internal/core/ports"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the workspace and print the Java element deltas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.open(); err != nil {
				return err
			}
			return c.app.Watch(cmd.Context(), c.deltaPrinter(cmd.OutOrStdout()))
		},
	}
}

// deltaPrinter writes every post-change delta to w.
func (c *CLI) deltaPrinter(w io.Writer) ports.DeltaListener {
	var mu sync.Mutex
	return ports.DeltaListenerFunc(func(_ context.Context, event ports.ElementChangedEvent) error {
		mu.Lock()
		defer mu.Unlock()
		if c.json {
			return writeJSON(w, map[string]string{"event": event.Type.String(), "delta": event.Delta.String()})
		}
		_, err := fmt.Fprintln(w, event.Delta.String())
		return err
	})
}
