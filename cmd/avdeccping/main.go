// Command avdeccping discovers AVDECC entities on a network interface
// and prints their ADP events as they arrive. It is a thin consumer of
// the entity facade, not part of the protocol engine itself.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avnu-align/avdecc-engine/cmd/avdeccping/internal/discover"
)

func main() {
	root := newRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var iface string
	var localEntityID uint64

	cmd := &cobra.Command{
		Use:           "avdeccping",
		Short:         "Discover AVDECC entities on a network interface",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if iface == "" {
				return fmt.Errorf("--interface is required")
			}
			return discover.Run(cmd.Context(), iface, localEntityID)
		},
	}

	cmd.Flags().StringVarP(&iface, "interface", "i", "", "network interface to listen on (e.g. eth0)")
	cmd.Flags().Uint64Var(&localEntityID, "local-entity-id", 0x0000000000000001, "entity_id this tool uses as its own (it sends no ADP advertisement)")

	return cmd
}
