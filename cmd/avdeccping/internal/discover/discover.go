// Package discover wires the entity facade's discovery tracker to
// stdout for the avdeccping CLI.
package discover

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/adp"
	"github.com/avnu-align/avdecc-engine/entity"
	"github.com/avnu-align/avdecc-engine/entity/transport"
)

// Run opens a raw socket on ifaceName, uses localEntityID as the local
// entity's id (no ADP advertisement of it is sent), and prints every
// discovery event until ctx is cancelled (e.g. by SIGINT).
func Run(ctx context.Context, ifaceName string, localEntityID uint64) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tx, err := transport.NewRawSocket(ifaceName)
	if err != nil {
		return fmt.Errorf("open %s: %w", ifaceName, err)
	}

	cfg := entity.DefaultConfig(avdecc.EntityID(localEntityID))

	pi, err := entity.New(cfg, tx, nil)
	if err != nil {
		return fmt.Errorf("start protocol interface: %w", err)
	}
	defer pi.Close()
	pi.SetLogMode(true)

	pi.AddDiscoveryObserver(func(ev adp.Event, entityID avdecc.EntityID, snapshot adp.PDU) {
		fmt.Printf("%-18s entity_id=%s model_id=%s available_index=%d\n",
			ev, entityID, snapshot.EntityModelID, snapshot.AvailableIndex)
	})

	fmt.Printf("listening on %s as entity_id=%s, press ctrl-c to stop\n", ifaceName, avdecc.EntityID(localEntityID))
	<-ctx.Done()
	return nil
}
