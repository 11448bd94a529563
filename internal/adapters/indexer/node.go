package indexer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jmodel/internal/adapters/logger"
	"go.trai.ch/jmodel/internal/adapters/telemetry"
	"go.trai.ch/jmodel/internal/adapters/workspace"
	"go.trai.ch/jmodel/internal/core/ports"
)

// NodeID is the unique identifier for the indexer Graft node.
const NodeID graft.ID = "adapter.indexer"

func init() {
	graft.Register(graft.Node[*Indexer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{workspace.NodeID, telemetry.TracerNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Indexer, error) {
			ws, err := graft.Dep[*workspace.OS](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(ws, tracer, log), nil
		},
	})
}
