package delta

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jmodel/internal/adapters/indexer"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jmodel/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jmodel/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jmodel/internal/adapters/workspace" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/jmodel/internal/engine/classpath"
)

// NodeID is the unique identifier for the delta manager Graft node.
const NodeID graft.ID = "engine.delta"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			workspace.NodeID,
			classpath.NodeID,
			indexer.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: runManagerNode,
	})
}

func runManagerNode(ctx context.Context) (*Manager, error) {
	ws, err := graft.Dep[*workspace.OS](ctx)
	if err != nil {
		return nil, err
	}
	engine, err := graft.Dep[*classpath.Engine](ctx)
	if err != nil {
		return nil, err
	}
	ix, err := graft.Dep[*indexer.Indexer](ctx)
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
	return New(ws, engine, ix, tracer, log), nil
}
