package classpath

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jmodel/internal/adapters/archive"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jmodel/internal/adapters/classpathxml" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jmodel/internal/adapters/logger"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jmodel/internal/adapters/telemetry"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jmodel/internal/adapters/workspace"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/jmodel/internal/engine/cache"
)

// NodeID is the unique identifier for the resolution engine Graft node.
const NodeID graft.ID = "engine.classpath"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			workspace.NodeID,
			classpathxml.NodeID,
			archive.NodeID,
			cache.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: runEngineNode,
	})
}

func runEngineNode(ctx context.Context) (*Engine, error) {
	ws, err := graft.Dep[*workspace.OS](ctx)
	if err != nil {
		return nil, err
	}
	codec, err := graft.Dep[ports.ClasspathCodec](ctx)
	if err != nil {
		return nil, err
	}
	reader, err := graft.Dep[ports.ManifestReader](ctx)
	if err != nil {
		return nil, err
	}
	table, err := graft.Dep[*cache.Table](ctx)
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
	return New(ws, codec, reader, table, tracer, log), nil
}
