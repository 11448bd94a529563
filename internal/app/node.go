package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jmodel/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/jmodel/internal/adapters/indexer"   //nolint:depguard // Wired in app layer
	"go.trai.ch/jmodel/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/jmodel/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/jmodel/internal/adapters/workspace" //nolint:depguard // Wired in app layer
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/jmodel/internal/engine/classpath"
	"go.trai.ch/jmodel/internal/engine/delta"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			workspace.NodeID,
			classpath.NodeID,
			delta.NodeID,
			indexer.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	ws, err := graft.Dep[*workspace.OS](ctx)
	if err != nil {
		return nil, err
	}
	engine, err := graft.Dep[*classpath.Engine](ctx)
	if err != nil {
		return nil, err
	}
	manager, err := graft.Dep[*delta.Manager](ctx)
	if err != nil {
		return nil, err
	}
	ix, err := graft.Dep[*indexer.Indexer](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[*watcher.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, ws, engine, manager, ix, w, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log), nil
}
