// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/jmodel/internal/adapters/archive"
	_ "go.trai.ch/jmodel/internal/adapters/classpathxml"
	_ "go.trai.ch/jmodel/internal/adapters/config"
	_ "go.trai.ch/jmodel/internal/adapters/indexer"
	_ "go.trai.ch/jmodel/internal/adapters/logger"
	_ "go.trai.ch/jmodel/internal/adapters/telemetry"
	_ "go.trai.ch/jmodel/internal/adapters/watcher"
	_ "go.trai.ch/jmodel/internal/adapters/workspace"
	// Register app and engine nodes.
	_ "go.trai.ch/jmodel/internal/app"
	_ "go.trai.ch/jmodel/internal/engine/cache"
	_ "go.trai.ch/jmodel/internal/engine/classpath"
	_ "go.trai.ch/jmodel/internal/engine/delta"
)
