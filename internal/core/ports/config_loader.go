package ports

import "go.trai.ch/jmodel/internal/core/domain"

// ConfigLoader defines the interface for loading the workspace configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads jmodel.yaml from the workspace root. A missing file yields the defaults.
	Load(root string) (*domain.Config, error)

	// DiscoverRoot walks up from cwd to find the workspace root.
	// Returns the nearest directory holding jmodel.yaml, or cwd when none exists.
	DiscoverRoot(cwd string) (string, error)
}
