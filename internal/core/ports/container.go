package ports

import (
	"context"

	"go.trai.ch/jmodel/internal/core/domain"
)

//go:generate mockgen -source=container.go -destination=mocks/mock_container.go -package=mocks

// Container is a named set of classpath entries.
type Container interface {
	// Description is a human readable name.
	Description() string
	// Entries returns the sub-entries in classpath order.
	Entries() domain.Entries
}

// ContainerInitializer binds container paths whose first segment is ID.
type ContainerInitializer interface {
	// ID returns the first container path segment the initializer serves.
	ID() string
	// Initialize resolves a container for a project. A nil container with a
	// nil error means the container path cannot be bound.
	Initialize(ctx context.Context, containerPath domain.Path, project string) (Container, error)
}
