// Package containers serves the classpath containers declared in jmodel.yaml.
package containers

import (
	"context"
	"maps"
	"slices"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
)

// Container is a container declared in the configuration.
type Container struct {
	description string
	entries     domain.Entries
}

var _ ports.Container = (*Container)(nil)

// Description returns the declared description.
func (c *Container) Description() string { return c.description }

// Entries returns the declared entries.
func (c *Container) Entries() domain.Entries { return slices.Clone(c.entries) }

// Initializer binds the declared containers whose path starts with its ID.
// Declared containers are the same for every project.
type Initializer struct {
	id       string
	declared map[domain.Path]domain.ContainerConfig
}

var _ ports.ContainerInitializer = (*Initializer)(nil)

// ID returns the first container path segment the initializer serves.
func (i *Initializer) ID() string { return i.id }

// Initialize returns the declared container for containerPath, or nil when
// none is declared.
func (i *Initializer) Initialize(ctx context.Context, containerPath domain.Path, _ string) (ports.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, ok := i.declared[containerPath]
	if !ok {
		return nil, nil
	}
	return &Container{description: cfg.Description, entries: cfg.Entries}, nil
}

// FromConfig builds one initializer per distinct first segment of the
// declared container paths, in ID order.
func FromConfig(cfg *domain.Config) []*Initializer {
	if cfg == nil {
		return nil
	}
	byID := make(map[string]*Initializer)
	for path, container := range cfg.Containers {
		id := path.FirstSegment()
		ci, ok := byID[id]
		if !ok {
			ci = &Initializer{id: id, declared: make(map[domain.Path]domain.ContainerConfig)}
			byID[id] = ci
		}
		ci.declared[path] = container
	}
	out := make([]*Initializer, 0, len(byID))
	for _, id := range slices.Sorted(maps.Keys(byID)) {
		out = append(out, byID[id])
	}
	return out
}
