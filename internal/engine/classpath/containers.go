package classpath

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// ContainerState is the initialization state of a (project, container path) pair.
type ContainerState uint8

const (
	// StateNotStarted means no initializer ran for the key yet.
	StateNotStarted ContainerState = iota
	// StateInProgress means an initializer is running for the key.
	StateInProgress
	// StateDone means the container is bound.
	StateDone
	// StateFailed means the container could not be bound.
	StateFailed
)

// String returns the state name.
func (s ContainerState) String() string {
	switch s {
	case StateInProgress:
		return "InProgress"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "NotStarted"
	}
}

type containerRecord struct {
	state     ContainerState
	container ports.Container
	status    domain.Status
}

// Containers is the container initializer registry and the per-key state table.
type Containers struct {
	mu           sync.RWMutex
	initializers map[string]ports.ContainerInitializer
	records      map[containerKey]containerRecord
	generation   uint64

	group singleflight.Group
}

// NewContainers creates an empty registry.
func NewContainers() *Containers {
	return &Containers{
		initializers: make(map[string]ports.ContainerInitializer),
		records:      make(map[containerKey]containerRecord),
	}
}

// Register installs an initializer for the container paths whose first segment
// is initializer.ID(). Failed records of that ID are dropped so they are retried.
func (c *Containers) Register(initializer ports.ContainerInitializer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := initializer.ID()
	c.initializers[id] = initializer
	for key, rec := range c.records {
		if rec.state == StateFailed && key.path.FirstSegment() == id {
			delete(c.records, key)
		}
	}
	c.generation++
}

// Bind sets the container of a key directly, bypassing the initializer.
// A nil container unbinds the key.
func (c *Containers) Bind(project string, path domain.Path, container ports.Container) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := containerKey{project: project, path: path}
	if container == nil {
		c.records[key] = containerRecord{state: StateFailed, status: unboundStatus(path)}
	} else {
		c.records[key] = containerRecord{state: StateDone, container: container}
	}
	c.generation++
}

// State returns the state of a key.
func (c *Containers) State(project string, path domain.Path) ContainerState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records[containerKey{project: project, path: path}].state
}

// Reset forgets the container of a key so that it is initialized again on next use.
func (c *Containers) Reset(project string, path domain.Path) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, containerKey{project: project, path: path})
	c.generation++
}

// ResetProject forgets every container of a project.
func (c *Containers) ResetProject(project string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.records {
		if key.project == project {
			delete(c.records, key)
		}
	}
	c.generation++
}

// Clear forgets every container of every project. Initializers stay registered.
func (c *Containers) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.records)
	c.generation++
}

// Container returns the container bound to path for project, running the
// registered initializer on first use. Callers asking for the same key share
// one initialization. A query issued from inside the initializer of the same
// key returns domain.ErrContainerInitInProgress.
//
// The status is not OK when the container is unbound; the error is only set
// for the in-progress case and for initializer failures.
func (c *Containers) Container(ctx context.Context, project string, path domain.Path) (ports.Container, domain.Status, error) {
	key := containerKey{project: project, path: path}

	c.mu.RLock()
	rec, ok := c.records[key]
	initializer := c.initializers[path.FirstSegment()]
	gen := c.generation
	c.mu.RUnlock()

	if ok {
		switch rec.state {
		case StateDone:
			return rec.container, domain.OKStatus(), nil
		case StateFailed:
			return nil, rec.status, nil
		}
	}

	if isInitializing(ctx, key) {
		err := zerr.Wrap(domain.ErrContainerInitInProgress, "container query")
		err = zerr.With(err, "project", project)
		return nil, domain.OKStatus(), zerr.With(err, "container", path.String())
	}

	if initializer == nil {
		status := unboundStatus(path)
		c.store(key, containerRecord{state: StateFailed, status: status}, gen)
		return nil, status, nil
	}

	v, err, _ := c.group.Do(project+"\x00"+path.String(), func() (any, error) {
		c.setInProgress(key)
		container, err := initializer.Initialize(withInitializing(ctx, key), path, project)
		if err != nil {
			c.store(key, containerRecord{state: StateFailed, status: unboundStatus(path)}, gen)
			wrapped := zerr.Wrap(err, domain.ErrContainerInitFailed.Error())
			return nil, zerr.With(wrapped, "container", path.String())
		}
		if container == nil {
			rec := containerRecord{state: StateFailed, status: unboundStatus(path)}
			c.store(key, rec, gen)
			return rec, nil
		}
		rec := containerRecord{state: StateDone, container: container}
		c.store(key, rec, gen)
		return rec, nil
	})
	if err != nil {
		return nil, unboundStatus(path), err
	}

	rec = v.(containerRecord)
	if rec.state == StateDone {
		return rec.container, domain.OKStatus(), nil
	}
	return nil, rec.status, nil
}

func (c *Containers) setInProgress(key containerKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[key]; !ok {
		c.records[key] = containerRecord{state: StateInProgress}
	}
}

// store records the outcome of an initialization unless a reset happened meanwhile.
func (c *Containers) store(key containerKey, rec containerRecord, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		if cur, ok := c.records[key]; ok && cur.state == StateInProgress {
			delete(c.records, key)
		}
		return
	}
	c.records[key] = rec
}

func unboundStatus(path domain.Path) domain.Status {
	return domain.NewStatus(
		domain.StatusCpContainerPathUnbound,
		path,
		fmt.Sprintf("unbound classpath container: '%s'", path),
	)
}
