package classpath

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

// chainer reads Class-Path manifest clauses and remembers the outcome per
// archive, so that each archive is opened at most once until it changes.
type chainer struct {
	reader ports.ManifestReader

	mu          sync.RWMutex
	chains      map[string][]string
	nonChaining map[string]struct{}
	invalid     map[string]struct{}

	group singleflight.Group
}

func newChainer(reader ports.ManifestReader) *chainer {
	return &chainer{
		reader:      reader,
		chains:      make(map[string][]string),
		nonChaining: make(map[string]struct{}),
		invalid:     make(map[string]struct{}),
	}
}

// classPath returns the Class-Path names of an archive, or nil when it does not chain.
func (c *chainer) classPath(ctx context.Context, osPath string) []string {
	c.mu.RLock()
	_, skip := c.nonChaining[osPath]
	names, known := c.chains[osPath]
	c.mu.RUnlock()
	if skip {
		return nil
	}
	if known {
		return slices.Clone(names)
	}

	v, _, _ := c.group.Do(osPath, func() (any, error) {
		names, err := c.reader.ReadClassPath(ctx, osPath)
		switch {
		case errors.Is(err, domain.ErrArchiveOpenFailed):
			c.markInvalid(osPath)
			return []string(nil), nil
		case err != nil, len(names) == 0:
			c.markNonChaining(osPath)
			return []string(nil), nil
		}
		c.mu.Lock()
		c.chains[osPath] = names
		c.mu.Unlock()
		return names, nil
	})
	names, _ = v.([]string)
	return slices.Clone(names)
}

func (c *chainer) markNonChaining(osPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nonChaining[osPath] = struct{}{}
}

func (c *chainer) markInvalid(osPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalid[osPath] = struct{}{}
	c.nonChaining[osPath] = struct{}{}
}

// isInvalid reports whether an archive failed to open.
func (c *chainer) isInvalid(osPath string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.invalid[osPath]
	return ok
}

// forget drops what is known about an archive.
func (c *chainer) forget(osPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.chains, osPath)
	delete(c.nonChaining, osPath)
	delete(c.invalid, osPath)
}

// reset drops every cached archive.
func (c *chainer) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chains = make(map[string][]string)
	c.nonChaining = make(map[string]struct{})
	c.invalid = make(map[string]struct{})
}
