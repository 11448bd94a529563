package ports

import (
	"context"

	"go.trai.ch/jmodel/internal/core/domain"
)

//go:generate mockgen -source=listener.go -destination=mocks/mock_listener.go -package=mocks

// EventType tags an element changed notification.
type EventType uint8

const (
	// EventPostChange is fired after a resource change was processed.
	EventPostChange EventType = 1 << iota
	// EventPostReconcile is fired after a working copy was reconciled.
	EventPostReconcile

	// EventDefault subscribes to every event type.
	EventDefault = EventPostChange | EventPostReconcile
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventPostChange:
		return "post-change"
	case EventPostReconcile:
		return "post-reconcile"
	default:
		return "default"
	}
}

// ElementChangedEvent carries a merged delta to listeners.
type ElementChangedEvent struct {
	Delta *domain.ElementDelta
	Type  EventType
}

// DeltaListener is notified of element changes.
type DeltaListener interface {
	ElementChanged(ctx context.Context, event ElementChangedEvent) error
}

// DeltaListenerFunc adapts a function to DeltaListener.
type DeltaListenerFunc func(ctx context.Context, event ElementChangedEvent) error

// ElementChanged calls f.
func (f DeltaListenerFunc) ElementChanged(ctx context.Context, event ElementChangedEvent) error {
	return f(ctx, event)
}
