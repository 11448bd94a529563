package delta

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/zerr"
)

type subscription struct {
	id       uuid.UUID
	listener ports.DeltaListener
	mask     ports.EventType
}

// listeners is the subscription list. Listeners are notified in subscription order.
type listeners struct {
	logger ports.Logger

	mu   sync.RWMutex
	subs []subscription
}

func (l *listeners) add(listener ports.DeltaListener, mask ports.EventType) uuid.UUID {
	if mask == 0 {
		mask = ports.EventDefault
	}
	id := uuid.New()
	l.mu.Lock()
	l.subs = append(l.subs, subscription{id: id, listener: listener, mask: mask})
	l.mu.Unlock()
	return id
}

func (l *listeners) remove(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.subs)
	l.subs = slices.DeleteFunc(l.subs, func(s subscription) bool { return s.id == id })
	return len(l.subs) != n
}

func (l *listeners) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subs)
}

// notify delivers event to every listener subscribed to its type. A failing or
// panicking listener is logged and does not affect the others.
func (l *listeners) notify(ctx context.Context, event ports.ElementChangedEvent) {
	l.mu.RLock()
	subs := slices.Clone(l.subs)
	l.mu.RUnlock()

	for _, sub := range subs {
		if sub.mask&event.Type == 0 {
			continue
		}
		l.deliver(ctx, sub, event)
	}
}

func (l *listeners) deliver(ctx context.Context, sub subscription, event ports.ElementChangedEvent) {
	defer func() {
		if r := recover(); r != nil {
			err := zerr.With(zerr.Wrap(domain.ErrListenerFailed, "listener panicked"), "panic", fmt.Sprint(r))
			l.logger.Error(zerr.With(err, "listener", sub.id.String()))
		}
	}()
	if err := sub.listener.ElementChanged(ctx, event); err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrListenerFailed.Error()), "listener", sub.id.String())
		l.logger.Error(zerr.With(err, "event", event.Type.String()))
	}
}
