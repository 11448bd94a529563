package watcher

import (
	"github.com/fsnotify/fsnotify"
	"go.trai.ch/jmodel/internal/core/ports"
)

// ConvertEvent exposes convertEvent for tests.
func ConvertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	return convertEvent(event)
}
