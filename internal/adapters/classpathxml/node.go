package classpathxml

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jmodel/internal/core/ports"
)

// NodeID is the unique identifier for the classpath codec Graft node.
const NodeID graft.ID = "adapter.classpathxml"

func init() {
	graft.Register(graft.Node[ports.ClasspathCodec]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ClasspathCodec, error) {
			return New(), nil
		},
	})
}
