package workspace

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the OS workspace Graft node.
const NodeID graft.ID = "adapter.workspace"

func init() {
	graft.Register(graft.Node[*OS]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*OS, error) {
			return NewOS(), nil
		},
	})
}
