package workspace

import (
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/zerr"
)

type fileState struct {
	dir     bool
	size    int64
	modTime time.Time
	digest  uint64
}

type change struct {
	kind  domain.ResourceDeltaKind
	flags domain.ResourceFlags
	state fileState
	from  domain.Path
	to    domain.Path
}

// DeltaBuilder turns batches of changed OS paths into resource delta trees by
// diffing the affected subtrees against a snapshot of the workspace. Removed
// and added files with equal content are paired as moves.
type DeltaBuilder struct {
	ws     *OS
	ignore map[string]struct{}

	mu       sync.Mutex
	snapshot map[domain.Path]fileState
}

// NewDeltaBuilder creates a builder for ws. Folders named in ignore are never
// reported.
func NewDeltaBuilder(ws *OS, ignore []string) *DeltaBuilder {
	skip := map[string]struct{}{domain.MetaDirName: {}}
	for _, name := range ignore {
		skip[name] = struct{}{}
	}
	return &DeltaBuilder{ws: ws, ignore: skip, snapshot: make(map[domain.Path]fileState)}
}

// Scan replaces the snapshot with the current content of every project.
func (b *DeltaBuilder) Scan() error {
	snapshot := make(map[domain.Path]fileState)
	for _, p := range b.ws.Projects() {
		if err := b.scan(domain.ProjectPath(p.Name), snapshot); err != nil {
			return err
		}
	}
	b.mu.Lock()
	b.snapshot = snapshot
	b.mu.Unlock()
	return nil
}

// Build diffs the subtrees of the given OS paths against the snapshot, updates
// the snapshot and returns the resulting delta rooted at the workspace root.
// It returns nil when nothing changed.
func (b *DeltaBuilder) Build(osPaths []string) (*domain.ResourceDelta, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	changes := make(map[domain.Path]*change)
	for _, scope := range b.scopes(osPaths) {
		current := make(map[domain.Path]fileState)
		if _, ok := b.ws.Project(scope.FirstSegment()); ok {
			if err := b.scan(scope, current); err != nil {
				return nil, err
			}
		}
		b.diff(scope, current, changes)
	}
	if len(changes) == 0 {
		return nil, nil
	}
	pairMoves(changes)
	return buildTree(changes), nil
}

// scopes maps OS paths to the minimal set of workspace subtrees to rescan.
// A path in a project that appeared or vanished since the snapshot widens to
// the whole project.
func (b *DeltaBuilder) scopes(osPaths []string) []domain.Path {
	var scopes []domain.Path
	for _, osPath := range osPaths {
		p, ok := b.ws.workspacePath(osPath)
		if !ok || b.ignored(p) {
			continue
		}
		project := domain.ProjectPath(p.FirstSegment())
		_, known := b.snapshot[project]
		_, exists := b.ws.Project(p.FirstSegment())
		if known != exists {
			p = project
		}
		scopes = append(scopes, p)
	}
	slices.Sort(scopes)
	scopes = slices.Compact(scopes)

	minimal := scopes[:0]
	for _, s := range scopes {
		if len(minimal) > 0 && minimal[len(minimal)-1].IsPrefixOf(s) {
			continue
		}
		minimal = append(minimal, s)
	}
	return minimal
}

func (b *DeltaBuilder) ignored(p domain.Path) bool {
	for _, seg := range p.Segments() {
		if _, skip := b.ignore[seg]; skip {
			return true
		}
	}
	return false
}

// scan records the subtree at p into into. A missing path records nothing.
func (b *DeltaBuilder) scan(p domain.Path, into map[domain.Path]fileState) error {
	osPath, ok := b.ws.internal(p)
	if !ok {
		return nil
	}
	err := filepath.WalkDir(osPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		wp, ok := b.ws.workspacePath(path)
		if !ok {
			return nil
		}
		if _, skip := b.ignore[d.Name()]; skip && d.IsDir() {
			return filepath.SkipDir
		}
		info, err := d.Info()
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		state := fileState{dir: d.IsDir(), size: info.Size(), modTime: info.ModTime()}
		if !state.dir {
			digest, err := hashFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			state.digest = digest
		}
		into[wp] = state
		return nil
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrResourceReadFailed.Error()), "path", p.String())
	}
	return nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // path is below the workspace root
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// diff compares the snapshot below scope with current, records the changes
// and updates the snapshot.
func (b *DeltaBuilder) diff(scope domain.Path, current map[domain.Path]fileState, changes map[domain.Path]*change) {
	for p, old := range b.snapshot {
		if !scope.IsPrefixOf(p) {
			continue
		}
		now, ok := current[p]
		switch {
		case !ok:
			changes[p] = &change{kind: domain.ResourceRemoved, state: old}
			delete(b.snapshot, p)
		case old.dir != now.dir:
			changes[p] = &change{kind: domain.ResourceChanged, flags: domain.FlagContent, state: now}
		case !now.dir && old.digest != now.digest:
			changes[p] = &change{kind: domain.ResourceChanged, flags: domain.FlagContent, state: now}
		}
	}
	for p, now := range current {
		if _, ok := b.snapshot[p]; !ok {
			changes[p] = &change{kind: domain.ResourceAdded, state: now}
		}
		b.snapshot[p] = now
	}
}

// pairMoves marks removed and added files with equal, non-empty content as
// moves. Candidates are paired in path order.
func pairMoves(changes map[domain.Path]*change) {
	removed := make(map[uint64][]domain.Path)
	var added []domain.Path
	for _, p := range slices.Sorted(maps.Keys(changes)) {
		c := changes[p]
		if c.state.dir || c.state.size == 0 {
			continue
		}
		switch c.kind {
		case domain.ResourceRemoved:
			removed[c.state.digest] = append(removed[c.state.digest], p)
		case domain.ResourceAdded:
			added = append(added, p)
		}
	}
	for _, to := range added {
		c := changes[to]
		candidates := removed[c.state.digest]
		if len(candidates) == 0 {
			continue
		}
		from := candidates[0]
		removed[c.state.digest] = candidates[1:]

		c.flags |= domain.FlagMovedFrom
		c.from = from
		gone := changes[from]
		gone.flags |= domain.FlagMovedTo
		gone.to = to
	}
}

// buildTree arranges the changes below a workspace root delta. Ancestors
// without a change of their own become changed folders.
func buildTree(changes map[domain.Path]*change) *domain.ResourceDelta {
	root := &domain.ResourceDelta{Kind: domain.ResourceChanged, Path: "/", Type: domain.TypeRoot}
	nodes := map[domain.Path]*domain.ResourceDelta{"/": root}

	var node func(p domain.Path) *domain.ResourceDelta
	node = func(p domain.Path) *domain.ResourceDelta {
		if n, ok := nodes[p]; ok {
			return n
		}
		n := &domain.ResourceDelta{Kind: domain.ResourceChanged, Path: p, Type: resourceType(p, true)}
		parent := node(p.Parent())
		parent.Children = append(parent.Children, n)
		nodes[p] = n
		return n
	}

	for _, p := range slices.Sorted(maps.Keys(changes)) {
		c := changes[p]
		n := node(p)
		n.Kind = c.kind
		n.Flags = c.flags
		n.Type = resourceType(p, c.state.dir)
		n.MovedFromPath = c.from
		n.MovedToPath = c.to
	}
	return root
}

func resourceType(p domain.Path, dir bool) domain.ResourceType {
	switch {
	case p.SegmentCount() == 1:
		return domain.TypeProject
	case dir:
		return domain.TypeFolder
	default:
		return domain.TypeFile
	}
}
