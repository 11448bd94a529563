package delta

import (
	"context"
	"fmt"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/engine/classpath"
)

// nonJava classifies resources that are not Java elements.
const nonJava domain.ElementType = 0

// cursor tracks the innermost Java element enclosing the resource being visited.
type cursor struct {
	stack []domain.Element
}

func (c *cursor) push(e domain.Element) {
	c.stack = append(c.stack, e)
}

// popUntilPrefixOf pops the elements whose path does not enclose path. The
// bottom element is never popped.
func (c *cursor) popUntilPrefixOf(path domain.Path) {
	for len(c.stack) > 1 && !c.stack[len(c.stack)-1].Path.IsPrefixOf(path) {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

func (c *cursor) current() domain.Element {
	return c.stack[len(c.stack)-1]
}

// processor translates one resource delta. It is confined to the goroutine
// running the pass.
type processor struct {
	m        *Manager
	roots    *RootTable
	oldRoots *RootTable
	delta    *domain.ElementDelta
	cursor   cursor

	// projects handled as a whole by the pre-pass
	skip          map[string]struct{}
	outputs       map[string]domain.Path
	cachesToReset map[string]struct{}
	classpaths    map[string]struct{}
	changes       []*classpath.Change
}

func newProcessor(m *Manager) *processor {
	return &processor{
		m:             m,
		delta:         domain.NewElementDelta(domain.ModelElement()),
		skip:          make(map[string]struct{}),
		outputs:       make(map[string]domain.Path),
		cachesToReset: make(map[string]struct{}),
		classpaths:    make(map[string]struct{}),
	}
}

// run processes a resource delta rooted at the workspace root.
func (p *processor) run(ctx context.Context, root *domain.ResourceDelta) {
	// The table in effect before the changes becomes the old one.
	p.m.roots.refresh(ctx, p.m.buildRoots)
	p.m.roots.settle()

	for _, pd := range root.Children {
		p.checkProject(ctx, pd)
	}

	p.m.roots.refresh(ctx, p.m.buildRoots)
	p.roots, p.oldRoots = p.m.roots.tables()

	for _, pd := range root.Children {
		name := pd.Path.FirstSegment()
		if _, done := p.skip[name]; done || !p.m.isJavaProject(name) {
			continue
		}
		p.traverseProject(ctx, pd)
	}

	p.finish()
}

// checkProject handles project level changes: projects added, removed, opened,
// closed, gaining or losing the Java nature, and classpath file changes.
func (p *processor) checkProject(ctx context.Context, pd *domain.ResourceDelta) {
	name := pd.Path.FirstSegment()
	if name == "" {
		return
	}
	wasJava := p.m.isJavaProject(name)
	project, exists := p.m.ws.Project(name)
	isJava := exists && project.Open && project.JavaNature
	element := domain.ProjectElement(name)

	switch pd.Kind {
	case domain.ResourceAdded:
		if isJava {
			p.projectAdded(pd, element)
		}
	case domain.ResourceRemoved:
		if wasJava {
			p.projectRemoved(pd, element)
		}
	case domain.ResourceChanged:
		switch {
		case isJava && !wasJava && pd.Has(domain.FlagOpen):
			p.delta.Opened(element)
			p.projectAppeared(name, element)
		case isJava && !wasJava:
			p.delta.Added(element, 0)
			p.projectAppeared(name, element)
		case !isJava && wasJava && pd.Has(domain.FlagOpen):
			p.delta.Closed(element)
			p.projectDisappeared(name, element)
			p.m.Model().Close(element)
		case !isJava && wasJava:
			p.delta.Removed(element, 0)
			p.projectDisappeared(name, element)
			p.m.Model().Remove(element)
		case isJava:
			p.checkClasspath(ctx, pd, name)
		}
	}
	p.m.setJavaProject(name, isJava)
}

func (p *processor) projectAdded(pd *domain.ResourceDelta, element domain.Element) {
	if pd.Has(domain.FlagMovedFrom) && !pd.MovedFromPath.IsEmpty() {
		p.delta.MovedTo(element, domain.ProjectElement(pd.MovedFromPath.FirstSegment()))
	} else {
		p.delta.Added(element, 0)
	}
	p.projectAppeared(element.Project, element)
}

func (p *processor) projectRemoved(pd *domain.ResourceDelta, element domain.Element) {
	if pd.Has(domain.FlagMovedTo) && !pd.MovedToPath.IsEmpty() {
		p.delta.MovedFrom(element, domain.ProjectElement(pd.MovedToPath.FirstSegment()))
	} else {
		p.delta.Removed(element, 0)
	}
	p.projectDisappeared(element.Project, element)
	p.m.Model().Remove(element)
}

func (p *processor) projectAppeared(name string, element domain.Element) {
	p.skip[name] = struct{}{}
	p.m.Model().AddChild(element)
	p.m.engine.Table().ResetWithDependents(name)
	p.m.indexer.IndexAll(name)
	p.m.roots.markStale()
}

func (p *processor) projectDisappeared(name string, _ domain.Element) {
	p.skip[name] = struct{}{}
	p.m.engine.Table().ResetWithDependents(name)
	p.m.engine.Forget(name)
	p.m.indexer.DiscardJobs(name)
	p.m.indexer.RemoveIndexFamily(domain.ProjectPath(name))
	p.m.roots.markStale()
}

// checkClasspath reloads the raw classpath when the classpath file changed and
// records the classpath change on the delta.
func (p *processor) checkClasspath(ctx context.Context, pd *domain.ResourceDelta, name string) {
	if pd.FindMember(domain.ClasspathFilePath(name)) == nil {
		return
	}
	p.m.roots.markStale()
	p.m.Model().Close(domain.ProjectElement(name))

	change, err := p.m.engine.Reload(ctx, name)
	if err != nil {
		p.m.logger.Error(err)
		return
	}
	if change == nil {
		return
	}
	if _, err := change.Generate(ctx, p.delta); err != nil {
		p.m.logger.Error(err)
		return
	}
	p.changes = append(p.changes, change)
}

func (p *processor) traverseProject(ctx context.Context, pd *domain.ResourceDelta) {
	name := pd.Path.FirstSegment()
	projectPath := domain.ProjectPath(name)
	p.cursor = cursor{}
	p.cursor.push(domain.ProjectElement(name))

	parentType := domain.ElementProject
	var root *domain.RootInfo
	if info, ok := p.roots.Root(name, projectPath); ok {
		root = &info
		parentType = domain.ElementRoot
		p.cursor.push(domain.RootElement(name, projectPath))
	}
	for _, child := range pd.Children {
		p.traverse(ctx, child, parentType, root)
	}
}

func (p *processor) traverse(ctx context.Context, d *domain.ResourceDelta, parentType domain.ElementType, root *domain.RootInfo) {
	project := d.Path.FirstSegment()
	roots := p.roots
	if d.Kind == domain.ResourceRemoved {
		roots = p.oldRoots
	}
	if p.isFilteredOutput(project, d.Path, roots) {
		return
	}
	p.cursor.popUntilPrefixOf(d.Path)

	typ, info := p.elementType(d, parentType, root, roots)
	if typ == nonJava {
		if !d.IsFolderLike() || !roots.HasNestedRoot(project, d.Path) {
			p.nonJavaChanged(d)
			return
		}
		for _, child := range d.Children {
			p.traverse(ctx, child, nonJava, root)
		}
		return
	}

	element := p.handle(d.Path, typ, info)
	if !p.updateCurrentDeltaAndIndex(d, typ, element, info) {
		return
	}
	p.cursor.push(element)
	for _, child := range d.Children {
		p.traverse(ctx, child, typ, &info)
	}
}

// elementType classifies a resource against the roots of its project.
func (p *processor) elementType(
	d *domain.ResourceDelta,
	parentType domain.ElementType,
	root *domain.RootInfo,
	roots *RootTable,
) (domain.ElementType, domain.RootInfo) {
	if info, ok := roots.Root(d.Path.FirstSegment(), d.Path); ok {
		return domain.ElementRoot, info
	}
	if root == nil || (parentType != domain.ElementRoot && parentType != domain.ElementPackage) {
		return nonJava, domain.RootInfo{}
	}
	if root.IsArchive() || !root.Path.IsPrefixOf(d.Path) {
		return nonJava, domain.RootInfo{}
	}

	name := d.Name()
	if d.IsFolderLike() {
		if domain.IsValidPackageSegment(name) && !root.IsExcluded(d.Path, true) {
			return domain.ElementPackage, *root
		}
		return nonJava, domain.RootInfo{}
	}
	switch {
	case root.IsSource() && domain.IsCompilationUnitName(name) && !root.IsExcluded(d.Path, false):
		return domain.ElementCompilationUnit, *root
	case !root.IsSource() && domain.IsClassFileName(name):
		return domain.ElementClassFile, *root
	}
	return nonJava, domain.RootInfo{}
}

// classify resolves the element a path stands for without a resource delta.
// It is used for the counterpart of a move.
func (p *processor) classify(path domain.Path, isFolder bool, roots *RootTable) (domain.Element, bool) {
	project := path.FirstSegment()
	var root domain.RootInfo
	found := false
	for _, info := range roots.ProjectRoots(project) {
		if info.Path.IsPrefixOf(path) && (!found || info.Path.SegmentCount() > root.Path.SegmentCount()) {
			root, found = info, true
		}
	}
	if !found {
		return domain.Element{}, false
	}
	if path == root.Path {
		return domain.RootElement(project, root.Path), true
	}
	if root.IsArchive() || p.isFilteredOutput(project, path, roots) {
		return domain.Element{}, false
	}

	rel := path.MakeRelativeTo(root.Path)
	folders := rel.Segments()
	if !isFolder {
		folders = folders[:len(folders)-1]
	}
	for _, seg := range folders {
		if !domain.IsValidPackageSegment(seg) {
			return domain.Element{}, false
		}
	}
	if root.IsExcluded(path, isFolder) && (isFolder || root.IsSource()) {
		return domain.Element{}, false
	}
	if isFolder {
		return p.handle(path, domain.ElementPackage, root), true
	}
	name := path.LastSegment()
	switch {
	case root.IsSource() && domain.IsCompilationUnitName(name):
		return p.handle(path, domain.ElementCompilationUnit, root), true
	case !root.IsSource() && domain.IsClassFileName(name):
		return p.handle(path, domain.ElementClassFile, root), true
	}
	return domain.Element{}, false
}

// handle builds the element of a classified resource.
func (p *processor) handle(path domain.Path, typ domain.ElementType, root domain.RootInfo) domain.Element {
	project := root.ProjectName()
	switch typ {
	case domain.ElementRoot:
		return domain.RootElement(project, root.Path)
	case domain.ElementPackage:
		return domain.PackageElement(project, root.Path, domain.PackageName(path.MakeRelativeTo(root.Path)))
	case domain.ElementCompilationUnit:
		pkg := domain.PackageElement(project, root.Path, domain.PackageName(path.Parent().MakeRelativeTo(root.Path)))
		return domain.CompilationUnitElement(pkg, path.LastSegment())
	default:
		pkg := domain.PackageElement(project, root.Path, domain.PackageName(path.Parent().MakeRelativeTo(root.Path)))
		return domain.ClassFileElement(pkg, path.LastSegment())
	}
}

// updateCurrentDeltaAndIndex records a Java element change on the delta,
// keeps the model and the index in sync and reports whether the children of
// the resource must be visited.
func (p *processor) updateCurrentDeltaAndIndex(
	d *domain.ResourceDelta,
	typ domain.ElementType,
	element domain.Element,
	root domain.RootInfo,
) bool {
	switch d.Kind {
	case domain.ResourceAdded:
		p.elementAdded(d, typ, element)
		p.updateIndex(d.Kind, typ, d.Path, root)
		return typ == domain.ElementPackage
	case domain.ResourceRemoved:
		p.elementRemoved(d, typ, element)
		p.updateIndex(d.Kind, typ, d.Path, root)
		return typ == domain.ElementPackage
	}

	contentChanged := d.Flags&(domain.FlagContent|domain.FlagEncoding) != 0
	switch typ {
	case domain.ElementCompilationUnit, domain.ElementClassFile:
		if contentChanged {
			p.contentChanged(typ, element)
			p.updateIndex(d.Kind, typ, d.Path, root)
			if typ == domain.ElementCompilationUnit {
				p.cachesToReset[element.Project] = struct{}{}
			}
		}
		return false
	case domain.ElementRoot:
		if root.IsArchive() || !d.IsFolderLike() {
			if contentChanged {
				p.archiveChanged(element, root)
			}
			return false
		}
		return true
	default:
		return true
	}
}

func (p *processor) elementAdded(d *domain.ResourceDelta, typ domain.ElementType, element domain.Element) {
	if d.Has(domain.FlagMovedFrom) && !d.MovedFromPath.IsEmpty() {
		if from, ok := p.classify(d.MovedFromPath, d.IsFolderLike(), p.oldRoots); ok {
			p.delta.MovedTo(element, from)
		} else {
			p.delta.Added(element, 0)
		}
	} else {
		p.delta.Added(element, 0)
	}
	p.m.Model().AddChild(element)
	if typ != domain.ElementClassFile {
		p.cachesToReset[element.Project] = struct{}{}
	}
}

func (p *processor) elementRemoved(d *domain.ResourceDelta, typ domain.ElementType, element domain.Element) {
	if d.Has(domain.FlagMovedTo) && !d.MovedToPath.IsEmpty() {
		if to, ok := p.classify(d.MovedToPath, d.IsFolderLike(), p.roots); ok {
			p.delta.MovedFrom(element, to)
		} else {
			p.delta.Removed(element, 0)
		}
	} else {
		p.delta.Removed(element, 0)
	}
	p.m.Model().Remove(element)
	if typ != domain.ElementClassFile {
		p.cachesToReset[element.Project] = struct{}{}
	}
}

func (p *processor) contentChanged(typ domain.ElementType, element domain.Element) {
	flags := domain.FContent
	if typ == domain.ElementCompilationUnit && p.m.Model().IsWorkingCopy(element) {
		flags |= domain.FPrimaryResource
	}
	p.m.Model().Close(element)
	p.delta.Changed(element, flags)
}

func (p *processor) archiveChanged(element domain.Element, root domain.RootInfo) {
	p.m.Model().Close(element)
	p.delta.Changed(element, domain.FContent|domain.FArchiveContentChanged)
	p.m.engine.ArchiveChanged(root.Path)
	p.classpaths[root.ProjectName()] = struct{}{}
	p.m.indexer.IndexLibrary(root.Path, root.ProjectName(), "")
}

// nonJavaChanged attaches a non-Java resource delta to the innermost enclosing
// Java element.
func (p *processor) nonJavaChanged(d *domain.ResourceDelta) {
	parent := p.cursor.current()
	switch d.Kind {
	case domain.ResourceAdded:
		p.m.Model().AddNonJava(parent, d.Path)
	case domain.ResourceRemoved:
		p.m.Model().RemoveNonJava(parent, d.Path)
	}
	p.delta.Changed(parent, 0).AddResourceDelta(d)
}

func (p *processor) updateIndex(kind domain.ResourceDeltaKind, typ domain.ElementType, path domain.Path, root domain.RootInfo) {
	project := root.ProjectName()
	projectPath := domain.ProjectPath(project)
	removed := kind == domain.ResourceRemoved

	switch typ {
	case domain.ElementCompilationUnit:
		if removed {
			p.m.indexer.Remove(path.MakeRelativeTo(projectPath), projectPath)
			return
		}
		p.m.indexer.AddSource(path, projectPath, "")
	case domain.ElementClassFile:
		if removed {
			p.m.indexer.Remove(path.MakeRelativeTo(root.Path), root.Path)
			return
		}
		p.m.indexer.AddBinary(path, root.Path)
	case domain.ElementRoot:
		switch {
		case root.IsSource() && removed:
			p.m.indexer.RemoveSourceFolder(project, root.Path, root.Inclusion, root.Exclusion)
		case root.IsSource():
			p.m.indexer.IndexSourceFolder(project, root.Path, root.Inclusion, root.Exclusion)
		case removed:
			p.m.indexer.DiscardJobs(root.Path.String())
			p.m.indexer.RemoveIndex(root.Path)
		default:
			p.m.indexer.IndexLibrary(root.Path, project, "")
		}
	}
}

// isFilteredOutput reports whether path lies in the output location of its
// project without being a root itself.
func (p *processor) isFilteredOutput(project string, path domain.Path, roots *RootTable) bool {
	output, ok := p.outputs[project]
	if !ok {
		var err error
		output, err = p.m.engine.OutputLocation(project)
		if err != nil {
			output = ""
		}
		p.outputs[project] = output
	}
	if output.IsEmpty() || output == domain.ProjectPath(project) || !output.IsPrefixOf(path) {
		return false
	}
	for cur := path; output.IsPrefixOf(cur); cur = cur.Parent() {
		if _, isRoot := roots.Root(project, cur); isRoot {
			return false
		}
	}
	return true
}

// finish applies the batched cache resets and schedules indexing for the
// classpath changes of the pass.
func (p *processor) finish() {
	table := p.m.engine.Table()
	for name := range p.cachesToReset {
		if info, ok := table.Lookup(name); ok {
			info.ResetSecondaryTypes()
		}
	}
	for name := range p.classpaths {
		table.ResetWithDependents(name)
		p.m.roots.markStale()
	}
	for _, change := range p.changes {
		change.RequestIndexing(p.m.indexer)
	}
	if n := len(p.changes); n > 0 {
		p.m.logger.Info(fmt.Sprintf("classpath changed in %d project(s)", n))
	}
}
