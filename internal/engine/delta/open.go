package delta

import (
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/zerr"
)

// open computes the children and non-Java resources of an element from the
// workspace and the current root table.
func (m *Manager) open(element domain.Element) ([]domain.Element, []domain.Path, error) {
	roots, _ := m.roots.tables()

	switch element.Type {
	case domain.ElementModel:
		var children []domain.Element
		var nonJava []domain.Path
		for _, p := range m.ws.Projects() {
			if p.Open && p.JavaNature {
				children = append(children, domain.ProjectElement(p.Name))
				continue
			}
			nonJava = append(nonJava, domain.ProjectPath(p.Name))
		}
		return children, nonJava, nil
	case domain.ElementProject:
		return m.openProject(element.Project, roots)
	case domain.ElementRoot:
		info, ok := roots.Root(element.Project, element.Root)
		if !ok {
			return nil, nil, missingRoot(element)
		}
		return m.openRoot(info, roots)
	case domain.ElementPackage:
		info, ok := roots.Root(element.Project, element.Root)
		if !ok {
			return nil, nil, missingRoot(element)
		}
		return m.openPackage(element, info)
	default:
		return nil, nil, nil
	}
}

func missingRoot(element domain.Element) error {
	err := zerr.Wrap(domain.ErrResourceNotFound, "package fragment root is not on the classpath")
	return zerr.With(zerr.With(err, "project", element.Project), "root", element.Root.String())
}

func (m *Manager) openProject(name string, roots *RootTable) ([]domain.Element, []domain.Path, error) {
	project, ok := m.ws.Project(name)
	if !ok {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrProjectNotFound, "cannot open project"), "project", name)
	}
	if !project.Open {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrProjectClosed, "cannot open project"), "project", name)
	}

	var children []domain.Element
	seen := make(map[domain.Path]struct{})
	for _, info := range roots.ProjectRoots(name) {
		if _, dup := seen[info.Path]; dup {
			continue
		}
		seen[info.Path] = struct{}{}
		children = append(children, domain.RootElement(name, info.Path))
	}

	projectPath := domain.ProjectPath(name)
	if _, isRoot := roots.Root(name, projectPath); isRoot {
		return children, nil, nil
	}
	output, _ := m.engine.OutputLocation(name)
	members, err := m.ws.Members(projectPath)
	if err != nil {
		return nil, nil, err
	}
	var nonJava []domain.Path
	for _, member := range members {
		if _, isRoot := roots.Root(name, member); isRoot || member == output || roots.HasNestedRoot(name, member) {
			continue
		}
		nonJava = append(nonJava, member)
	}
	return children, nonJava, nil
}

func (m *Manager) openRoot(info domain.RootInfo, roots *RootTable) ([]domain.Element, []domain.Path, error) {
	project := info.ProjectName()
	if info.IsArchive() || !m.ws.IsFolder(info.Path) {
		return nil, nil, nil
	}

	output, _ := m.engine.OutputLocation(project)
	children := []domain.Element{domain.PackageElement(project, info.Path, "")}
	var nonJava []domain.Path

	var walk func(folder domain.Path, top bool) error
	walk = func(folder domain.Path, top bool) error {
		members, err := m.ws.Members(folder)
		if err != nil {
			return err
		}
		for _, member := range members {
			if _, nested := roots.Root(project, member); nested || (member == output && output != info.Path) {
				continue
			}
			if !m.ws.IsFolder(member) {
				if top && !m.isJavaFile(member, info) {
					nonJava = append(nonJava, member)
				}
				continue
			}
			if !domain.IsValidPackageSegment(member.LastSegment()) || info.IsExcluded(member, true) {
				if top {
					nonJava = append(nonJava, member)
				}
				continue
			}
			rel := member.MakeRelativeTo(info.Path)
			children = append(children, domain.PackageElement(project, info.Path, domain.PackageName(rel)))
			if err := walk(member, false); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(info.Path, true); err != nil {
		return nil, nil, err
	}
	return children, nonJava, nil
}

func (m *Manager) openPackage(pkg domain.Element, info domain.RootInfo) ([]domain.Element, []domain.Path, error) {
	if info.IsArchive() || !m.ws.IsFolder(pkg.Path) {
		return nil, nil, nil
	}
	members, err := m.ws.Members(pkg.Path)
	if err != nil {
		return nil, nil, err
	}

	var children []domain.Element
	var nonJava []domain.Path
	for _, member := range members {
		if m.ws.IsFolder(member) {
			if !domain.IsValidPackageSegment(member.LastSegment()) || info.IsExcluded(member, true) {
				nonJava = append(nonJava, member)
			}
			continue
		}
		switch {
		case !m.isJavaFile(member, info):
			nonJava = append(nonJava, member)
		case info.IsSource():
			children = append(children, domain.CompilationUnitElement(pkg, member.LastSegment()))
		default:
			children = append(children, domain.ClassFileElement(pkg, member.LastSegment()))
		}
	}
	return children, nonJava, nil
}

func (m *Manager) isJavaFile(path domain.Path, info domain.RootInfo) bool {
	name := path.LastSegment()
	if info.IsSource() {
		return domain.IsCompilationUnitName(name) && !info.IsExcluded(path, false)
	}
	return domain.IsClassFileName(name)
}
