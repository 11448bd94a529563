package domain

import "strings"

// ElementType is the type of a Java model element.
type ElementType uint8

const (
	// ElementModel is the root of the model.
	ElementModel ElementType = iota + 1
	// ElementProject is a Java project.
	ElementProject
	// ElementRoot is a package fragment root.
	ElementRoot
	// ElementPackage is a package fragment.
	ElementPackage
	// ElementCompilationUnit is a .java file in a source root.
	ElementCompilationUnit
	// ElementClassFile is a .class file in a binary root.
	ElementClassFile
)

// String returns the type name.
func (t ElementType) String() string {
	switch t {
	case ElementModel:
		return "model"
	case ElementProject:
		return "project"
	case ElementRoot:
		return "root"
	case ElementPackage:
		return "package"
	case ElementCompilationUnit:
		return "compilation unit"
	case ElementClassFile:
		return "class file"
	default:
		return "unknown"
	}
}

// DefaultPackageName is the display name of the unnamed package.
const DefaultPackageName = "<default>"

// Element is a handle on a model element. Handles are plain values: two handles
// denoting the same element are equal.
type Element struct {
	Type    ElementType
	Project string
	Root    Path
	Package string
	Path    Path
}

// ModelElement returns the handle of the model root.
func ModelElement() Element {
	return Element{Type: ElementModel, Path: separator}
}

// ProjectElement returns the handle of a project.
func ProjectElement(name string) Element {
	return Element{Type: ElementProject, Project: name, Path: Path(separator + name)}
}

// RootElement returns the handle of a package fragment root.
func RootElement(project string, root Path) Element {
	return Element{Type: ElementRoot, Project: project, Root: root, Path: root}
}

// PackageElement returns the handle of a package in a root.
func PackageElement(project string, root Path, pkg string) Element {
	path := root
	if pkg != "" {
		path = root.Append(strings.ReplaceAll(pkg, ".", separator))
	}
	return Element{Type: ElementPackage, Project: project, Root: root, Package: pkg, Path: path}
}

// CompilationUnitElement returns the handle of a compilation unit in a package.
func CompilationUnitElement(pkg Element, fileName string) Element {
	return Element{
		Type:    ElementCompilationUnit,
		Project: pkg.Project,
		Root:    pkg.Root,
		Package: pkg.Package,
		Path:    pkg.Path.Append(fileName),
	}
}

// ClassFileElement returns the handle of a class file in a package.
func ClassFileElement(pkg Element, fileName string) Element {
	e := CompilationUnitElement(pkg, fileName)
	e.Type = ElementClassFile
	return e
}

// IsZero reports whether the handle is unset.
func (e Element) IsZero() bool {
	return e.Type == 0
}

// Key returns a stable identity string for the handle.
func (e Element) Key() string {
	switch e.Type {
	case ElementModel:
		return "model"
	case ElementProject:
		return "project:" + e.Project
	case ElementPackage:
		return "package:" + e.Project + "|" + string(e.Root) + "|" + e.Package
	default:
		return e.Type.String() + ":" + e.Project + "|" + string(e.Path)
	}
}

// Parent returns the handle of the enclosing element. The model is its own parent.
func (e Element) Parent() Element {
	switch e.Type {
	case ElementProject:
		return ModelElement()
	case ElementRoot:
		return ProjectElement(e.Project)
	case ElementPackage:
		return RootElement(e.Project, e.Root)
	case ElementCompilationUnit, ElementClassFile:
		return PackageElement(e.Project, e.Root, e.Package)
	default:
		return ModelElement()
	}
}

// Ancestors returns the chain of enclosing handles from the model down to the parent.
func (e Element) Ancestors() []Element {
	var chain []Element
	for cur := e; cur.Type != ElementModel; {
		cur = cur.Parent()
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Name returns the display name of the element.
func (e Element) Name() string {
	switch e.Type {
	case ElementModel:
		return "Java Model"
	case ElementProject:
		return e.Project
	case ElementRoot:
		projectPath := Path(separator + e.Project)
		if projectPath.IsPrefixOf(e.Root) && e.Root != projectPath {
			return string(e.Root.MakeRelativeTo(projectPath))
		}
		if e.Root == projectPath {
			return "<project root>"
		}
		return string(e.Root)
	case ElementPackage:
		if e.Package == "" {
			return DefaultPackageName
		}
		return e.Package
	default:
		return e.Path.LastSegment()
	}
}
