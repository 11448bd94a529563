package domain

// RootInfo identifies the resource subtree of a package fragment root and the
// patterns filtering it.
type RootInfo struct {
	Project   string
	Path      Path
	Inclusion []Path
	Exclusion []Path
	Kind      EntryKind
}

// NewRootInfo builds the root info of a resolved source or library entry.
func NewRootInfo(project string, entry ClasspathEntry) RootInfo {
	return RootInfo{
		Project:   project,
		Path:      entry.Path(),
		Inclusion: entry.InclusionPatterns(),
		Exclusion: entry.ExclusionPatterns(),
		Kind:      entry.Kind(),
	}
}

// ProjectName returns the owning project name.
func (ri RootInfo) ProjectName() string {
	return ri.Project
}

// IsSource reports whether the root holds source files.
func (ri RootInfo) IsSource() bool {
	return ri.Kind == EntrySource
}

// IsArchive reports whether the root is a jar or zip file.
func (ri RootInfo) IsArchive() bool {
	return ri.Kind == EntryLibrary && ri.Path.IsArchive()
}

// IsExcluded reports whether a path inside the root is filtered out.
func (ri RootInfo) IsExcluded(path Path, isFolder bool) bool {
	if !ri.Path.IsPrefixOf(path) || path == ri.Path {
		return false
	}
	return IsExcluded(path.MakeRelativeTo(ri.Path), ri.Inclusion, ri.Exclusion, isFolder)
}
