package domain

import "path/filepath"

const (
	// MetaDirName is the name of the workspace metadata directory.
	MetaDirName = ".jmodel"

	// IndexFileName is the name of the index manifest.
	IndexFileName = "index.json"

	// ConfigFileName is the name of the workspace configuration file.
	ConfigFileName = "jmodel.yaml"

	// ClasspathFileName is the name of a project's classpath file.
	ClasspathFileName = ".classpath"

	// ProjectFileName is the name of a project's description file.
	ProjectFileName = ".project"

	// JavaNature is the nature id marking a project as a Java project.
	JavaNature = "org.eclipse.jdt.core.javanature"

	// ManifestName is the path of the manifest inside an archive.
	ManifestName = "META-INF/MANIFEST.MF"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultIndexPath returns the path of the index manifest below a workspace root.
// It joins .jmodel and index.json.
func DefaultIndexPath(root string) string {
	return filepath.Join(root, MetaDirName, IndexFileName)
}

// ClasspathFilePath returns the workspace path of a project's classpath file.
func ClasspathFilePath(project string) Path {
	return Path(separator + project + separator + ClasspathFileName)
}

// ProjectFilePath returns the workspace path of a project's description file.
func ProjectFilePath(project string) Path {
	return Path(separator + project + separator + ProjectFileName)
}

// ProjectPath returns the workspace path of a project.
func ProjectPath(project string) Path {
	return Path(separator + project)
}
