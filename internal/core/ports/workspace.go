package ports

import (
	"time"

	"go.trai.ch/jmodel/internal/core/domain"
)

//go:generate mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks

// Project describes a project of the workspace.
type Project struct {
	// Name is the project name, also the first segment of its workspace paths.
	Name string
	// Location is the absolute OS path of the project directory.
	Location string
	// Open reports whether the project is open.
	Open bool
	// JavaNature reports whether the project carries the Java nature.
	JavaNature bool
}

// FileStat is the part of a file's metadata the model relies on.
type FileStat struct {
	ModTime time.Time
	Size    int64
	IsDir   bool
}

// Workspace is the resource tree the model is built on.
type Workspace interface {
	// Root returns the OS path of the workspace root.
	Root() string
	// Projects lists the projects in name order.
	Projects() []Project
	// Project returns the project with the given name.
	Project(name string) (Project, bool)
	// Exists reports whether a workspace path names an existing resource.
	Exists(path domain.Path) bool
	// IsFolder reports whether a workspace path names a folder or project.
	IsFolder(path domain.Path) bool
	// Location maps a path to an OS path. internal is true when the path
	// lies inside a workspace project; other paths are taken as external OS paths.
	Location(path domain.Path) (osPath string, internal bool)
	// ReadFile reads a workspace file.
	ReadFile(path domain.Path) ([]byte, error)
	// WriteFile writes a workspace file, creating parent folders.
	WriteFile(path domain.Path, data []byte) error
	// Members lists the direct children of a workspace folder.
	Members(path domain.Path) ([]domain.Path, error)
	// Stat returns the metadata of an OS path.
	Stat(osPath string) (FileStat, error)
}
