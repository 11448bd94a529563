// Package workspace provides the resource trees the Java model is built on.
package workspace

import (
	"encoding/xml"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/zerr"
)

// OS is a workspace backed by a directory of the local file system. Every
// top-level directory holding a .project file is a project. Open state is
// kept in memory; projects start open.
//
// OS is safe for concurrent use.
type OS struct {
	mu     sync.RWMutex
	root   string
	closed map[string]bool
}

var _ ports.Workspace = (*OS)(nil)

// NewOS creates a workspace without a root. Open must be called before use.
func NewOS() *OS {
	return &OS{closed: make(map[string]bool)}
}

// Open roots the workspace at dir and reopens every project.
func (w *OS) Open(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWorkspaceNotFound.Error()), "root", dir)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWorkspaceNotFound.Error()), "root", abs)
	}
	if !info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrWorkspaceNotFound, "workspace root is not a directory"), "root", abs)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.root = abs
	w.closed = make(map[string]bool)
	return nil
}

// Root returns the workspace root.
func (w *OS) Root() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.root
}

// CloseProject closes a project and returns the resource delta describing it.
// It returns nil when the project does not exist or is already closed.
func (w *OS) CloseProject(name string) *domain.ResourceDelta {
	return w.setOpen(name, false)
}

// OpenProject opens a closed project and returns the resource delta
// describing it. It returns nil when the project does not exist or is open.
func (w *OS) OpenProject(name string) *domain.ResourceDelta {
	return w.setOpen(name, true)
}

func (w *OS) setOpen(name string, open bool) *domain.ResourceDelta {
	if _, ok := w.Project(name); !ok {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed[name] == !open {
		return nil
	}
	if open {
		delete(w.closed, name)
	} else {
		w.closed[name] = true
	}
	return &domain.ResourceDelta{
		Kind:  domain.ResourceChanged,
		Flags: domain.FlagOpen,
		Path:  domain.ProjectPath(name),
		Type:  domain.TypeProject,
	}
}

// Projects lists the projects in name order.
func (w *OS) Projects() []ports.Project {
	root := w.Root()
	if root == "" {
		return nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var out []ports.Project
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == domain.MetaDirName {
			continue
		}
		if p, ok := w.Project(entry.Name()); ok {
			out = append(out, p)
		}
	}
	return out
}

// Project returns the project with the given name.
func (w *OS) Project(name string) (ports.Project, bool) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return ports.Project{}, false
	}
	w.mu.RLock()
	root, closed := w.root, w.closed[name]
	w.mu.RUnlock()
	if root == "" {
		return ports.Project{}, false
	}

	location := filepath.Join(root, name)
	data, err := os.ReadFile(filepath.Join(location, domain.ProjectFileName)) //nolint:gosec // path is below the workspace root
	if err != nil {
		return ports.Project{}, false
	}
	return ports.Project{
		Name:       name,
		Location:   location,
		Open:       !closed,
		JavaNature: hasJavaNature(data),
	}, true
}

type projectDescription struct {
	Natures []string `xml:"natures>nature"`
}

// hasJavaNature reports whether a .project file declares the Java nature. A
// malformed description declares no nature.
func hasJavaNature(data []byte) bool {
	var desc projectDescription
	if err := xml.Unmarshal(data, &desc); err != nil {
		return false
	}
	return slices.ContainsFunc(desc.Natures, func(n string) bool {
		return strings.TrimSpace(n) == domain.JavaNature
	})
}

// Exists reports whether a workspace resource exists.
func (w *OS) Exists(p domain.Path) bool {
	osPath, ok := w.internal(p)
	if !ok {
		return false
	}
	_, err := os.Stat(osPath)
	return err == nil
}

// IsFolder reports whether a workspace path names a folder or project.
func (w *OS) IsFolder(p domain.Path) bool {
	osPath, ok := w.internal(p)
	if !ok {
		return false
	}
	info, err := os.Stat(osPath)
	return err == nil && info.IsDir()
}

// Location maps a path to an OS path. Paths whose first segment names a
// project are internal.
func (w *OS) Location(p domain.Path) (string, bool) {
	if osPath, ok := w.internal(p); ok {
		return osPath, true
	}
	return p.ToOS(), false
}

func (w *OS) internal(p domain.Path) (string, bool) {
	if !p.IsAbsolute() || p.IsRoot() {
		return "", false
	}
	if _, ok := w.Project(p.FirstSegment()); !ok {
		return "", false
	}
	return filepath.Join(w.Root(), filepath.FromSlash(strings.TrimPrefix(p.String(), "/"))), true
}

// ReadFile reads a workspace file.
func (w *OS) ReadFile(p domain.Path) ([]byte, error) {
	osPath, ok := w.internal(p)
	if !ok {
		return nil, zerr.With(zerr.Wrap(fs.ErrNotExist, domain.ErrResourceNotFound.Error()), "path", p.String())
	}
	data, err := os.ReadFile(osPath) //nolint:gosec // path is below the workspace root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrResourceNotFound.Error()), "path", p.String())
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrResourceReadFailed.Error()), "path", p.String())
	}
	return data, nil
}

// WriteFile writes a workspace file, creating parent folders.
func (w *OS) WriteFile(p domain.Path, data []byte) error {
	osPath, ok := w.internal(p)
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrProjectNotFound, "cannot write file"), "project", p.FirstSegment())
	}
	if err := os.MkdirAll(filepath.Dir(osPath), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrResourceWriteFailed.Error()), "path", p.String())
	}
	if err := os.WriteFile(osPath, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrResourceWriteFailed.Error()), "path", p.String())
	}
	return nil
}

// Members lists the direct children of a workspace folder in name order.
func (w *OS) Members(p domain.Path) ([]domain.Path, error) {
	osPath, ok := w.internal(p)
	if !ok {
		return nil, zerr.With(zerr.Wrap(fs.ErrNotExist, domain.ErrResourceNotFound.Error()), "path", p.String())
	}
	entries, err := os.ReadDir(osPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrResourceNotFound.Error()), "path", p.String())
	}
	out := make([]domain.Path, 0, len(entries))
	for _, entry := range entries {
		out = append(out, p.Append(entry.Name()))
	}
	return out, nil
}

// Stat returns the metadata of an OS path.
func (w *OS) Stat(osPath string) (ports.FileStat, error) {
	info, err := os.Stat(osPath)
	if err != nil {
		return ports.FileStat{}, err
	}
	return ports.FileStat{ModTime: info.ModTime(), Size: info.Size(), IsDir: info.IsDir()}, nil
}

// workspacePath maps an OS path below the root to a workspace path.
func (w *OS) workspacePath(osPath string) (domain.Path, bool) {
	rel, err := filepath.Rel(w.Root(), osPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return domain.NewPath("/" + filepath.ToSlash(rel)), true
}
