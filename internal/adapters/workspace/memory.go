package workspace

import (
	"io/fs"
	"maps"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/zerr"
)

// Memory is an in-memory workspace. Files outside the root stand for external
// archives. Every write advances a private clock by one second so that
// modification times are deterministic.
//
// Memory is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	root     string
	projects map[string]ports.Project
	files    map[string]*memFile
	dirs     map[string]bool
	now      time.Time
}

type memFile struct {
	content []byte
	modTime time.Time
}

var _ ports.Workspace = (*Memory)(nil)

// NewMemory creates an empty in-memory workspace rooted at root.
func NewMemory(root string) *Memory {
	root = path.Clean(filepath.ToSlash(root))
	return &Memory{
		root:     root,
		projects: make(map[string]ports.Project),
		files:    make(map[string]*memFile),
		dirs:     map[string]bool{root: true},
		now:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddProject creates an open project.
func (m *Memory) AddProject(name string, javaNature bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := m.key(domain.ProjectPath(name))
	m.projects[name] = ports.Project{Name: name, Location: filepath.FromSlash(key), Open: true, JavaNature: javaNature}
	m.mkdirAll(key)
}

// SetOpen opens or closes a project.
func (m *Memory) SetOpen(name string, open bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.projects[name]; ok {
		p.Open = open
		m.projects[name] = p
	}
}

// SetJavaNature adds or removes the Java nature of a project.
func (m *Memory) SetJavaNature(name string, javaNature bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.projects[name]; ok {
		p.JavaNature = javaNature
		m.projects[name] = p
	}
}

// RemoveProject deletes a project and its content.
func (m *Memory) RemoveProject(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, name)
	m.deleteTree(m.key(domain.ProjectPath(name)))
}

// Mkdir creates a workspace folder and its parents.
func (m *Memory) Mkdir(p domain.Path) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAll(m.key(p))
}

// Delete removes a workspace resource and everything below it.
func (m *Memory) Delete(p domain.Path) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteTree(m.key(p))
}

// WriteExternal writes a file outside the workspace.
func (m *Memory) WriteExternal(osPath string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.write(path.Clean(filepath.ToSlash(osPath)), data)
}

// DeleteExternal removes a file outside the workspace.
func (m *Memory) DeleteExternal(osPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteTree(path.Clean(filepath.ToSlash(osPath)))
}

// Root returns the workspace root.
func (m *Memory) Root() string {
	return filepath.FromSlash(m.root)
}

// Projects lists the projects in name order.
func (m *Memory) Projects() []ports.Project {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := slices.Sorted(maps.Keys(m.projects))
	out := make([]ports.Project, 0, len(names))
	for _, name := range names {
		out = append(out, m.projects[name])
	}
	return out
}

// Project returns the project with the given name.
func (m *Memory) Project(name string) (ports.Project, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[name]
	return p, ok
}

// Exists reports whether a workspace resource exists.
func (m *Memory) Exists(p domain.Path) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := m.key(p)
	_, isFile := m.files[key]
	return isFile || m.dirs[key]
}

// IsFolder reports whether a workspace path names a folder or project.
func (m *Memory) IsFolder(p domain.Path) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[m.key(p)]
}

// Location maps a path to an OS path.
func (m *Memory) Location(p domain.Path) (string, bool) {
	m.mu.RLock()
	_, internal := m.projects[p.FirstSegment()]
	m.mu.RUnlock()
	if internal && p.IsAbsolute() {
		return filepath.FromSlash(m.key(p)), true
	}
	return p.ToOS(), false
}

// ReadFile reads a workspace file.
func (m *Memory) ReadFile(p domain.Path) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[m.key(p)]
	if !ok {
		return nil, zerr.With(zerr.Wrap(fs.ErrNotExist, domain.ErrResourceNotFound.Error()), "path", p.String())
	}
	return slices.Clone(f.content), nil
}

// WriteFile writes a workspace file, creating parent folders.
func (m *Memory) WriteFile(p domain.Path, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.FirstSegment()]; !ok {
		return zerr.With(zerr.Wrap(domain.ErrProjectNotFound, "cannot write file"), "project", p.FirstSegment())
	}
	m.write(m.key(p), data)
	return nil
}

// Members lists the direct children of a workspace folder in name order.
func (m *Memory) Members(p domain.Path) ([]domain.Path, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := m.key(p)
	if !m.dirs[key] {
		return nil, zerr.With(zerr.Wrap(fs.ErrNotExist, domain.ErrResourceNotFound.Error()), "path", p.String())
	}
	var names []string
	for child := range m.children(key) {
		names = append(names, child)
	}
	slices.Sort(names)
	out := make([]domain.Path, 0, len(names))
	for _, name := range names {
		out = append(out, p.Append(name))
	}
	return out, nil
}

// Stat returns the metadata of an OS path.
func (m *Memory) Stat(osPath string) (ports.FileStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := path.Clean(filepath.ToSlash(osPath))
	if f, ok := m.files[key]; ok {
		return ports.FileStat{ModTime: f.modTime, Size: int64(len(f.content))}, nil
	}
	if m.dirs[key] {
		return ports.FileStat{ModTime: m.now, IsDir: true}, nil
	}
	return ports.FileStat{}, &fs.PathError{Op: "stat", Path: osPath, Err: fs.ErrNotExist}
}

func (m *Memory) key(p domain.Path) string {
	return path.Join(m.root, strings.TrimPrefix(p.String(), "/"))
}

func (m *Memory) write(key string, data []byte) {
	m.now = m.now.Add(time.Second)
	m.mkdirAll(path.Dir(key))
	m.files[key] = &memFile{content: slices.Clone(data), modTime: m.now}
}

func (m *Memory) mkdirAll(key string) {
	for dir := key; ; dir = path.Dir(dir) {
		m.dirs[dir] = true
		if dir == "/" || dir == "." || dir == m.root {
			return
		}
	}
}

func (m *Memory) deleteTree(key string) {
	prefix := key + "/"
	for k := range m.files {
		if k == key || strings.HasPrefix(k, prefix) {
			delete(m.files, k)
		}
	}
	for k := range m.dirs {
		if k == key || strings.HasPrefix(k, prefix) {
			delete(m.dirs, k)
		}
	}
}

func (m *Memory) children(dir string) map[string]struct{} {
	prefix := dir + "/"
	if dir == "/" {
		prefix = "/"
	}
	out := make(map[string]struct{})
	collect := func(k string) {
		if k == dir || !strings.HasPrefix(k, prefix) {
			return
		}
		name, _, _ := strings.Cut(strings.TrimPrefix(k, prefix), "/")
		out[name] = struct{}{}
	}
	for k := range m.files {
		collect(k)
	}
	for k := range m.dirs {
		collect(k)
	}
	return out
}
