package indexer

import (
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/zerr"
)

// manifestVersion is the version written to new index manifests.
const manifestVersion = 1

// IndexKind tells library indexes from project source indexes.
type IndexKind string

const (
	// KindLibrary is the index of a library root.
	KindLibrary IndexKind = "library"
	// KindProject is the index of the sources and binaries of a project.
	KindProject IndexKind = "project"
)

// Index is the recorded state of one index.
type Index struct {
	Kind     IndexKind `json:"kind"`
	Project  string    `json:"project,omitempty"`
	Location string    `json:"location,omitempty"`
	// Digest is the xxhash of an archive library.
	Digest string `json:"digest,omitempty"`
	// Files maps indexed workspace paths to their xxhash.
	Files map[string]string `json:"files,omitempty"`
}

type manifest struct {
	Version int              `json:"version"`
	Indexes map[string]Index `json:"indexes"`
}

// Store keeps the index manifest in a flat JSON file.
type Store struct {
	path    string
	mu      sync.RWMutex
	indexes map[domain.Path]Index
}

// NewStore creates a Store backed by the file at path, loading it when present.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:    filepath.Clean(path),
		indexes: make(map[domain.Path]Index),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrIndexStoreReadFailed.Error()), "path", s.path)
	}
	if len(data) == 0 {
		return nil
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIndexStoreReadFailed.Error()), "path", s.path)
	}
	for key, index := range m.Indexes {
		s.indexes[domain.NewPath(key)] = index
	}
	return nil
}

// Save writes the manifest.
func (s *Store) Save() error {
	s.mu.RLock()
	m := manifest{Version: manifestVersion, Indexes: make(map[string]Index, len(s.indexes))}
	for path, index := range s.indexes {
		m.Indexes[path.String()] = index
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrIndexStoreWriteFailed.Error())
	}
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIndexStoreWriteFailed.Error()), "path", s.path)
	}
	//nolint:gosec // Path is cleaned and derived from the workspace root
	if err := os.WriteFile(s.path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIndexStoreWriteFailed.Error()), "path", s.path)
	}
	return nil
}

// Get returns the index recorded for path.
func (s *Store) Get(path domain.Path) (Index, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index, ok := s.indexes[path]
	if ok {
		index.Files = maps.Clone(index.Files)
	}
	return index, ok
}

// Put records the index of path.
func (s *Store) Put(path domain.Path, index Index) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[path] = index
}

// Update applies fn to the index of path, creating it with kind when missing.
func (s *Store) Update(path domain.Path, kind IndexKind, fn func(*Index)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.indexes[path]
	if !ok {
		index = Index{Kind: kind}
	}
	if index.Files == nil {
		index.Files = make(map[string]string)
	}
	fn(&index)
	s.indexes[path] = index
}

// Delete drops the index of path.
func (s *Store) Delete(path domain.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indexes, path)
}

// DeleteFamily drops every index whose path starts with prefix.
func (s *Store) DeleteFamily(prefix domain.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path := range s.indexes {
		if prefix.IsPrefixOf(path) {
			delete(s.indexes, path)
		}
	}
}

// Paths returns the indexed paths in sorted order.
func (s *Store) Paths() []domain.Path {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.indexes))
}
