// Package indexer records what the Java model asked to index in a JSON index
// manifest below the workspace metadata directory.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// flushParallelism bounds the job families run concurrently by Flush.
const flushParallelism = 4

type job struct {
	key  domain.Path
	name string
	run  func(ctx context.Context) error
}

// belongsTo reports whether the job is part of family. A family is a path
// prefix or a project name.
func (j job) belongsTo(family string) bool {
	if strings.HasPrefix(family, "/") {
		return domain.NewPath(family).IsPrefixOf(j.key)
	}
	return j.key.FirstSegment() == family
}

// Indexer implements ports.Indexer. Requests are queued and run by Flush,
// which persists the manifest.
type Indexer struct {
	ws     ports.Workspace
	tracer ports.Tracer
	logger ports.Logger

	mu    sync.Mutex
	queue []job
	store *Store
}

var _ ports.Indexer = (*Indexer)(nil)

// New creates an Indexer without a manifest. Open must be called before Flush.
func New(ws ports.Workspace, tracer ports.Tracer, logger ports.Logger) *Indexer {
	return &Indexer{ws: ws, tracer: tracer, logger: logger}
}

// Open loads the manifest at path and drops every queued job.
func (ix *Indexer) Open(path string) error {
	store, err := NewStore(path)
	if err != nil {
		return err
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.store = store
	ix.queue = nil
	return nil
}

// Store returns the manifest store, or nil before Open.
func (ix *Indexer) Store() *Store {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.store
}

// Pending returns the names of the queued jobs in queue order.
func (ix *Indexer) Pending() []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	names := make([]string, len(ix.queue))
	for i, j := range ix.queue {
		names[i] = j.name
	}
	return names
}

// Flush runs the queued jobs and saves the manifest. Jobs sharing a key run
// in queue order; different keys run concurrently. A failing job is logged
// and does not stop the others.
func (ix *Indexer) Flush(ctx context.Context) error {
	ix.mu.Lock()
	queue, store := ix.queue, ix.store
	ix.queue = nil
	ix.mu.Unlock()
	if store == nil {
		return nil
	}

	ctx, span := ix.tracer.Start(ctx, "indexer.flush", ports.WithAttribute("jobs", len(queue)))
	defer span.End()

	var keys []domain.Path
	families := make(map[domain.Path][]job)
	for _, j := range queue {
		if _, ok := families[j.key]; !ok {
			keys = append(keys, j.key)
		}
		families[j.key] = append(families[j.key], j)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(flushParallelism)
	for _, key := range keys {
		g.Go(func() error {
			for _, j := range families[key] {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := j.run(gctx); err != nil {
					ix.logger.Error(err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return err
	}

	if err := store.Save(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (ix *Indexer) enqueue(key domain.Path, name string, run func(ctx context.Context, store *Store) error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	store := ix.store
	ix.queue = append(ix.queue, job{key: key, name: name, run: func(ctx context.Context) error {
		if store == nil {
			return nil
		}
		return run(ctx, store)
	}})
}

// DiscardJobs drops the queued jobs belonging to jobKey.
func (ix *Indexer) DiscardJobs(jobKey string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.queue = slices.DeleteFunc(ix.queue, func(j job) bool { return j.belongsTo(jobKey) })
}

// IndexAll indexes every compilation unit and class file of a project.
func (ix *Indexer) IndexAll(project string) {
	key := domain.ProjectPath(project)
	ix.enqueue(key, "index all "+project, func(ctx context.Context, store *Store) error {
		files, err := ix.digestTree(ctx, key, func(p domain.Path) bool {
			name := p.LastSegment()
			return domain.IsCompilationUnitName(name) || domain.IsClassFileName(name)
		})
		if err != nil {
			return err
		}
		store.Put(key, Index{Kind: KindProject, Project: project, Files: files})
		return nil
	})
}

// IndexLibrary indexes a library root: the digest of an archive, or the
// digests of the class files below a folder.
func (ix *Indexer) IndexLibrary(path domain.Path, project string, indexLocation string) {
	ix.enqueue(path, "index library "+path.String(), func(ctx context.Context, store *Store) error {
		index := Index{Kind: KindLibrary, Project: project, Location: indexLocation}
		if ix.ws.IsFolder(path) {
			files, err := ix.digestTree(ctx, path, func(p domain.Path) bool {
				return domain.IsClassFileName(p.LastSegment())
			})
			if err != nil {
				return err
			}
			index.Files = files
		} else {
			osPath, _ := ix.ws.Location(path)
			digest, err := digestOSFile(osPath)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					ix.logger.Info(fmt.Sprintf("skipping missing library %s", path))
					store.Delete(path)
					return nil
				}
				return err
			}
			index.Digest = digest
		}
		store.Put(path, index)
		return nil
	})
}

// IndexSourceFolder adds the compilation units of a source root to the
// project index.
func (ix *Indexer) IndexSourceFolder(project string, folder domain.Path, inclusion, exclusion []domain.Path) {
	key := domain.ProjectPath(project)
	ix.enqueue(key, "index source folder "+folder.String(), func(ctx context.Context, store *Store) error {
		files, err := ix.digestTree(ctx, folder, func(p domain.Path) bool {
			return domain.IsCompilationUnitName(p.LastSegment()) &&
				!domain.IsExcluded(p.MakeRelativeTo(folder), inclusion, exclusion, false)
		})
		if err != nil {
			return err
		}
		store.Update(key, KindProject, func(index *Index) {
			index.Project = project
			for path, digest := range files {
				index.Files[path] = digest
			}
		})
		return nil
	})
}

// RemoveSourceFolder drops the files of a source root from the project index.
func (ix *Indexer) RemoveSourceFolder(project string, folder domain.Path, inclusion, exclusion []domain.Path) {
	key := domain.ProjectPath(project)
	ix.enqueue(key, "remove source folder "+folder.String(), func(_ context.Context, store *Store) error {
		store.Update(key, KindProject, func(index *Index) {
			for path := range index.Files {
				p := domain.Path(path)
				if folder.IsPrefixOf(p) && !domain.IsExcluded(p.MakeRelativeTo(folder), inclusion, exclusion, false) {
					delete(index.Files, path)
				}
			}
		})
		return nil
	})
}

// RemoveIndex drops the index of a library.
func (ix *Indexer) RemoveIndex(path domain.Path) {
	ix.enqueue(path, "remove index "+path.String(), func(_ context.Context, store *Store) error {
		store.Delete(path)
		return nil
	})
}

// RemoveIndexFamily drops every index below prefix.
func (ix *Indexer) RemoveIndexFamily(prefix domain.Path) {
	ix.enqueue(prefix, "remove index family "+prefix.String(), func(_ context.Context, store *Store) error {
		store.DeleteFamily(prefix)
		return nil
	})
}

// AddSource indexes one compilation unit into the index of its project.
func (ix *Indexer) AddSource(file domain.Path, projectPath domain.Path, _ string) {
	ix.addFile(file, projectPath, KindProject, "add source "+file.String())
}

// AddBinary indexes one class file into the index of its container.
func (ix *Indexer) AddBinary(file domain.Path, containerPath domain.Path) {
	kind := KindLibrary
	if containerPath.SegmentCount() == 1 {
		kind = KindProject
	}
	ix.addFile(file, containerPath, kind, "add binary "+file.String())
}

func (ix *Indexer) addFile(file, containerPath domain.Path, kind IndexKind, name string) {
	ix.enqueue(containerPath, name, func(_ context.Context, store *Store) error {
		data, err := ix.ws.ReadFile(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		store.Update(containerPath, kind, func(index *Index) {
			index.Files[file.String()] = digest(data)
		})
		return nil
	})
}

// Remove drops a file, given relative to its container, from the container index.
func (ix *Indexer) Remove(relative domain.Path, containerPath domain.Path) {
	file := containerPath.Append(relative.String())
	ix.enqueue(containerPath, "remove "+file.String(), func(_ context.Context, store *Store) error {
		if _, ok := store.Get(containerPath); !ok {
			return nil
		}
		store.Update(containerPath, KindProject, func(index *Index) {
			delete(index.Files, file.String())
		})
		return nil
	})
}

// digestTree hashes the files below folder accepted by keep. A missing
// folder yields no files.
func (ix *Indexer) digestTree(ctx context.Context, folder domain.Path, keep func(domain.Path) bool) (map[string]string, error) {
	files := make(map[string]string)
	var walk func(p domain.Path) error
	walk = func(p domain.Path) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		members, err := ix.ws.Members(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		for _, member := range members {
			if member.LastSegment() == domain.MetaDirName {
				continue
			}
			if ix.ws.IsFolder(member) {
				if err := walk(member); err != nil {
					return err
				}
				continue
			}
			if !keep(member) {
				continue
			}
			data, err := ix.ws.ReadFile(member)
			if err != nil {
				return err
			}
			files[member.String()] = digest(data)
		}
		return nil
	}
	if err := walk(folder); err != nil {
		return nil, err
	}
	return files, nil
}

func digest(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

func digestOSFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // library paths come from the resolved classpath
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}
