package ports

import "go.trai.ch/jmodel/internal/core/domain"

// Indexer receives indexing requests from the model. Requests are queued;
// they never fail from the caller's point of view.
//
//go:generate mockgen -source=indexer.go -destination=mocks/mock_indexer.go -package=mocks
type Indexer interface {
	// IndexAll schedules the indexing of every source and binary file of a project.
	IndexAll(project string)
	// IndexLibrary schedules the indexing of a library root.
	IndexLibrary(path domain.Path, project string, indexLocation string)
	// IndexSourceFolder schedules the indexing of a source root.
	IndexSourceFolder(project string, folder domain.Path, inclusion, exclusion []domain.Path)
	// RemoveSourceFolder drops the sources of a source root from the project index.
	RemoveSourceFolder(project string, folder domain.Path, inclusion, exclusion []domain.Path)
	// RemoveIndex drops the index of a library.
	RemoveIndex(path domain.Path)
	// RemoveIndexFamily drops every index whose path starts with prefix.
	RemoveIndexFamily(prefix domain.Path)
	// AddSource schedules the indexing of a compilation unit.
	AddSource(file domain.Path, projectPath domain.Path, parserHint string)
	// AddBinary schedules the indexing of a class file.
	AddBinary(file domain.Path, containerPath domain.Path)
	// Remove drops a file, given relative to its container, from the container's index.
	Remove(relative domain.Path, containerPath domain.Path)
	// DiscardJobs drops queued jobs whose key starts with jobKey.
	DiscardJobs(jobKey string)
}
