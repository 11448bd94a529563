package ports

import "context"

// ManifestReader reads the Class-Path clause of an archive manifest.
//
//go:generate mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestReader interface {
	// ReadClassPath returns the names listed by the archive's Class-Path clause,
	// or nil when the manifest has none. Errors wrap domain.ErrArchiveOpenFailed
	// when the file is not a readable archive and domain.ErrInvalidManifest when
	// the manifest cannot be used for chaining.
	ReadClassPath(ctx context.Context, archive string) ([]string, error)
}
