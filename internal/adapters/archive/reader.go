// Package archive reads the manifests of Java archives.
package archive

import (
	"context"
	"errors"
	"io"
	"io/fs"

	"github.com/klauspost/compress/zip"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/zerr"
)

// maxManifestSize bounds the manifest bytes read from an archive.
const maxManifestSize = 1 << 20

// ManifestReader implements ports.ManifestReader on zip archives.
type ManifestReader struct{}

var _ ports.ManifestReader = (*ManifestReader)(nil)

// NewManifestReader creates a ManifestReader.
func NewManifestReader() *ManifestReader {
	return &ManifestReader{}
}

// ReadClassPath returns the names of the Class-Path clause of the archive's
// main manifest section. An archive without a manifest yields nil.
func (r *ManifestReader) ReadClassPath(ctx context.Context, archive string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrArchiveOpenFailed, err.Error()), "archive", archive)
	}
	defer func() { _ = zr.Close() }()

	data, err := readManifest(&zr.Reader)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "archive", archive)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, zerr.With(err, "archive", archive)
	}
	return m.ClassPath(), nil
}

func readManifest(zr *zip.Reader) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != domain.ManifestName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(io.LimitReader(rc, maxManifestSize))
	}
	return nil, fs.ErrNotExist
}
