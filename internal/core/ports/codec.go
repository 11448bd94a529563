package ports

import "go.trai.ch/jmodel/internal/core/domain"

// ClasspathCodec converts between a project's classpath file and its entries.
//
//go:generate mockgen -source=codec.go -destination=mocks/mock_codec.go -package=mocks
type ClasspathCodec interface {
	// Decode parses the classpath file of a project.
	Decode(project string, data []byte) (domain.ClasspathFile, error)
	// Encode renders the classpath file of a project.
	Encode(project string, file domain.ClasspathFile) ([]byte, error)
}
