// Package config provides the jmodel.yaml configuration loader.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads jmodel.yaml from root and converts it into a domain.Config.
// A missing file yields domain.DefaultConfig.
func (l *Loader) Load(root string) (*domain.Config, error) {
	path := filepath.Join(root, domain.ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the workspace root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var workfile Workfile
	if err := yaml.Unmarshal(data, &workfile); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	cfg, err := l.convert(&workfile)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

// DiscoverRoot walks up from cwd to the nearest directory holding jmodel.yaml.
// When none exists, cwd itself is the root.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrWorkspaceNotFound.Error()), "cwd", cwd)
	}

	current := abs
	for {
		if _, err := os.Stat(filepath.Join(current, domain.ConfigFileName)); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			// Reached root
			return abs, nil
		}
		current = parent
	}
}

func (l *Loader) convert(w *Workfile) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	for name, value := range w.Variables {
		if name == "" {
			return nil, zerr.Wrap(domain.ErrInvalidConfig, "variable name is empty")
		}
		cfg.Variables[name] = domain.NewPath(value)
	}

	for name, dto := range w.Containers {
		path := domain.NewPath(name)
		if path.IsEmpty() {
			return nil, zerr.Wrap(domain.ErrInvalidConfig, "container path is empty")
		}
		entries, err := convertEntries(dto.Entries)
		if err != nil {
			return nil, zerr.With(err, "container", name)
		}
		cfg.Containers[path] = domain.ContainerConfig{Description: dto.Description, Entries: entries}
	}

	if w.Options.IncompatibleJdkLevel != "" {
		severity, err := parseSeverity(w.Options.IncompatibleJdkLevel)
		if err != nil {
			return nil, zerr.With(err, "option", "incompatible_jdk_level")
		}
		cfg.IncompatibleJdkLevel = severity
	}

	for name, dto := range w.Projects {
		opts := domain.ProjectOptions{Compliance: dto.Compliance}
		if dto.IncompatibleJdkLevel != "" {
			severity, err := parseSeverity(dto.IncompatibleJdkLevel)
			if err != nil {
				return nil, zerr.With(err, "project", name)
			}
			opts.IncompatibleJdkLevel = severity
		}
		if dto.Compliance != "" && domain.ComplianceLevel(dto.Compliance) == 0 {
			l.Logger.Warn(fmt.Sprintf("project %s declares unknown compliance %q", name, dto.Compliance))
		}
		cfg.Projects[name] = opts
	}

	if w.Watch.Debounce != "" {
		d, err := time.ParseDuration(w.Watch.Debounce)
		if err != nil || d < 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "invalid watch debounce"), "debounce", w.Watch.Debounce)
		}
		cfg.Watch.Debounce = d
	}
	cfg.Watch.Ignore = canonicalizeStrings(w.Watch.Ignore)

	return cfg, nil
}

func convertEntries(dtos []EntryDTO) (domain.Entries, error) {
	entries := make(domain.Entries, 0, len(dtos))
	for i, dto := range dtos {
		path := domain.NewPath(dto.Path)
		if path.IsEmpty() {
			return nil, zerr.With(zerr.Wrap(domain.ErrMissingEntryPath, "invalid container entry"), "index", i)
		}
		var opts []domain.EntryOption
		if dto.Exported {
			opts = append(opts, domain.WithExported(true))
		}
		if dto.SourceAttachment != "" {
			opts = append(opts, domain.WithSourceAttachment(domain.NewPath(dto.SourceAttachment), ""))
		}
		switch dto.Kind {
		case "lib", "":
			entries = append(entries, domain.NewLibraryEntry(path, opts...))
		case "prj":
			entries = append(entries, domain.NewProjectEntry(path, opts...))
		default:
			err := zerr.Wrap(domain.ErrUnknownEntryKind, "containers may only hold lib and prj entries")
			return nil, zerr.With(zerr.With(err, "kind", dto.Kind), "index", i)
		}
	}
	return entries, nil
}

func parseSeverity(s string) (domain.ProblemSeverity, error) {
	switch severity := domain.ProblemSeverity(s); severity {
	case domain.SeverityIgnore, domain.SeverityWarn, domain.SeverityFail:
		return severity, nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unknown severity"), "severity", s)
	}
}

func canonicalizeStrings(strs []string) []string {
	if len(strs) == 0 {
		return nil
	}
	sorted := slices.Clone(strs)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
