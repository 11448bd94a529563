package classpath

import (
	"context"
	"fmt"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
)

// Validate checks the classpath of a project and returns every problem found,
// merged into one status. Problems of optional entries are not reported.
func (e *Engine) Validate(ctx context.Context, project string) (domain.Status, error) {
	ctx, span := e.tracer.Start(ctx, "classpath.validate", ports.WithAttribute("project", project))
	defer span.End()

	raw, err := e.RawClasspath(project)
	if err != nil {
		span.RecordError(err)
		return domain.OKStatus(), err
	}
	res, err := e.Resolve(ctx, project)
	if err != nil {
		span.RecordError(err)
		return domain.OKStatus(), err
	}

	statuses := []domain.Status{res.Status()}
	statuses = append(statuses, validateRaw(project, raw)...)
	for _, entry := range res.Entries() {
		rawEntry, _ := res.RawEntryFor(entry.Path())
		if entry.IsOptional() || rawEntry.IsOptional() {
			continue
		}
		if s := e.validateEntry(project, rawEntry, entry); !s.IsOK() {
			statuses = append(statuses, s)
		}
	}

	status := domain.MergeStatus(statuses...)
	span.SetAttribute("problems", len(status.Problems()))
	return status, nil
}

func validateRaw(project string, raw domain.Entries) []domain.Status {
	var statuses []domain.Status
	for i, entry := range raw {
		if raw.IndexOf(entry.Kind(), entry.Path()) != i {
			statuses = append(statuses, domain.NewStatus(
				domain.StatusNameCollision,
				entry.Path(),
				fmt.Sprintf("build path contains duplicate entry: '%s' for project '%s'", entry.Path(), project),
			))
			continue
		}
		seen := make(map[string]struct{})
		for _, attr := range entry.ExtraAttributes() {
			if _, dup := seen[attr.Name]; dup {
				statuses = append(statuses, domain.NewStatus(
					domain.StatusNameCollision,
					entry.Path(),
					fmt.Sprintf("duplicate extra attribute: '%s' in classpath entry '%s' for project '%s'", attr.Name, entry.Path(), project),
				))
				continue
			}
			seen[attr.Name] = struct{}{}
		}
	}
	return statuses
}

func (e *Engine) validateEntry(project string, raw, entry domain.ClasspathEntry) domain.Status {
	path := entry.Path()
	switch entry.Kind() {
	case domain.EntrySource:
		if !domain.ProjectPath(project).IsPrefixOf(path) {
			return domain.NewStatus(
				domain.StatusInvalidPath,
				path,
				fmt.Sprintf("source folder '%s' is not inside project '%s'", path, project),
			)
		}
		if !e.ws.Exists(path) {
			return domain.NewStatus(
				domain.StatusUnboundSourceFolder,
				path,
				fmt.Sprintf("project '%s' is missing required source folder: '%s'", project, path.MakeRelativeTo(domain.ProjectPath(project))),
			)
		}

	case domain.EntryLibrary:
		osPath, internal := e.ws.Location(path)
		exists := e.ws.Exists(path)
		if !internal {
			_, err := e.ws.Stat(osPath)
			exists = err == nil
		}
		if !exists {
			code := domain.StatusUnboundLibrary
			if raw.Kind() == domain.EntryContainer {
				code = domain.StatusUnboundLibraryInContainer
			}
			return domain.NewStatus(
				code,
				path,
				fmt.Sprintf("project '%s' is missing required library: '%s'", project, path),
			)
		}
		if path.IsArchive() && e.chainer.isInvalid(osPath) {
			return domain.NewStatus(
				domain.StatusInvalidArchive,
				path,
				fmt.Sprintf("archive for required library: '%s' in project '%s' cannot be read or is not a valid ZIP file", path, project),
			)
		}

	case domain.EntryProject:
		name := path.FirstSegment()
		p, ok := e.ws.Project(name)
		if !ok || !p.Open || !p.JavaNature {
			return domain.NewStatus(
				domain.StatusUnboundProject,
				path,
				fmt.Sprintf("project '%s' is missing required Java project: '%s'", project, name),
			)
		}
		return e.validateJdkLevel(project, name, path)
	}
	return domain.OKStatus()
}

func (e *Engine) validateJdkLevel(project, referenced string, path domain.Path) domain.Status {
	opts := e.Options(project)
	if opts.IncompatibleJdkLevel == domain.SeverityIgnore {
		return domain.OKStatus()
	}
	own := domain.ComplianceLevel(opts.Compliance)
	other := domain.ComplianceLevel(e.Options(referenced).Compliance)
	if own == 0 || other <= own {
		return domain.OKStatus()
	}
	status := domain.NewStatus(
		domain.StatusIncompatibleJdkLevel,
		path,
		fmt.Sprintf("incompatible required project '%s': compliance %s is higher than %s of project '%s'",
			referenced, e.Options(referenced).Compliance, opts.Compliance, project),
	)
	if opts.IncompatibleJdkLevel == domain.SeverityWarn {
		status.Severity = domain.SeverityWarning
	}
	return status
}
