package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/jmodel/internal/app"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/ui/output"
	"go.trai.ch/jmodel/internal/ui/style"
)

type entryJSON struct {
	Kind             string `json:"kind"`
	Path             string `json:"path"`
	Exported         bool   `json:"exported,omitempty"`
	SourceAttachment string `json:"source_attachment,omitempty"`
	Output           string `json:"output,omitempty"`
}

type problemJSON struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
}

type classpathJSON struct {
	Project  string        `json:"project"`
	Output   string        `json:"output"`
	Entries  []entryJSON   `json:"entries"`
	Problems []problemJSON `json:"problems,omitempty"`
}

type statusJSON struct {
	Project  string        `json:"project"`
	OK       bool          `json:"ok"`
	Problems []problemJSON `json:"problems,omitempty"`
}

func severityName(s domain.Severity) string {
	if s == domain.SeverityWarning {
		return "warning"
	}
	return "error"
}

func problems(status domain.Status) []problemJSON {
	var out []problemJSON
	for _, p := range status.Problems() {
		out = append(out, problemJSON{
			Code:     p.Code.String(),
			Severity: severityName(p.Severity),
			Path:     p.Path.String(),
			Message:  p.Message,
		})
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderClasspathsJSON(w io.Writer, classpaths []app.ProjectClasspath) error {
	out := make([]classpathJSON, 0, len(classpaths))
	for _, cp := range classpaths {
		doc := classpathJSON{
			Project:  cp.Project,
			Output:   cp.Output.String(),
			Entries:  make([]entryJSON, 0, len(cp.Entries)),
			Problems: problems(cp.Status),
		}
		for _, e := range cp.Entries {
			doc.Entries = append(doc.Entries, entryJSON{
				Kind:             e.Kind().String(),
				Path:             e.Path().String(),
				Exported:         e.DeclaredExported(),
				SourceAttachment: e.SourceAttachmentPath().String(),
				Output:           e.OutputLocation().String(),
			})
		}
		out = append(out, doc)
	}
	return writeJSON(w, out)
}

func renderClasspaths(w io.Writer, classpaths []app.ProjectClasspath) {
	out := output.New(w)
	for i, cp := range classpaths {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		header := output.Paint(out, cp.Project, string(style.Iris))
		_, _ = fmt.Fprintf(w, "%s %s %s\n", header, style.Arrow, cp.Output)
		for _, e := range cp.Entries {
			kind := e.Kind().String()
			line := fmt.Sprintf("  %s %s", output.Paint(out, fmt.Sprintf("%-3s", kind), string(style.KindColor(kind))), e.Path())
			var notes []string
			if e.DeclaredExported() {
				notes = append(notes, "exported")
			}
			if src := e.SourceAttachmentPath(); !src.IsEmpty() {
				notes = append(notes, "source "+src.String())
			}
			if len(notes) > 0 {
				line += output.Paint(out, " ("+strings.Join(notes, ", ")+")", string(style.Slate))
			}
			_, _ = fmt.Fprintln(w, line)
		}
		renderProblems(w, out, cp.Status)
	}
}

func renderStatusesJSON(w io.Writer, statuses []app.ProjectStatus) error {
	out := make([]statusJSON, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, statusJSON{Project: s.Project, OK: s.Status.IsOK(), Problems: problems(s.Status)})
	}
	return writeJSON(w, out)
}

func renderStatuses(w io.Writer, statuses []app.ProjectStatus) {
	out := output.New(w)
	for _, s := range statuses {
		switch {
		case s.Status.IsOK():
			_, _ = fmt.Fprintf(w, "%s %s\n", output.Paint(out, style.Check, string(style.Green)), s.Project)
		case s.Status.HasErrors():
			_, _ = fmt.Fprintf(w, "%s %s\n", output.Paint(out, style.Cross, string(style.Red)), s.Project)
		default:
			_, _ = fmt.Fprintf(w, "%s %s\n", output.Paint(out, style.Warning, string(style.Yellow)), s.Project)
		}
		renderProblems(w, out, s.Status)
	}
}

func renderProblems(w io.Writer, out *termenv.Output, status domain.Status) {
	for _, p := range status.Problems() {
		icon, color := style.Cross, style.Red
		if p.Severity == domain.SeverityWarning {
			icon, color = style.Warning, style.Yellow
		}
		_, _ = fmt.Fprintf(w, "  %s %s: %s\n", output.Paint(out, icon, string(color)), p.Code, p.Message)
	}
}
