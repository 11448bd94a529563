package domain

import (
	"fmt"
	"strings"
)

// StatusCode classifies a classpath problem.
type StatusCode uint8

const (
	// StatusOK means no problem.
	StatusOK StatusCode = iota
	// StatusInvalidPath is a malformed, relative or unresolvable path.
	StatusInvalidPath
	// StatusCpVariablePathUnbound is a variable entry whose variable is not set.
	StatusCpVariablePathUnbound
	// StatusCpContainerPathUnbound is a container entry no initializer could resolve.
	StatusCpContainerPathUnbound
	// StatusInvalidCpContainerEntry is a container sub-entry of a forbidden kind.
	StatusInvalidCpContainerEntry
	// StatusIncompatibleJdkLevel is a project reference to a project with a higher compliance.
	StatusIncompatibleJdkLevel
	// StatusNameCollision is a duplicate extra attribute name or duplicate entry.
	StatusNameCollision
	// StatusUnboundSourceFolder is a source entry whose folder does not exist.
	StatusUnboundSourceFolder
	// StatusUnboundLibrary is a library entry whose file does not exist.
	StatusUnboundLibrary
	// StatusUnboundLibraryInContainer is a missing library supplied by a container.
	StatusUnboundLibraryInContainer
	// StatusUnboundProject is a project entry naming a missing, closed or non-Java project.
	StatusUnboundProject
	// StatusInvalidArchive is a library that cannot be opened as an archive.
	StatusInvalidArchive
)

var statusNames = map[StatusCode]string{
	StatusOK:                        "OK",
	StatusInvalidPath:               "InvalidPath",
	StatusCpVariablePathUnbound:     "CpVariablePathUnbound",
	StatusCpContainerPathUnbound:    "CpContainerPathUnbound",
	StatusInvalidCpContainerEntry:   "InvalidCpContainerEntry",
	StatusIncompatibleJdkLevel:      "IncompatibleJdkLevel",
	StatusNameCollision:             "NameCollision",
	StatusUnboundSourceFolder:       "UnboundSourceFolder",
	StatusUnboundLibrary:            "UnboundLibrary",
	StatusUnboundLibraryInContainer: "UnboundLibraryInContainer",
	StatusUnboundProject:            "UnboundProject",
	StatusInvalidArchive:            "InvalidArchive",
}

// String returns the code name.
func (c StatusCode) String() string {
	if name, ok := statusNames[c]; ok {
		return name
	}
	return fmt.Sprintf("StatusCode(%d)", c)
}

// Severity of a status.
type Severity uint8

const (
	// SeverityError is the default severity of a problem.
	SeverityError Severity = iota
	// SeverityWarning marks problems that do not fail validation.
	SeverityWarning
)

// Status describes the outcome of resolving or validating a classpath.
// A multi-status carries its problems as children and takes the code of the first one.
type Status struct {
	Code     StatusCode
	Severity Severity
	Path     Path
	Message  string
	Children []Status
}

// OKStatus returns the status of a successful operation.
func OKStatus() Status {
	return Status{Code: StatusOK}
}

// NewStatus creates a status for a single problem.
func NewStatus(code StatusCode, path Path, message string) Status {
	return Status{Code: code, Path: path, Message: message}
}

// IsOK reports whether the status carries no problem.
func (s Status) IsOK() bool {
	return s.Code == StatusOK && len(s.Children) == 0
}

// HasErrors reports whether any problem has error severity.
func (s Status) HasErrors() bool {
	if s.Code != StatusOK && len(s.Children) == 0 {
		return s.Severity == SeverityError
	}
	for _, c := range s.Children {
		if c.HasErrors() {
			return true
		}
	}
	return false
}

// Problems flattens the status into its individual problems.
func (s Status) Problems() []Status {
	if len(s.Children) == 0 {
		if s.Code == StatusOK {
			return nil
		}
		return []Status{s}
	}
	var out []Status
	for _, c := range s.Children {
		out = append(out, c.Problems()...)
	}
	return out
}

// MergeStatus combines statuses into one. OK statuses are dropped; a single
// problem is returned as is.
func MergeStatus(statuses ...Status) Status {
	var problems []Status
	for _, s := range statuses {
		problems = append(problems, s.Problems()...)
	}
	switch len(problems) {
	case 0:
		return OKStatus()
	case 1:
		return problems[0]
	default:
		return Status{
			Code:     problems[0].Code,
			Severity: problems[0].Severity,
			Message:  fmt.Sprintf("%d classpath problems", len(problems)),
			Children: problems,
		}
	}
}

// String renders the status for diagnostics.
func (s Status) String() string {
	if s.IsOK() {
		return "OK"
	}
	if len(s.Children) > 0 {
		lines := make([]string, 0, len(s.Children)+1)
		lines = append(lines, s.Message)
		for _, c := range s.Children {
			lines = append(lines, "  "+c.String())
		}
		return strings.Join(lines, "\n")
	}
	if s.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", s.Code, s.Message, s.Path)
	}
	return fmt.Sprintf("%s: %s", s.Code, s.Message)
}
