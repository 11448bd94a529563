package domain

import (
	"strconv"
	"strings"
)

// ProblemSeverity is the configured severity of a class of classpath problems.
type ProblemSeverity string

const (
	// SeverityIgnore suppresses the problem.
	SeverityIgnore ProblemSeverity = "ignore"
	// SeverityWarn reports the problem as a warning.
	SeverityWarn ProblemSeverity = "warning"
	// SeverityFail reports the problem as an error.
	SeverityFail ProblemSeverity = "error"
)

// ProjectOptions are the per-project settings that influence validation.
type ProjectOptions struct {
	// Compliance is the Java source level, e.g. "1.8" or "17".
	Compliance string
	// IncompatibleJdkLevel is the severity of references to projects with a higher compliance.
	IncompatibleJdkLevel ProblemSeverity
}

// ComplianceLevel converts a compliance string into a comparable number.
// "1.8" and "8" both yield 8; an empty or malformed value yields 0.
func ComplianceLevel(compliance string) int {
	s := strings.TrimSpace(compliance)
	s = strings.TrimPrefix(s, "1.")
	if major, _, found := strings.Cut(s, "."); found {
		s = major
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
