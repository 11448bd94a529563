package domain

import (
	"strings"
	"unicode"
)

const (
	// JavaSuffix is the file suffix of compilation units.
	JavaSuffix = ".java"
	// ClassSuffix is the file suffix of class files.
	ClassSuffix = ".class"
)

var javaKeywords = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {}, "case": {},
	"catch": {}, "char": {}, "class": {}, "const": {}, "continue": {}, "default": {},
	"do": {}, "double": {}, "else": {}, "enum": {}, "extends": {}, "final": {},
	"finally": {}, "float": {}, "for": {}, "goto": {}, "if": {}, "implements": {},
	"import": {}, "instanceof": {}, "int": {}, "interface": {}, "long": {}, "native": {},
	"new": {}, "package": {}, "private": {}, "protected": {}, "public": {}, "return": {},
	"short": {}, "static": {}, "strictfp": {}, "super": {}, "switch": {}, "synchronized": {},
	"this": {}, "throw": {}, "throws": {}, "transient": {}, "try": {}, "void": {},
	"volatile": {}, "while": {}, "true": {}, "false": {}, "null": {},
}

// IsJavaIdentifier reports whether s is a legal Java identifier.
func IsJavaIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if _, reserved := javaKeywords[s]; reserved {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' && r != '$' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return false
		}
	}
	return true
}

// IsValidPackageSegment reports whether a folder name can be a package name segment.
func IsValidPackageSegment(name string) bool {
	return IsJavaIdentifier(name)
}

// IsCompilationUnitName reports whether a file name denotes a compilation unit.
func IsCompilationUnitName(name string) bool {
	base, ok := strings.CutSuffix(name, JavaSuffix)
	return ok && IsJavaIdentifier(base)
}

// IsClassFileName reports whether a file name denotes a class file.
// Nested class files ("Outer$Inner.class") are valid.
func IsClassFileName(name string) bool {
	base, ok := strings.CutSuffix(name, ClassSuffix)
	if !ok || base == "" {
		return false
	}
	for _, part := range strings.Split(base, "$") {
		if part == "" {
			continue
		}
		if !IsJavaIdentifier(part) && !isDigits(part) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// PackageName converts a path relative to a root into a dotted package name.
func PackageName(rel Path) string {
	return strings.Join(rel.Segments(), ".")
}
