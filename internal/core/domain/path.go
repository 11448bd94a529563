package domain

import (
	"path/filepath"
	"strings"
)

// Path is a slash separated resource path.
// Workspace paths are absolute and start with the project name ("/P/src").
// Paths of external archives are absolute OS paths in slash form.
// Container and variable paths keep their indirection in the first segment and are relative.
type Path string

const (
	separator = "/"
	dotDot    = ".."
)

// NewPath normalizes s into a Path.
// Backslashes become slashes, empty and "." segments are dropped and trailing
// slashes are removed. ".." segments are kept; see Canonical.
func NewPath(s string) Path {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\\", separator)
	absolute := strings.HasPrefix(s, separator)

	parts := strings.Split(s, separator)
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		kept = append(kept, part)
	}

	joined := strings.Join(kept, separator)
	if absolute {
		return Path(separator + joined)
	}
	return Path(joined)
}

// String returns the path as a string.
func (p Path) String() string {
	return string(p)
}

// IsEmpty reports whether the path has no segments and is not the root.
func (p Path) IsEmpty() bool {
	return p == ""
}

// IsAbsolute reports whether the path starts with a separator.
func (p Path) IsAbsolute() bool {
	return strings.HasPrefix(string(p), separator)
}

// IsRoot reports whether the path is the workspace root.
func (p Path) IsRoot() bool {
	return p == separator
}

// Segments returns the path segments.
func (p Path) Segments() []string {
	trimmed := strings.Trim(string(p), separator)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, separator)
}

// SegmentCount returns the number of segments.
func (p Path) SegmentCount() int {
	return len(p.Segments())
}

// Segment returns the i-th segment or "" when out of range.
func (p Path) Segment(i int) string {
	segs := p.Segments()
	if i < 0 || i >= len(segs) {
		return ""
	}
	return segs[i]
}

// FirstSegment returns the first segment.
func (p Path) FirstSegment() string {
	return p.Segment(0)
}

// LastSegment returns the last segment.
func (p Path) LastSegment() string {
	segs := p.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// FileExtension returns the extension of the last segment without the dot.
func (p Path) FileExtension() string {
	last := p.LastSegment()
	idx := strings.LastIndex(last, ".")
	if idx <= 0 {
		return ""
	}
	return last[idx+1:]
}

// IsArchive reports whether the path names a jar or zip file.
func (p Path) IsArchive() bool {
	switch strings.ToLower(p.FileExtension()) {
	case "jar", "zip":
		return true
	default:
		return false
	}
}

// Append joins a relative path to p.
func (p Path) Append(rel string) Path {
	if rel == "" {
		return p
	}
	if p == "" {
		return NewPath(rel)
	}
	return NewPath(string(p) + separator + rel)
}

// RemoveFirstSegments drops the first n segments. The result is relative.
func (p Path) RemoveFirstSegments(n int) Path {
	segs := p.Segments()
	if n >= len(segs) {
		return ""
	}
	if n <= 0 {
		return p
	}
	return Path(strings.Join(segs[n:], separator))
}

// RemoveLastSegments drops the last n segments, keeping absoluteness.
func (p Path) RemoveLastSegments(n int) Path {
	segs := p.Segments()
	if n <= 0 {
		return p
	}
	if n >= len(segs) {
		if p.IsAbsolute() {
			return separator
		}
		return ""
	}
	joined := strings.Join(segs[:len(segs)-n], separator)
	if p.IsAbsolute() {
		return Path(separator + joined)
	}
	return Path(joined)
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	return p.RemoveLastSegments(1)
}

// IsPrefixOf reports whether every segment of p is a leading segment of other.
// The empty path and the root are prefixes of every path with the same absoluteness.
func (p Path) IsPrefixOf(other Path) bool {
	if p.IsAbsolute() != other.IsAbsolute() {
		return false
	}
	mine := p.Segments()
	theirs := other.Segments()
	if len(mine) > len(theirs) {
		return false
	}
	for i, seg := range mine {
		if theirs[i] != seg {
			return false
		}
	}
	return true
}

// MakeRelativeTo returns p without the leading segments of base.
// It returns p unchanged when base is not a prefix.
func (p Path) MakeRelativeTo(base Path) Path {
	if !base.IsPrefixOf(p) {
		return p
	}
	return p.RemoveFirstSegments(base.SegmentCount())
}

// HasDotDot reports whether any segment is "..".
func (p Path) HasDotDot() bool {
	for _, seg := range p.Segments() {
		if seg == dotDot {
			return true
		}
	}
	return false
}

// Canonical removes ".." segments together with the segment they cancel.
// Leading ".." segments of a relative path are kept; on an absolute path they
// cannot climb above the root and are dropped.
func (p Path) Canonical() Path {
	segs := p.Segments()
	stack := make([]string, 0, len(segs))
	for _, seg := range segs {
		if seg != dotDot {
			stack = append(stack, seg)
			continue
		}
		if n := len(stack); n > 0 && stack[n-1] != dotDot {
			stack = stack[:n-1]
			continue
		}
		if !p.IsAbsolute() {
			stack = append(stack, seg)
		}
	}
	joined := strings.Join(stack, separator)
	if p.IsAbsolute() {
		return Path(separator + joined)
	}
	return Path(joined)
}

// ToOS converts the path to an OS path.
func (p Path) ToOS() string {
	return filepath.FromSlash(string(p))
}

// PathFromOS converts an OS path to a Path.
func PathFromOS(osPath string) Path {
	return NewPath(filepath.ToSlash(osPath))
}

// ResolveDotDot resolves a path containing ".." segments.
// Absolute paths are canonicalized in place. Relative paths are resolved against
// the OS location of the owning project; the result is mapped back to a workspace
// path when it lies under workspaceRoot and is an external OS path otherwise.
// ok is false when the path is relative and cannot be anchored.
func ResolveDotDot(p Path, projectLocation, workspaceRoot string) (resolved Path, ok bool) {
	if p.IsAbsolute() {
		if !p.HasDotDot() {
			return p, true
		}
		return p.Canonical(), true
	}
	if !p.HasDotDot() || projectLocation == "" {
		return p, false
	}

	base := PathFromOS(projectLocation)
	climb := 0
	for _, seg := range p.Segments() {
		if seg != dotDot {
			break
		}
		climb++
	}
	if climb > base.SegmentCount() {
		return p, false
	}

	abs := Path(string(base) + separator + string(p)).Canonical()
	if workspaceRoot != "" {
		root := PathFromOS(workspaceRoot)
		if root.IsPrefixOf(abs) && abs != root {
			return Path(separator + string(abs.MakeRelativeTo(root))), true
		}
	}
	return abs, true
}
