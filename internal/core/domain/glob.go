package domain

import (
	"path"
	"strings"
)

const anySegments = "**"

// MatchPattern reports whether a relative path matches an inclusion or exclusion pattern.
// Patterns are slash separated; "*" and "?" match within a segment, "**" matches
// zero or more segments and a trailing slash is shorthand for a trailing "**".
func MatchPattern(pattern, rel Path) bool {
	p := string(pattern)
	if strings.HasSuffix(p, separator) {
		p += anySegments
	}
	return matchSegments(splitPattern(p), rel.Segments())
}

func splitPattern(p string) []string {
	p = strings.Trim(p, separator)
	if p == "" {
		return nil
	}
	return strings.Split(p, separator)
}

func matchSegments(pattern, segs []string) bool {
	for len(pattern) > 0 {
		head := pattern[0]
		if head == anySegments {
			rest := pattern[1:]
			for i := 0; i <= len(segs); i++ {
				if matchSegments(rest, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		ok, err := path.Match(head, segs[0])
		if err != nil || !ok {
			return false
		}
		pattern = pattern[1:]
		segs = segs[1:]
	}
	return len(segs) == 0
}

// IsExcluded reports whether rel, relative to a root, is filtered out by the root's
// inclusion and exclusion patterns. A folder counts as included when an inclusion
// pattern could match something inside it.
func IsExcluded(rel Path, inclusion, exclusion []Path, isFolder bool) bool {
	if len(inclusion) == 0 && len(exclusion) == 0 {
		return false
	}

	if len(inclusion) > 0 {
		included := false
		for _, pattern := range inclusion {
			if MatchPattern(folderPattern(pattern, isFolder), rel) {
				included = true
				break
			}
		}
		if !included {
			return true
		}
	}

	candidate := rel
	if isFolder {
		candidate = rel.Append("*")
	}
	for _, pattern := range exclusion {
		if MatchPattern(pattern, candidate) {
			return true
		}
	}
	return false
}

// folderPattern trims the last segment of an inclusion pattern so that the
// folders leading to an included file are themselves included.
func folderPattern(pattern Path, isFolder bool) Path {
	if !isFolder {
		return pattern
	}
	p := string(pattern)
	lastSlash := strings.LastIndex(p, separator)
	if lastSlash == -1 || lastSlash == len(p)-1 {
		return pattern
	}
	if strings.HasPrefix(p[lastSlash+1:], anySegments) {
		return pattern
	}
	return Path(p[:lastSlash])
}
