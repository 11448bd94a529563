package archive

import (
	"bufio"
	"bytes"
	"strings"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/zerr"
)

// classPathAttribute is the main section attribute listing chained archives.
const classPathAttribute = "Class-Path"

// Manifest is the main section of a JAR manifest.
type Manifest struct {
	attributes map[string]string
}

// Get returns an attribute of the main section. Names are case-insensitive.
func (m *Manifest) Get(name string) (string, bool) {
	v, ok := m.attributes[strings.ToLower(name)]
	return v, ok
}

// ClassPath returns the space separated names of the Class-Path attribute.
func (m *Manifest) ClassPath() []string {
	v, ok := m.Get(classPathAttribute)
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

// ParseManifest parses the main section of a manifest. Continuation lines
// start with a single space. Individual sections after the first blank line
// are ignored.
func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{attributes: make(map[string]string)}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 4096), maxManifestSize)

	var name string
	var value strings.Builder
	flush := func() {
		if name != "" {
			m.attributes[strings.ToLower(name)] = value.String()
		}
		name = ""
		value.Reset()
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, " ") {
			if name == "" {
				return nil, invalid("continuation line without attribute", lineNo)
			}
			value.WriteString(line[1:])
			continue
		}
		flush()
		key, v, found := strings.Cut(line, ":")
		if !found || key == "" || !strings.HasPrefix(v, " ") {
			return nil, invalid("malformed attribute", lineNo)
		}
		name = key
		value.WriteString(v[1:])
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
	}
	flush()
	return m, nil
}

func invalid(reason string, line int) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidManifest, reason), "line", line)
}
