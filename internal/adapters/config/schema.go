package config

// Workfile represents the structure of the jmodel.yaml configuration file.
type Workfile struct {
	Version    string                  `yaml:"version"`
	Variables  map[string]string       `yaml:"variables"`
	Containers map[string]ContainerDTO `yaml:"containers"`
	Projects   map[string]ProjectDTO   `yaml:"projects"`
	Options    OptionsDTO              `yaml:"options"`
	Watch      WatchDTO                `yaml:"watch"`
}

// ContainerDTO represents a statically declared classpath container.
type ContainerDTO struct {
	Description string     `yaml:"description"`
	Entries     []EntryDTO `yaml:"entries"`
}

// EntryDTO represents one entry of a declared container.
type EntryDTO struct {
	Kind             string `yaml:"kind"`
	Path             string `yaml:"path"`
	Exported         bool   `yaml:"exported"`
	SourceAttachment string `yaml:"source_attachment"`
}

// ProjectDTO represents the per-project options.
type ProjectDTO struct {
	Compliance           string `yaml:"compliance"`
	IncompatibleJdkLevel string `yaml:"incompatible_jdk_level"`
}

// OptionsDTO represents the workspace wide options.
type OptionsDTO struct {
	IncompatibleJdkLevel string `yaml:"incompatible_jdk_level"`
}

// WatchDTO represents the file watcher settings.
type WatchDTO struct {
	Debounce string   `yaml:"debounce"`
	Ignore   []string `yaml:"ignore"`
}
