package domain

import "time"

// DefaultWatchDebounce is the debounce window used when the config does not set one.
const DefaultWatchDebounce = 50 * time.Millisecond

// Config is the workspace configuration read from jmodel.yaml.
type Config struct {
	// Variables maps classpath variable names to their paths.
	Variables map[string]Path
	// Containers holds statically declared containers keyed by container path.
	Containers map[Path]ContainerConfig
	// Projects holds per-project options keyed by project name.
	Projects map[string]ProjectOptions
	// IncompatibleJdkLevel is the workspace default severity for JDK level mismatches.
	IncompatibleJdkLevel ProblemSeverity
	// Watch configures the file watcher.
	Watch WatchConfig
}

// ContainerConfig is a container declared in the configuration.
type ContainerConfig struct {
	Description string
	Entries     Entries
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	Debounce time.Duration
	Ignore   []string
}

// DefaultConfig returns the configuration used when no jmodel.yaml exists.
func DefaultConfig() *Config {
	return &Config{
		Variables:            map[string]Path{},
		Containers:           map[Path]ContainerConfig{},
		Projects:             map[string]ProjectOptions{},
		IncompatibleJdkLevel: SeverityFail,
		Watch:                WatchConfig{Debounce: DefaultWatchDebounce},
	}
}

// ProjectOptions returns the options of a project with workspace defaults applied.
func (c *Config) ProjectOptions(project string) ProjectOptions {
	opts := c.Projects[project]
	if opts.IncompatibleJdkLevel == "" {
		opts.IncompatibleJdkLevel = c.IncompatibleJdkLevel
	}
	if opts.IncompatibleJdkLevel == "" {
		opts.IncompatibleJdkLevel = SeverityFail
	}
	return opts
}
