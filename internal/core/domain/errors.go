package domain

import "go.trai.ch/zerr"

var (
	// ErrProjectNotFound is returned when a project does not exist in the workspace.
	ErrProjectNotFound = zerr.New("project not found")

	// ErrProjectClosed is returned when an operation needs an open project.
	ErrProjectClosed = zerr.New("project is closed")

	// ErrNotJavaProject is returned when a project does not carry the Java nature.
	ErrNotJavaProject = zerr.New("project does not have the Java nature")

	// ErrWorkspaceNotFound is returned when the workspace root cannot be determined.
	ErrWorkspaceNotFound = zerr.New("could not find workspace root")

	// ErrResourceNotFound is returned when a workspace resource does not exist.
	ErrResourceNotFound = zerr.New("resource not found")

	// ErrResourceReadFailed is returned when a workspace resource cannot be read.
	ErrResourceReadFailed = zerr.New("failed to read resource")

	// ErrResourceWriteFailed is returned when a workspace resource cannot be written.
	ErrResourceWriteFailed = zerr.New("failed to write resource")

	// ErrClasspathReadFailed is returned when a project's classpath file cannot be read.
	ErrClasspathReadFailed = zerr.New("failed to read classpath file")

	// ErrClasspathDecodeFailed is returned when a classpath file is not valid XML.
	ErrClasspathDecodeFailed = zerr.New("failed to decode classpath file")

	// ErrClasspathEncodeFailed is returned when a classpath cannot be encoded.
	ErrClasspathEncodeFailed = zerr.New("failed to encode classpath")

	// ErrUnknownEntryKind is returned when a classpath entry declares an unknown kind.
	ErrUnknownEntryKind = zerr.New("unknown classpath entry kind")

	// ErrUnknownAccessRuleKind is returned when an access rule declares an unknown kind.
	ErrUnknownAccessRuleKind = zerr.New("unknown access rule kind")

	// ErrMissingEntryPath is returned when a classpath entry has no path.
	ErrMissingEntryPath = zerr.New("classpath entry has no path")

	// ErrResolutionInProgress is returned when a project's classpath is queried while
	// that same classpath is being resolved further up the call chain.
	ErrResolutionInProgress = zerr.New("classpath resolution already in progress")

	// ErrContainerInitInProgress is returned when a container is queried while its
	// initializer is running further up the call chain.
	ErrContainerInitInProgress = zerr.New("container initialization in progress")

	// ErrContainerInitFailed is returned when a container initializer fails.
	ErrContainerInitFailed = zerr.New("container initialization failed")

	// ErrArchiveOpenFailed is returned when an archive cannot be opened as a zip file.
	ErrArchiveOpenFailed = zerr.New("failed to open archive")

	// ErrManifestReadFailed is returned when an archive manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read archive manifest")

	// ErrInvalidManifest is returned when a manifest cannot be used for chaining.
	ErrInvalidManifest = zerr.New("invalid manifest")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when the config file has invalid values.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrWatcherStartFailed is returned when the file watcher cannot start.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrListenerFailed is returned when a delta listener fails.
	ErrListenerFailed = zerr.New("delta listener failed")

	// ErrIndexStoreReadFailed is returned when the index manifest cannot be read.
	ErrIndexStoreReadFailed = zerr.New("failed to read index manifest")

	// ErrIndexStoreWriteFailed is returned when the index manifest cannot be written.
	ErrIndexStoreWriteFailed = zerr.New("failed to write index manifest")

	// ErrValidationFailed is returned when a classpath has validation problems.
	ErrValidationFailed = zerr.New("classpath validation failed")
)
