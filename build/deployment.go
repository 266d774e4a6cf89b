package build

import "fmt"

// DeploymentType selects which flavour of the binary was compiled. It is
// fixed at build time through the "dev" build tag.
type DeploymentType byte

const (
	// Development builds log more by default and honour the stdlog build
	// tag for sub loggers created in unit tests.
	Development DeploymentType = iota

	// Production builds only log through the configured handler.
	Production
)

// String returns a human readable name for a build type.
func (b DeploymentType) String() string {
	switch b {
	case Development:
		return "development"
	case Production:
		return "production"
	default:
		return "unknown"
	}
}

// IsProdBuild returns true if this is a production build.
func IsProdBuild() bool {
	return Deployment == Production
}

// IsDevBuild returns true if this is a development build.
func IsDevBuild() bool {
	return Deployment == Development
}

// DefaultDebugLevel is the debug level a command starts out with before any
// user supplied level is applied. Development builds are chattier.
func DefaultDebugLevel() string {
	if IsDevBuild() {
		return "debug"
	}

	return LogLevel
}

// Describe returns a one line summary of the compiled deployment and log
// writer, e.g. "production (default logging)".
func Describe() string {
	return fmt.Sprintf("%v (%v logging)", Deployment, LoggingType)
}
