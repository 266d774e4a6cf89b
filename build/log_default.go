//go:build !stdlog && !nolog
// +build !stdlog,!nolog

package build

import "os"

// LoggingType is a log type that writes to stderr. The log file, if any, is
// fed by the handler separately.
const LoggingType = LogTypeDefault

// Write writes the byte slice to stderr.
func (w *LogWriter) Write(b []byte) (int, error) {
	return os.Stderr.Write(b)
}
