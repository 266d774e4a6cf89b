package build

import (
	"io"

	"github.com/btcsuite/btclog/v2"
)

// NewDefaultHandler returns the log handler described by cfg. Console output
// goes through LogWriter, which writes to stderr in the default build so it
// never mixes with command output on stdout. If rotator is non-nil and the
// file logger is enabled, every line is copied to the log file as well. A nil
// handler is returned if both loggers are disabled.
func NewDefaultHandler(cfg *LogConfig,
	rotator *RotatingLogWriter) btclog.Handler {

	return newHandler(cfg, &LogWriter{}, rotator)
}

// newHandler is NewDefaultHandler with an injectable console writer.
func newHandler(cfg *LogConfig, console io.Writer,
	rotator *RotatingLogWriter) btclog.Handler {

	var (
		writers []io.Writer
		opts    []btclog.HandlerOption
	)

	if !cfg.Console.Disable {
		writers = append(writers, console)
		opts = cfg.Console.HandlerOptions()
	}

	if rotator != nil && !cfg.File.Disable {
		writers = append(writers, rotator)

		// Styled output would leave escape codes in the log file, so
		// fall back to the file options when the console is styled or
		// absent.
		if cfg.Console.Disable || cfg.Console.Style {
			opts = cfg.File.HandlerOptions()
		}
	}

	switch len(writers) {
	case 0:
		return nil

	case 1:
		return btclog.NewDefaultHandler(writers[0], opts...)

	default:
		return btclog.NewDefaultHandler(
			io.MultiWriter(writers...), opts...,
		)
	}
}
