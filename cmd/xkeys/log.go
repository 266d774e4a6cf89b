package main

import (
	"github.com/btcsuite/btclog/v2"
	"github.com/dhruv-1001/extkeys/build"
	"github.com/dhruv-1001/extkeys/keychain"
)

// Subsystem defines the logging code for the command line tool itself.
const Subsystem = "XKEY"

// log is the logger of the command line tool. It is replaced once logging
// has been set up.
var log btclog.Logger = btclog.Disabled

// setupLoggers creates the loggers of every subsystem and registers them with
// the root manager.
func setupLoggers(root *build.SubLoggerManager) {
	log = build.NewSubLogger(Subsystem, root.GenSubLogger)
	root.RegisterSubLogger(Subsystem, log)

	AddSubLogger(root, keychain.Subsystem, keychain.UseLogger)
}

// AddSubLogger is a helper method to conveniently create and register the
// logger of one or more sub systems.
func AddSubLogger(root *build.SubLoggerManager, subsystem string,
	useLoggers ...func(btclog.Logger)) {

	// Create and register just a single logger to prevent them from
	// overwriting each other internally.
	logger := build.NewSubLogger(subsystem, root.GenSubLogger)
	SetSubLogger(root, subsystem, logger, useLoggers...)
}

// SetSubLogger is a helper method to conveniently register the logger of a
// sub system.
func SetSubLogger(root *build.SubLoggerManager, subsystem string,
	logger btclog.Logger, useLoggers ...func(btclog.Logger)) {

	root.RegisterSubLogger(subsystem, logger)
	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}
