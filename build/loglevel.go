package build

// LogLevel specifies a default log level for the stdout logger used in unit
// tests. It can be overridden at link time with
// -ldflags "-X github.com/dhruv-1001/extkeys/build.LogLevel=debug".
var LogLevel = "info"
