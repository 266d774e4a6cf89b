package build

const (
	// Gzip is the default compressor for rotated log files.
	Gzip = "gzip"

	// Zstd is a compressor that trades a little more CPU for smaller
	// rotated log files.
	Zstd = "zstd"
)

// logCompressors maps the identifier of each supported compression algorithm
// to the extension used for the compressed log files.
var logCompressors = map[string]string{
	Gzip: "gz",
	Zstd: "zst",
}

// SupportedLogCompressor returns whether or not logCompressor is a supported
// compression algorithm for log files.
func SupportedLogCompressor(logCompressor string) bool {
	_, ok := logCompressors[logCompressor]

	return ok
}
