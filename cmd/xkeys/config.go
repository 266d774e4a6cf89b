package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dhruv-1001/extkeys/build"
	"github.com/dhruv-1001/extkeys/chainreg"
	"github.com/dhruv-1001/extkeys/hdpath"
	"github.com/dhruv-1001/extkeys/keychain"
	"golang.org/x/term"
)

const (
	defaultNetwork     = "mainnet"
	defaultLogFilename = "xkeys.log"
)

// globalOptions are the options shared by every command.
//
//nolint:lll
type globalOptions struct {
	Network    string           `long:"network" short:"n" description:"The network extended keys are encoded for" choice:"mainnet" choice:"testnet" choice:"testnet3" choice:"regtest" choice:"simnet" choice:"signet" choice:"ltc-mainnet" choice:"ltc-testnet"`
	DebugLevel string           `long:"debuglevel" short:"d" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical, off} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	LogDir     string           `long:"logdir" description:"Directory to additionally write a rotated log file to, e.g. ~/.xkeys/logs; no log file is written if empty"`
	Logging    *build.LogConfig `group:"logging" namespace:"logging"`
}

// defaultGlobalOptions returns the global options before parsing.
func defaultGlobalOptions() *globalOptions {
	return &globalOptions{
		Network:    defaultNetwork,
		DebugLevel: build.DefaultDebugLevel(),
		Logging:    build.DefaultLogConfig(),
	}
}

// readPassword reads a secret from the controlling terminal. It is a
// variable so tests can replace it.
var readPassword = readTerminalPassword

// readTerminalPassword reads a password from the terminal. This requires there
// to be an actual TTY so passing in a password from stdin won't work.
func readTerminalPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	// The variable syscall.Stdin is of a different type in the Windows API
	// that's why we need the explicit cast.
	pw, err := term.ReadPassword(int(syscall.Stdin)) // nolint:unconvert
	fmt.Fprintln(os.Stderr)

	return pw, err
}

// environment is the state shared by the commands of one invocation.
type environment struct {
	global *globalOptions

	in  io.Reader
	out io.Writer

	// Set by start.
	started bool
	params  chainreg.BitcoinNetParams
	rotator *build.RotatingLogWriter
}

// newEnvironment creates an environment with default global options.
func newEnvironment(in io.Reader, out io.Writer) *environment {
	return &environment{
		global: defaultGlobalOptions(),
		in:     in,
		out:    out,
	}
}

// start resolves the network and sets up logging. It is called by every
// command once the command line has been parsed.
func (e *environment) start() error {
	if e.started {
		return nil
	}

	params, err := chainreg.ParamsForNetwork(e.global.Network)
	if err != nil {
		return err
	}
	e.params = params

	if err := e.global.Logging.Validate(); err != nil {
		return err
	}

	if e.global.LogDir != "" {
		logFile := filepath.Join(
			CleanAndExpandPath(e.global.LogDir),
			chainreg.NormalizeNetwork(e.global.Network),
			defaultLogFilename,
		)

		rotator := build.NewRotatingLogWriter()
		err := rotator.InitLogRotator(e.global.Logging.File, logFile)
		if err != nil {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		e.rotator = rotator
	}

	handler := build.NewDefaultHandler(e.global.Logging, e.rotator)
	root := build.NewSubLoggerManager(handler)
	setupLoggers(root)

	err = build.ParseAndSetDebugLevels(e.global.DebugLevel, root)
	if err != nil {
		return err
	}

	e.started = true

	log.Debugf("Build: %v", build.Describe())
	log.Debugf("Using network %v (coin type %d)", e.params.Name,
		e.params.CoinType)

	return nil
}

// close releases the log file, if one was opened.
func (e *environment) close() {
	if e.rotator != nil {
		if err := e.rotator.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "unable to close log file: %v\n",
				err)
		}
	}
}

// parseKey parses descriptor key text on the selected network.
func (e *environment) parseKey(text string) (*keychain.DescriptorKey, error) {
	key, err := keychain.ParseDescriptorKey(text, e.params.Params)
	if err != nil {
		return nil, fmt.Errorf("unable to parse key: %w", err)
	}

	return key, nil
}

// printKey writes the text form of key on its own line.
func (e *environment) printKey(key *keychain.DescriptorKey) error {
	_, err := fmt.Fprintln(e.out, key.String())
	return err
}

// readLine reads a single line from the input, without the trailing
// newline.
func (e *environment) readLine() (string, error) {
	line, err := bufio.NewReader(e.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// parseDerivePath parses the path of a derivation, which is always expressed
// from the key being derived and therefore must start with "m".
func parseDerivePath(text string) (hdpath.DerivationPath, error) {
	path, err := hdpath.ParseAbsolute(text)
	if err != nil {
		return hdpath.DerivationPath{}, fmt.Errorf("unable to parse "+
			"path: %w", err)
	}

	return path, nil
}

// parseExtendPath parses the path appended by an extension. The leading "m"
// is optional and the path may end in a wildcard such as "0/*".
func parseExtendPath(text string) (hdpath.DerivationPath, hdpath.Wildcard,
	error) {

	path, wildcard, err := hdpath.ParseWithWildcard(text)
	if err != nil {
		return hdpath.DerivationPath{}, hdpath.WildcardNone,
			fmt.Errorf("unable to parse path: %w", err)
	}

	return path, wildcard, nil
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
// This function is taken from https://github.com/btcsuite/btcd
func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
