package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhruv-1001/extkeys/hdpath"
	"github.com/dhruv-1001/extkeys/keychain"
	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/require"
)

const (
	testMnemonic = "chaos fabric time speed sponsor all flat solution " +
		"wisdom trophy crack object robot pave observe combine where " +
		"aware bench orient secret primary cable detect"

	testMasterKey = "tprv8ZgxMBicQKsPdWuqM1t1CDRvQtQuBPyfL6GbhQwtxDKgUAV" +
		"Pbxmj71pRA8raTqLrec5LyTs5TqCxdABcZr77bt2KyWA5bizJHnC4g4ysm4h"

	testChildKey = "tprv8d7Y4JLmD25jkKbyDZXcdoPHu1YtMHuH21qeN7mFpjfumtSU7" +
		"eZimFYUCSa3MYzkEYfSNRBV34GEr2QXwZCMYRZ7M1g6PUtiLhbJhBZEGYJ"
)

// runTestnet runs the tool on testnet with the given arguments and returns
// the lines it printed.
func runTestnet(t *testing.T, stdin string, args ...string) ([]string,
	error) {

	t.Helper()

	var out bytes.Buffer
	args = append([]string{"--network", "testnet"}, args...)
	err := run(args, strings.NewReader(stdin), &out)

	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n"), err
}

// TestNewCommand checks the different ways of passing the mnemonic.
func TestNewCommand(t *testing.T) {
	lines, err := runTestnet(t, "", "new", "--mnemonic", testMnemonic)
	require.NoError(t, err)
	require.Equal(t, []string{testMasterKey}, lines)

	lines, err = runTestnet(t, testMnemonic+"\n", "new")
	require.NoError(t, err)
	require.Equal(t, []string{testMasterKey}, lines)

	file := filepath.Join(t.TempDir(), "mnemonic")
	require.NoError(t, os.WriteFile(file, []byte(testMnemonic+"\n"), 0600))

	lines, err = runTestnet(
		t, "", "new", "--mnemonic-file", file, "--wildcard", "hardened",
	)
	require.NoError(t, err)
	require.Equal(t, []string{testMasterKey + "/*'"}, lines)

	lines, err = runTestnet(
		t, "", "new", "--mnemonic", testMnemonic, "--public",
	)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(lines[0], "tpub"))

	_, err = runTestnet(
		t, "", "new", "--mnemonic", testMnemonic, "--mnemonic-file",
		file,
	)
	require.ErrorContains(t, err, "only one of")

	_, err = runTestnet(t, "", "new", "--mnemonic", "chaos fabric")
	require.ErrorIs(t, err, keychain.ErrInvalidMnemonic)
}

// TestNewCommandPromptPassphrase checks the passphrase is taken from the
// terminal reader when requested.
func TestNewCommandPromptPassphrase(t *testing.T) {
	oldReadPassword := readPassword
	t.Cleanup(func() {
		readPassword = oldReadPassword
	})

	prompts := 0
	readPassword = func(string) ([]byte, error) {
		prompts++
		return []byte("secret"), nil
	}

	withPrompt, err := runTestnet(
		t, "", "new", "--mnemonic", testMnemonic, "--prompt-passphrase",
	)
	require.NoError(t, err)
	require.Equal(t, 1, prompts)

	withFlag, err := runTestnet(
		t, "", "new", "--mnemonic", testMnemonic, "--passphrase",
		"secret",
	)
	require.NoError(t, err)
	require.Equal(t, withFlag, withPrompt)
	require.NotEqual(t, []string{testMasterKey}, withPrompt)

	_, err = runTestnet(
		t, "", "new", "--mnemonic", testMnemonic, "--passphrase", "x",
		"--prompt-passphrase",
	)
	require.ErrorContains(t, err, "only one of")

	readPassword = func(string) ([]byte, error) {
		return nil, errors.New("no tty")
	}
	_, err = runTestnet(
		t, "", "new", "--mnemonic", testMnemonic, "--prompt-passphrase",
	)
	require.ErrorContains(t, err, "no tty")
}

// TestDeriveCommand checks derivation, neutering of the result and the
// refusal of hardened steps on public keys.
func TestDeriveCommand(t *testing.T) {
	lines, err := runTestnet(
		t, "", "derive", "--key", testMasterKey, "--path", "m/0",
	)
	require.NoError(t, err)
	require.Equal(t, []string{"[d1d04177/0]" + testChildKey}, lines)

	lines, err = runTestnet(
		t, "", "derive", "--key", testMasterKey, "--path", "m/0",
		"--public",
	)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(lines[0], "[d1d04177/0]tpub"))

	pub, err := runTestnet(t, "", "public", "--key", testMasterKey)
	require.NoError(t, err)

	_, err = runTestnet(
		t, "", "derive", "--key", pub[0], "--path", "m/84'/1'/0'",
	)
	require.ErrorIs(t, err, keychain.ErrHardenedDerivationOnPublicKey)

	_, err = runTestnet(
		t, "", "derive", "--key", testMasterKey, "--path", "m/x",
	)
	require.Error(t, err)

	// A derivation path is expressed from the key and must start with m.
	_, err = runTestnet(
		t, "", "derive", "--key", testMasterKey, "--path", "0",
	)
	require.ErrorIs(t, err, hdpath.ErrPathSyntax)

	_, err = runTestnet(
		t, "", "derive", "--key", testMasterKey, "--path", "m/0/*",
	)
	require.ErrorIs(t, err, hdpath.ErrPathSyntax)
}

// TestDeriveRange checks the expansion of a ranged key.
func TestDeriveRange(t *testing.T) {
	lines, err := runTestnet(
		t, "", "derive", "--key", testMasterKey+"/*", "--path",
		"m/84h/1h/0h/0", "--range", "3",
	)
	require.NoError(t, err)
	require.Len(t, lines, 4)

	require.True(t, strings.HasPrefix(lines[0], "[d1d04177/84'/1'/0'/0]"))
	require.True(t, strings.HasSuffix(lines[0], "/*"))
	for i, prefix := range []string{
		"[d1d04177/84'/1'/0'/0/0]", "[d1d04177/84'/1'/0'/0/1]",
		"[d1d04177/84'/1'/0'/0/2]",
	} {
		require.True(t, strings.HasPrefix(lines[i+1], prefix))
		require.False(t, strings.HasSuffix(lines[i+1], "*"))
	}

	_, err = runTestnet(
		t, "", "derive", "--key", testMasterKey, "--path", "m/0",
		"--range", "3",
	)
	require.ErrorContains(t, err, "requires a key with a wildcard")
}

// TestExtendCommand checks the extension vector.
func TestExtendCommand(t *testing.T) {
	lines, err := runTestnet(
		t, "", "extend", "--key", testMasterKey, "--path", "m/0",
	)
	require.NoError(t, err)
	require.Equal(t,
		[]string{"[d1d04177/0]" + testMasterKey + "/0"}, lines,
	)

	// The appended path may end in a wildcard which is recorded on the
	// extended key.
	account := "[d1d04177/0]" + testChildKey
	lines, err = runTestnet(
		t, "", "extend", "--key", account, "--path", "0/*",
	)
	require.NoError(t, err)
	require.Equal(t,
		[]string{"[d1d04177/0/0]" + testChildKey + "/0/*"}, lines,
	)

	pub, err := runTestnet(t, "", "public", "--key", account)
	require.NoError(t, err)

	lines, err = runTestnet(
		t, "", "extend", "--key", pub[0], "--path", "m/1/*'",
	)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(lines[0], "[d1d04177/0/1]tpub"))
	require.True(t, strings.HasSuffix(lines[0], "/1/*'"))

	// Without a wildcard in the path the key's own wildcard is kept.
	lines, err = runTestnet(
		t, "", "extend", "--key", account+"/*", "--path", "2",
	)
	require.NoError(t, err)
	require.Equal(t,
		[]string{"[d1d04177/0/2]" + testChildKey + "/2/*"}, lines,
	)

	_, err = runTestnet(
		t, "", "extend", "--key", account, "--path", "0/*/1",
	)
	require.ErrorIs(t, err, hdpath.ErrPathSyntax)
}

// TestInspectCommand checks the JSON description of a derived key.
func TestInspectCommand(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{
		"--network", "testnet", "inspect", "--key",
		"[d1d04177/0]" + testChildKey + "/1/*",
	}, strings.NewReader(""), &out)
	require.NoError(t, err)

	var info keyInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	require.Equal(t, "secret", info.Kind)
	require.Equal(t, uint8(1), info.Depth)
	require.Equal(t, "d1d04177", info.ParentFingerprint)
	require.Equal(t, "0", info.ChildIndex)
	require.Equal(t, "m/1", info.Path)
	require.Equal(t, "m/0/1", info.FullPath)
	require.Equal(t, "unhardened", info.Wildcard)
	require.Len(t, info.PubKey, 66)
	require.NotNil(t, info.Origin)
	require.Equal(t, "d1d04177", info.Origin.Fingerprint)
	require.Equal(t, "m/0", info.Origin.Path)

	out.Reset()
	err = run([]string{
		"--network", "testnet", "inspect", "--key", testMasterKey,
	}, strings.NewReader(""), &out)
	require.NoError(t, err)

	var master keyInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &master))
	require.Nil(t, master.Origin)
	require.Equal(t, "d1d04177", master.Fingerprint)
}

// TestGenMnemonicCommand checks that generated mnemonics can be restored.
func TestGenMnemonicCommand(t *testing.T) {
	lines, err := runTestnet(t, "", "gen-mnemonic", "--words", "12")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Len(t, strings.Fields(lines[0]), 12)

	_, err = runTestnet(t, "", "new", "--mnemonic", lines[0])
	require.NoError(t, err)

	_, err = runTestnet(t, "", "gen-mnemonic", "--words", "13")
	require.Error(t, err)
}

// TestGlobalOptions checks network selection, debug levels, help output
// and the log file.
func TestGlobalOptions(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{
		"--network", "mainnet", "public", "--key", testMasterKey,
	}, strings.NewReader(""), &out)
	require.ErrorIs(t, err, keychain.ErrNetworkMismatch)

	err = run([]string{
		"--network", "dogecoin", "public", "--key", testMasterKey,
	}, strings.NewReader(""), &out)
	require.Error(t, err)

	_, err = runTestnet(
		t, "", "--debuglevel", "chatty", "public", "--key",
		testMasterKey,
	)
	require.ErrorContains(t, err, "debug level [chatty] is invalid")

	_, err = runTestnet(
		t, "", "--debuglevel", "info,KCHN=debug,XKEY=trace", "public",
		"--key", testMasterKey,
	)
	require.NoError(t, err)

	err = run([]string{"--help"}, strings.NewReader(""), &out)
	var flagErr *flags.Error
	require.True(t, errors.As(err, &flagErr))
	require.Equal(t, flags.ErrHelp, flagErr.Type)

	logDir := t.TempDir()
	_, err = runTestnet(
		t, "", "--logdir", logDir, "--debuglevel", "debug", "public",
		"--key", testMasterKey,
	)
	require.NoError(t, err)

	content, err := os.ReadFile(
		filepath.Join(logDir, "testnet", defaultLogFilename),
	)
	require.NoError(t, err)
	require.Contains(t, string(content), "Using network")
	require.Contains(t, string(content), "Build: ")
}

// TestCleanAndExpandPath checks expansion of home directories and
// environment variables.
func TestCleanAndExpandPath(t *testing.T) {
	t.Setenv("XKEYS_TEST_DIR", "/tmp/xkeys")

	require.Empty(t, CleanAndExpandPath(""))
	require.Equal(t, "/tmp/xkeys/logs",
		CleanAndExpandPath("$XKEYS_TEST_DIR/./logs/"))
	require.False(t, strings.HasPrefix(CleanAndExpandPath("~/x"), "~"))
}
