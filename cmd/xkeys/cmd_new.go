package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhruv-1001/extkeys/hdpath"
	"github.com/dhruv-1001/extkeys/keychain"
	"github.com/jessevdk/go-flags"
)

// newCommand restores a master key from a mnemonic.
//
//nolint:lll
type newCommand struct {
	Mnemonic     string `long:"mnemonic" description:"The BIP39 mnemonic to restore the master key from; read from stdin if neither this nor --mnemonic-file is set"`
	MnemonicFile string `long:"mnemonic-file" description:"Read the mnemonic from this file instead"`
	Passphrase   string `long:"passphrase" description:"The optional BIP39 passphrase"`
	Prompt       bool   `long:"prompt-passphrase" description:"Read the BIP39 passphrase from the terminal without echoing it"`
	Wildcard     string `long:"wildcard" description:"Mark the key as ranged" choice:"none" choice:"unhardened" choice:"hardened"`
	Public       bool   `long:"public" description:"Print the public master key instead of the private one"`

	env *environment
}

func newNewCommand(env *environment) *newCommand {
	return &newCommand{
		Wildcard: hdpath.WildcardNone.String(),
		env:      env,
	}
}

func (x *newCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"new",
		"Restore the master key of a mnemonic",
		"Restore the BIP32 master key of a BIP39 mnemonic and print "+
			"it as a descriptor key without origin",
		x,
	)
	return err
}

func (x *newCommand) Execute(_ []string) error {
	if err := x.env.start(); err != nil {
		return err
	}

	mnemonic, err := x.readMnemonic()
	if err != nil {
		return err
	}

	passphrase, err := x.readPassphrase()
	if err != nil {
		return err
	}

	wildcard, err := hdpath.ParseWildcardName(x.Wildcard)
	if err != nil {
		return err
	}

	key, err := keychain.New(
		x.env.params.Params, mnemonic, passphrase,
		keychain.WithWildcard(wildcard),
	)
	if err != nil {
		return err
	}

	if x.Public {
		key, err = key.AsPublic()
		if err != nil {
			return err
		}
	}

	return x.env.printKey(key)
}

// readMnemonic returns the mnemonic from the flag, the file or stdin, in
// that order of preference.
func (x *newCommand) readMnemonic() (string, error) {
	switch {
	case x.Mnemonic != "" && x.MnemonicFile != "":
		return "", fmt.Errorf("only one of --mnemonic and " +
			"--mnemonic-file may be set")

	case x.Mnemonic != "":
		return x.Mnemonic, nil

	case x.MnemonicFile != "":
		file := CleanAndExpandPath(x.MnemonicFile)
		log.Debugf("Reading mnemonic from file %s", file)

		content, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("unable to read mnemonic file: "+
				"%w", err)
		}

		return strings.TrimSpace(string(content)), nil
	}

	log.Debugf("Reading mnemonic from stdin")
	mnemonic, err := x.env.readLine()
	if err != nil {
		return "", fmt.Errorf("error reading mnemonic from stdin: %w",
			err)
	}

	return mnemonic, nil
}

// readPassphrase returns the passphrase flag or, if requested, prompts for
// it on the terminal.
func (x *newCommand) readPassphrase() (string, error) {
	if !x.Prompt {
		return x.Passphrase, nil
	}

	if x.Passphrase != "" {
		return "", fmt.Errorf("only one of --passphrase and " +
			"--prompt-passphrase may be set")
	}

	passphrase, err := readPassword("Input BIP39 passphrase: ")
	if err != nil {
		return "", fmt.Errorf("unable to read passphrase: %w", err)
	}

	return string(passphrase), nil
}
