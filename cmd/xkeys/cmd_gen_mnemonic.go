package main

import (
	"fmt"

	"github.com/dhruv-1001/extkeys/keychain"
	"github.com/jessevdk/go-flags"
)

const defaultWordCount = 24

type genMnemonicCommand struct {
	Words int `long:"words" short:"w" description:"The number of words of the mnemonic" choice:"12" choice:"15" choice:"18" choice:"21" choice:"24"`

	env *environment
}

func newGenMnemonicCommand(env *environment) *genMnemonicCommand {
	return &genMnemonicCommand{
		Words: defaultWordCount,
		env:   env,
	}
}

func (x *genMnemonicCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"gen-mnemonic",
		"Generate a new BIP39 mnemonic",
		"Generate a new random English BIP39 mnemonic and print it "+
			"to stdout; the mnemonic can be passed to the new "+
			"command to restore its master key",
		x,
	)
	return err
}

func (x *genMnemonicCommand) Execute(_ []string) error {
	if err := x.env.start(); err != nil {
		return err
	}

	mnemonic, err := keychain.GenerateMnemonic(x.Words)
	if err != nil {
		return err
	}

	log.Debugf("Generated %d word mnemonic", x.Words)

	_, err = fmt.Fprintln(x.env.out, mnemonic)
	return err
}
