package main

import (
	"fmt"

	"github.com/dhruv-1001/extkeys/hdpath"
	"github.com/dhruv-1001/extkeys/keychain"
	"github.com/jessevdk/go-flags"
)

type deriveCommand struct {
	Key    string `long:"key" short:"k" description:"The descriptor key to derive from" required:"true"`
	Path   string `long:"path" short:"p" description:"The derivation path starting at m, e.g. m/84'/1'/0'" required:"true"`
	Public bool   `long:"public" description:"Print the public counterpart of the derived key"`
	Range  uint32 `long:"range" description:"If the key has a wildcard, also print the first N children at the wildcard position, one per line"`

	env *environment
}

func newDeriveCommand(env *environment) *deriveCommand {
	return &deriveCommand{
		env: env,
	}
}

func (x *deriveCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"derive",
		"Derive a child key",
		"Derive the child of a descriptor key at the given path; the "+
			"origin of the result records the path and its "+
			"suffix path is empty",
		x,
	)
	return err
}

func (x *deriveCommand) Execute(_ []string) error {
	if err := x.env.start(); err != nil {
		return err
	}

	key, err := x.env.parseKey(x.Key)
	if err != nil {
		return err
	}

	path, err := parseDerivePath(x.Path)
	if err != nil {
		return err
	}

	derived, err := key.Derive(path)
	if err != nil {
		return err
	}

	if x.Public {
		derived, err = derived.AsPublic()
		if err != nil {
			return err
		}
	}

	if err := x.env.printKey(derived); err != nil {
		return err
	}

	if x.Range == 0 {
		return nil
	}

	return printRange(x.env, derived, x.Range)
}

// printRange derives and prints the first count children of key at its
// wildcard position. The children themselves are not ranged.
func printRange(env *environment, key *keychain.DescriptorKey,
	count uint32) error {

	if key.Wildcard() == hdpath.WildcardNone {
		return fmt.Errorf("--range requires a key with a wildcard")
	}

	hardened := key.Wildcard() == hdpath.WildcardHardened
	for i := uint32(0); i < count; i++ {
		index, err := hdpath.NewChildIndex(i, hardened)
		if err != nil {
			return err
		}

		child, err := key.Derive(hdpath.NewDerivationPath(index))
		if err != nil {
			return err
		}

		err = env.printKey(child.WithWildcard(hdpath.WildcardNone))
		if err != nil {
			return err
		}
	}

	log.Debugf("Derived %d children of %v", count, key)

	return nil
}

type extendCommand struct {
	Key  string `long:"key" short:"k" description:"The descriptor key to extend" required:"true"`
	Path string `long:"path" short:"p" description:"The path to append, optionally ending in a wildcard, e.g. 0/* or m/0" required:"true"`

	env *environment
}

func newExtendCommand(env *environment) *extendCommand {
	return &extendCommand{
		env: env,
	}
}

func (x *extendCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"extend",
		"Append a path to a key without deriving",
		"Append a path to the suffix path of a descriptor key and "+
			"record it in the origin, leaving the extended key "+
			"itself untouched",
		x,
	)
	return err
}

func (x *extendCommand) Execute(_ []string) error {
	if err := x.env.start(); err != nil {
		return err
	}

	key, err := x.env.parseKey(x.Key)
	if err != nil {
		return err
	}

	path, wildcard, err := parseExtendPath(x.Path)
	if err != nil {
		return err
	}

	extended := key.Extend(path)
	if wildcard != hdpath.WildcardNone {
		extended = extended.WithWildcard(wildcard)
	}

	return x.env.printKey(extended)
}

type publicCommand struct {
	Key string `long:"key" short:"k" description:"The descriptor key to neuter" required:"true"`

	env *environment
}

func newPublicCommand(env *environment) *publicCommand {
	return &publicCommand{
		env: env,
	}
}

func (x *publicCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"public",
		"Print the public counterpart of a key",
		"Convert a secret descriptor key into its public counterpart "+
			"keeping origin, suffix path and wildcard; public keys "+
			"are printed unchanged",
		x,
	)
	return err
}

func (x *publicCommand) Execute(_ []string) error {
	if err := x.env.start(); err != nil {
		return err
	}

	key, err := x.env.parseKey(x.Key)
	if err != nil {
		return err
	}

	pub, err := key.AsPublic()
	if err != nil {
		return err
	}

	return x.env.printKey(pub)
}
