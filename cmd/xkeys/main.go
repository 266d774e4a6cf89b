package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
)

// subCommand is a command that can be registered with the parser.
type subCommand interface {
	Register(parser *flags.Parser) error
}

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout)
	if err == nil {
		return
	}

	// Help was requested, print it to stdout and exit cleanly.
	var flagErr *flags.Error
	if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
		fmt.Fprintln(os.Stdout, err)
		return
	}

	fmt.Fprintf(os.Stderr, "[xkeys] %v\n", err)
	os.Exit(1)
}

// run parses args and executes the selected command. Command output is
// written to out, secrets that aren't passed as flags are read from in.
func run(args []string, in io.Reader, out io.Writer) error {
	env := newEnvironment(in, out)
	defer env.close()

	parser := flags.NewParser(
		env.global, flags.HelpFlag|flags.PassDoubleDash,
	)

	commands := []subCommand{
		newGenMnemonicCommand(env),
		newNewCommand(env),
		newDeriveCommand(env),
		newExtendCommand(env),
		newPublicCommand(env),
		newInspectCommand(env),
	}
	for _, command := range commands {
		if err := command.Register(parser); err != nil {
			return fmt.Errorf("unable to register command: %w", err)
		}
	}

	_, err := parser.ParseArgs(args)

	return err
}
