package keychain

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// mnemonicEntropyBits maps each supported mnemonic length to the entropy it
// encodes.
var mnemonicEntropyBits = map[int]int{
	12: 128,
	15: 160,
	18: 192,
	21: 224,
	24: 256,
}

// NormalizeMnemonic collapses any run of whitespace in a mnemonic to a single
// space and trims the ends.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}

// SeedFromMnemonic checks a BIP39 English mnemonic against the word list and
// its checksum and returns the 64 byte seed for it.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(
		NormalizeMnemonic(mnemonic), passphrase,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}

	return seed, nil
}

// GenerateMnemonic returns a fresh random English mnemonic with the given
// number of words.
func GenerateMnemonic(wordCount int) (string, error) {
	bits, ok := mnemonicEntropyBits[wordCount]
	if !ok {
		return "", fmt.Errorf("%w: got %d", ErrInvalidWordCount,
			wordCount)
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("unable to generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("unable to encode mnemonic: %w", err)
	}

	return mnemonic, nil
}
