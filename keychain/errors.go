package keychain

import "errors"

var (
	// ErrInvalidMnemonic is returned when a mnemonic contains words that
	// are not in the English word list or fails its checksum.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrInvalidWordCount is returned when a mnemonic of an unsupported
	// length is requested.
	ErrInvalidWordCount = errors.New("mnemonic word count must be one " +
		"of 12, 15, 18, 21 or 24")

	// ErrHardenedDerivationOnPublicKey is returned when a path containing
	// a hardened index is derived from a public key.
	ErrHardenedDerivationOnPublicKey = errors.New("cannot derive a " +
		"hardened child from a public key")

	// ErrUnsupportedKeyVariant is returned when a descriptor key holds a
	// single key rather than an extended key.
	ErrUnsupportedKeyVariant = errors.New("only extended keys are " +
		"supported")

	// ErrNetworkMismatch is returned when an extended key's version bytes
	// don't belong to the requested network.
	ErrNetworkMismatch = errors.New("extended key is for a different " +
		"network")

	// ErrInvalidDescriptorKey is returned when descriptor key text is
	// malformed outside of its derivation paths.
	ErrInvalidDescriptorKey = errors.New("invalid descriptor key")

	// ErrNotPrivateKey is returned when private key material is requested
	// from a public key.
	ErrNotPrivateKey = errors.New("key has no private material")
)
