package keychain

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/dhruv-1001/extkeys/hdpath"
)

// ExtendedKey is a BIP32 extended key, either private or public, bound to the
// network whose version bytes it carries. An ExtendedKey is never modified
// after construction, so a single value can be shared between goroutines.
type ExtendedKey struct {
	key *hdkeychain.ExtendedKey

	net *chaincfg.Params

	// fingerprint and encoded are derived from key once, up front, so
	// readers never populate state lazily.
	fingerprint Fingerprint
	encoded     string
}

// newExtendedKey wraps an hdkeychain key. The caller must not use key
// afterwards.
func newExtendedKey(key *hdkeychain.ExtendedKey,
	net *chaincfg.Params) (*ExtendedKey, error) {

	// ECPubKey memoizes the public key of a private key inside key, so it
	// has to run before the key is shared.
	pubKey, err := key.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("unable to compute public key: %w", err)
	}

	var fp Fingerprint
	copy(fp[:], btcutil.Hash160(pubKey.SerializeCompressed()))

	return &ExtendedKey{
		key:         key,
		net:         net,
		fingerprint: fp,
		encoded:     key.String(),
	}, nil
}

// NewMasterKey creates the BIP32 master key for the given seed.
func NewMasterKey(seed []byte, net *chaincfg.Params) (*ExtendedKey, error) {
	master, err := hdkeychain.NewMaster(seed, net)
	if err != nil {
		return nil, fmt.Errorf("unable to create master key: %w", err)
	}

	return newExtendedKey(master, net)
}

// ParseExtendedKey decodes a base58check extended key and makes sure its
// version bytes belong to net.
func ParseExtendedKey(text string, net *chaincfg.Params) (*ExtendedKey,
	error) {

	key, err := hdkeychain.NewKeyFromString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to decode extended key: %v",
			ErrInvalidDescriptorKey, err)
	}

	if !key.IsForNet(net) {
		return nil, fmt.Errorf("%w: version %x is not valid for %v",
			ErrNetworkMismatch, key.Version(), net.Name)
	}

	return newExtendedKey(key, net)
}

// IsPrivate returns true if the key carries a private scalar.
func (k *ExtendedKey) IsPrivate() bool {
	return k.key.IsPrivate()
}

// Net returns the network the key is encoded for.
func (k *ExtendedKey) Net() *chaincfg.Params {
	return k.net
}

// Depth returns the number of derivation steps between the master key and
// this key.
func (k *ExtendedKey) Depth() uint8 {
	return k.key.Depth()
}

// ParentFingerprint returns the fingerprint of the key this one was derived
// from. It is zero for a master key.
func (k *ExtendedKey) ParentFingerprint() Fingerprint {
	return FingerprintFromUint32(k.key.ParentFingerprint())
}

// ChildIndex returns the index this key was derived at.
func (k *ExtendedKey) ChildIndex() hdpath.ChildIndex {
	return hdpath.ChildIndexFromRaw(k.key.ChildIndex())
}

// ChainCode returns a copy of the key's chain code.
func (k *ExtendedKey) ChainCode() []byte {
	return append([]byte(nil), k.key.ChainCode()...)
}

// Fingerprint returns the key's own fingerprint.
func (k *ExtendedKey) Fingerprint() Fingerprint {
	return k.fingerprint
}

// PubKey returns the public key. For private keys it is computed from the
// scalar.
func (k *ExtendedKey) PubKey() (*btcec.PublicKey, error) {
	return k.key.ECPubKey()
}

// PrivKey returns the private key, or ErrNotPrivateKey for public keys.
func (k *ExtendedKey) PrivKey() (*btcec.PrivateKey, error) {
	if !k.key.IsPrivate() {
		return nil, ErrNotPrivateKey
	}

	return k.key.ECPrivKey()
}

// Neuter returns the public counterpart of the key. A public key is returned
// as is.
func (k *ExtendedKey) Neuter() (*ExtendedKey, error) {
	if !k.key.IsPrivate() {
		return k, nil
	}

	pub, err := k.key.Neuter()
	if err != nil {
		return nil, fmt.Errorf("unable to neuter key: %w", err)
	}

	return &ExtendedKey{
		key:         pub,
		net:         k.net,
		fingerprint: k.fingerprint,
		encoded:     pub.String(),
	}, nil
}

// Child derives the child at the given index: private CKD for private keys,
// public CKD for public keys.
func (k *ExtendedKey) Child(index hdpath.ChildIndex) (*ExtendedKey, error) {
	if index.IsHardened() && !k.key.IsPrivate() {
		return nil, fmt.Errorf("%w: index %v",
			ErrHardenedDerivationOnPublicKey, index)
	}

	child, err := k.key.Derive(index.Raw())
	switch {
	case errors.Is(err, hdkeychain.ErrDeriveHardFromPublic):
		return nil, fmt.Errorf("%w: index %v",
			ErrHardenedDerivationOnPublicKey, index)

	case err != nil:
		return nil, fmt.Errorf("unable to derive child %v: %w", index,
			err)
	}

	return newExtendedKey(child, k.net)
}

// DerivePath walks path one index at a time starting from k. Public keys
// reject paths with hardened indices before deriving anything.
func (k *ExtendedKey) DerivePath(path hdpath.DerivationPath) (*ExtendedKey,
	error) {

	if !k.key.IsPrivate() {
		if pos, ok := path.FirstHardened(); ok {
			return nil, fmt.Errorf("%w: index %v at position %d "+
				"of %v", ErrHardenedDerivationOnPublicKey,
				path.Indices()[pos], pos, path)
		}
	}

	current := k
	for _, index := range path.Indices() {
		child, err := current.Child(index)
		if err != nil {
			return nil, err
		}

		current = child
	}

	return current, nil
}

// Equal returns true if both keys serialize identically.
func (k *ExtendedKey) Equal(other *ExtendedKey) bool {
	if k == nil || other == nil {
		return k == other
	}

	return k.encoded == other.encoded
}

// String returns the base58check serialization of the key.
func (k *ExtendedKey) String() string {
	return k.encoded
}
