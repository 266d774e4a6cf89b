package keychain

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/dhruv-1001/extkeys/hdpath"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// keyOptions holds the optional settings of a new DescriptorKey.
type keyOptions struct {
	wildcard hdpath.Wildcard
}

// defaultKeyOptions returns the settings used when no KeyOption is given.
func defaultKeyOptions() *keyOptions {
	return &keyOptions{
		wildcard: hdpath.WildcardNone,
	}
}

// KeyOption is a functional option that modifies a new DescriptorKey.
type KeyOption func(*keyOptions)

// WithWildcard sets the wildcard of the new key.
func WithWildcard(w hdpath.Wildcard) KeyOption {
	return func(o *keyOptions) {
		o.wildcard = w
	}
}

// New restores the master key of a BIP39 mnemonic on the given network. The
// returned key is secret, has no origin and an empty suffix path.
func New(net *chaincfg.Params, mnemonic, passphrase string,
	opts ...KeyOption) (*DescriptorKey, error) {

	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}

	master, err := NewMasterKey(seed, net)
	if err != nil {
		return nil, err
	}

	log.Debugf("Created master key %v on %v", master.Fingerprint(),
		net.Name)

	return newRootKey(master, opts), nil
}

// NewFromExtendedKey wraps an existing base58check xprv or xpub, which must
// be encoded for net, as a DescriptorKey without origin.
func NewFromExtendedKey(text string, net *chaincfg.Params,
	opts ...KeyOption) (*DescriptorKey, error) {

	material, err := ParseExtendedKey(text, net)
	if err != nil {
		return nil, err
	}

	return newRootKey(material, opts), nil
}

// newRootKey builds an origin-less key with an empty suffix path.
func newRootKey(material *ExtendedKey, opts []KeyOption) *DescriptorKey {
	cfg := defaultKeyOptions()
	for _, opt := range opts {
		opt(cfg)
	}

	return newDescriptorKey(
		material, fn.None[KeyOrigin](), hdpath.DerivationPath{},
		cfg.wildcard,
	)
}

// Derive applies path to the key material, returning a key of the same kind
// whose material is the child at path. The origin records the step: an
// existing origin grows by path, otherwise the key's own fingerprint and
// path become the origin. The result has an empty suffix path; any suffix on
// k is dropped. The wildcard is kept.
//
// Public keys can't follow hardened indices. Such a path fails with
// ErrHardenedDerivationOnPublicKey before any derivation takes place.
func (k *DescriptorKey) Derive(path hdpath.DerivationPath) (*DescriptorKey,
	error) {

	if !k.path.IsEmpty() {
		log.Debugf("Dropping suffix path %v of %v key %v while "+
			"deriving %v", k.path, k.Kind(), k.material.Fingerprint(),
			path)
	}

	material, err := k.material.DerivePath(path)
	if err != nil {
		return nil, fmt.Errorf("unable to derive %v from %v: %w", path,
			k.material.Fingerprint(), err)
	}

	origin := ExtendOrigin(k.origin, k.material.Fingerprint(), path)

	log.Tracef("Derived %v key at %v: %v", k.Kind(), origin,
		newLogClosure(func() string {
			return material.Fingerprint().String()
		}))

	return newDescriptorKey(
		material, fn.Some(origin), hdpath.DerivationPath{}, k.wildcard,
	), nil
}

// Extend records path as further derivation without performing it. The
// material is left untouched, the suffix path grows by path, and the origin
// is extended the same way Derive extends it.
func (k *DescriptorKey) Extend(path hdpath.DerivationPath) *DescriptorKey {
	origin := ExtendOrigin(k.origin, k.material.Fingerprint(), path)

	return newDescriptorKey(
		k.material, fn.Some(origin), hdpath.Concat(k.path, path),
		k.wildcard,
	)
}

// AsPublic returns the public counterpart of a secret key with the same
// origin, suffix path and wildcard. A public key is returned unchanged.
func (k *DescriptorKey) AsPublic() (*DescriptorKey, error) {
	if !k.IsSecret() {
		return k, nil
	}

	pub, err := k.material.Neuter()
	if err != nil {
		return nil, err
	}

	log.Tracef("Neutered key: %v", spewClosure(k.origin))

	return newDescriptorKey(pub, k.origin, k.path, k.wildcard), nil
}
