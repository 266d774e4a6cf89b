package keychain

import (
	"github.com/dhruv-1001/extkeys/hdpath"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// KeyKind tells whether a DescriptorKey holds private or public material.
type KeyKind uint8

const (
	// KeySecret is a descriptor key with a private extended key.
	KeySecret KeyKind = iota

	// KeyPublic is a descriptor key with a public extended key.
	KeyPublic
)

// String returns a human readable name for the kind.
func (k KeyKind) String() string {
	switch k {
	case KeySecret:
		return "secret"
	case KeyPublic:
		return "public"
	default:
		return "unknown"
	}
}

// DescriptorKey is an extended key together with its provenance, in the
// shape used by output script descriptors:
//
//	[origin fingerprint/origin path]extended key/suffix path/wildcard
//
// The origin records derivation already applied to the material. The suffix
// path is derivation that has been recorded but not applied yet. Whether the
// key is secret or public follows from its material.
//
// A DescriptorKey is immutable. Every operation returns a new value, and a
// single value may be used from any number of goroutines.
type DescriptorKey struct {
	material *ExtendedKey
	origin   fn.Option[KeyOrigin]
	path     hdpath.DerivationPath
	wildcard hdpath.Wildcard
}

// newDescriptorKey assembles a DescriptorKey from its parts.
func newDescriptorKey(material *ExtendedKey, origin fn.Option[KeyOrigin],
	path hdpath.DerivationPath, wildcard hdpath.Wildcard) *DescriptorKey {

	return &DescriptorKey{
		material: material,
		origin:   origin,
		path:     path,
		wildcard: wildcard,
	}
}

// Kind returns KeySecret for private material and KeyPublic otherwise.
func (k *DescriptorKey) Kind() KeyKind {
	if k.material.IsPrivate() {
		return KeySecret
	}

	return KeyPublic
}

// IsSecret is shorthand for Kind() == KeySecret.
func (k *DescriptorKey) IsSecret() bool {
	return k.Kind() == KeySecret
}

// Material returns the extended key.
func (k *DescriptorKey) Material() *ExtendedKey {
	return k.material
}

// Origin returns the key origin, if one has been established.
func (k *DescriptorKey) Origin() fn.Option[KeyOrigin] {
	return k.origin
}

// Path returns the suffix path that has not been applied to the material.
func (k *DescriptorKey) Path() hdpath.DerivationPath {
	return k.path
}

// Wildcard returns the wildcard marker of the key.
func (k *DescriptorKey) Wildcard() hdpath.Wildcard {
	return k.wildcard
}

// FullPath returns the origin path followed by the suffix path, i.e. the
// complete path from the origin fingerprint's key.
func (k *DescriptorKey) FullPath() hdpath.DerivationPath {
	originPath := fn.MapOptionZ(
		k.origin, func(o KeyOrigin) hdpath.DerivationPath {
			return o.Path
		},
	)

	return hdpath.Concat(originPath, k.path)
}

// WithWildcard returns a copy of the key with the wildcard replaced.
func (k *DescriptorKey) WithWildcard(w hdpath.Wildcard) *DescriptorKey {
	return newDescriptorKey(k.material, k.origin, k.path, w)
}

// Equal returns true if both keys have the same material, origin, suffix
// path and wildcard.
func (k *DescriptorKey) Equal(other *DescriptorKey) bool {
	if k == nil || other == nil {
		return k == other
	}

	return k.material.Equal(other.material) &&
		originsEqual(k.origin, other.origin) &&
		k.path.Equal(other.path) &&
		k.wildcard == other.wildcard
}
