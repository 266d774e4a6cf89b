package keychain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/dhruv-1001/extkeys/hdpath"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// FingerprintSize is the size of a key fingerprint in bytes.
const FingerprintSize = 4

// Fingerprint is the first four bytes of the hash160 of a compressed public
// key. It identifies the key an origin path starts from.
type Fingerprint [FingerprintSize]byte

// FingerprintFromUint32 converts the big endian integer form used by
// hdkeychain into a Fingerprint.
func FingerprintFromUint32(v uint32) Fingerprint {
	var fp Fingerprint
	binary.BigEndian.PutUint32(fp[:], v)

	return fp
}

// String returns the lower case hex encoding of the fingerprint.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// ParseFingerprint decodes exactly eight hex characters into a Fingerprint.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	if len(s) != hex.EncodedLen(FingerprintSize) {
		return fp, fmt.Errorf("%w: fingerprint %q must be %d hex "+
			"characters", ErrInvalidDescriptorKey, s,
			hex.EncodedLen(FingerprintSize))
	}

	if _, err := hex.Decode(fp[:], []byte(s)); err != nil {
		return fp, fmt.Errorf("%w: fingerprint %q: %v",
			ErrInvalidDescriptorKey, s, err)
	}

	return fp, nil
}

// KeyOrigin records where a derived key came from: the fingerprint of the
// key derivation started at, and the path walked from there.
type KeyOrigin struct {
	// Fingerprint identifies the key the path is relative to.
	Fingerprint Fingerprint

	// Path is the derivation path from that key.
	Path hdpath.DerivationPath
}

// Equal returns true if both origins have the same fingerprint and path.
func (o KeyOrigin) Equal(other KeyOrigin) bool {
	return o.Fingerprint == other.Fingerprint && o.Path.Equal(other.Path)
}

// String renders the origin the way it appears between brackets in a
// descriptor, e.g. "d1d04177/84'/1'/0'".
func (o KeyOrigin) String() string {
	if o.Path.IsEmpty() {
		return o.Fingerprint.String()
	}

	return o.Fingerprint.String() + "/" + o.Path.Suffix()
}

// ExtendOrigin computes the origin of a key reached by following path from a
// key with the given origin. An existing origin keeps its fingerprint and
// grows by path. Without one, parentFP becomes the fingerprint and path the
// whole origin path.
func ExtendOrigin(origin fn.Option[KeyOrigin], parentFP Fingerprint,
	path hdpath.DerivationPath) KeyOrigin {

	return fn.ElimOption(
		origin,
		func() KeyOrigin {
			return KeyOrigin{Fingerprint: parentFP, Path: path}
		},
		func(o KeyOrigin) KeyOrigin {
			return KeyOrigin{
				Fingerprint: o.Fingerprint,
				Path:        hdpath.Concat(o.Path, path),
			}
		},
	)
}

// originsEqual compares two optional origins.
func originsEqual(a, b fn.Option[KeyOrigin]) bool {
	if a.IsSome() != b.IsSome() {
		return false
	}

	return fn.ElimOption(
		a,
		func() bool { return true },
		func(x KeyOrigin) bool {
			return fn.MapOptionZ(b, x.Equal)
		},
	)
}
