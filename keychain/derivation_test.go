package keychain

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/dhruv-1001/extkeys/hdpath"
	"github.com/stretchr/testify/require"
)

const (
	testMnemonic = "chaos fabric time speed sponsor all flat solution " +
		"wisdom trophy crack object robot pave observe combine where " +
		"aware bench orient secret primary cable detect"

	testMasterFingerprint = "d1d04177"

	testMasterKey = "tprv8ZgxMBicQKsPdWuqM1t1CDRvQtQuBPyfL6GbhQwtxDKgUAV" +
		"Pbxmj71pRA8raTqLrec5LyTs5TqCxdABcZr77bt2KyWA5bizJHnC4g4ysm4h"

	testChildKey = "tprv8d7Y4JLmD25jkKbyDZXcdoPHu1YtMHuH21qeN7mFpjfumtSU7" +
		"eZimFYUCSa3MYzkEYfSNRBV34GEr2QXwZCMYRZ7M1g6PUtiLhbJhBZEGYJ"
)

// newTestMaster restores the master key of the test mnemonic on testnet.
func newTestMaster(t testing.TB) *DescriptorKey {
	t.Helper()

	master, err := New(&chaincfg.TestNet3Params, testMnemonic, "")
	require.NoError(t, err)

	return master
}

// TestNewMaster checks the master key restored from the test mnemonic.
func TestNewMaster(t *testing.T) {
	t.Parallel()

	master := newTestMaster(t)

	require.Equal(t, KeySecret, master.Kind())
	require.True(t, master.Origin().IsNone())
	require.True(t, master.Path().IsEmpty())
	require.Equal(t, hdpath.WildcardNone, master.Wildcard())
	require.Equal(t, testMasterKey, master.String())

	material := master.Material()
	require.Equal(t, uint8(0), material.Depth())
	require.Equal(t, Fingerprint{}, material.ParentFingerprint())
	require.Equal(t, uint32(0), material.ChildIndex().Raw())
	require.Equal(t, testMasterFingerprint, material.Fingerprint().String())
	require.Len(t, material.ChainCode(), 32)

	// Runs of whitespace don't change the seed.
	messy := "  " + strings.ReplaceAll(testMnemonic, " ", " \n\t ") + "\n"
	again, err := New(&chaincfg.TestNet3Params, messy, "")
	require.NoError(t, err)
	require.True(t, master.Equal(again))

	// A passphrase does.
	other, err := New(&chaincfg.TestNet3Params, testMnemonic, "TREZOR")
	require.NoError(t, err)
	require.False(t, master.Equal(other))

	ranged, err := New(
		&chaincfg.TestNet3Params, testMnemonic, "",
		WithWildcard(hdpath.WildcardHardened),
	)
	require.NoError(t, err)
	require.Equal(t, hdpath.WildcardHardened, ranged.Wildcard())
	require.Equal(t, testMasterKey+"/*'", ranged.String())
}

// TestNewInvalidMnemonic makes sure bad phrases are rejected with
// ErrInvalidMnemonic.
func TestNewInvalidMnemonic(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		mnemonic string
	}{
		{
			name:     "empty",
			mnemonic: "",
		},
		{
			name: "unknown word",
			mnemonic: strings.Replace(
				testMnemonic, "chaos", "chaoss", 1,
			),
		},
		{
			name:     "bad checksum",
			mnemonic: strings.Repeat("abandon ", 12),
		},
		{
			name:     "too short",
			mnemonic: "chaos fabric time",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(&chaincfg.TestNet3Params, tc.mnemonic, "")
			require.ErrorIs(t, err, ErrInvalidMnemonic)
		})
	}
}

// TestDerive checks derivation of the test vector and the origin it
// records.
func TestDerive(t *testing.T) {
	t.Parallel()

	master := newTestMaster(t)

	child, err := master.Derive(hdpath.MustParse("m/0"))
	require.NoError(t, err)
	require.Equal(t, KeySecret, child.Kind())
	require.True(t, child.Path().IsEmpty())
	require.Equal(t,
		"["+testMasterFingerprint+"/0]"+testChildKey, child.String(),
	)

	origin := child.Origin().UnwrapOrFail(t)
	require.Equal(t, testMasterFingerprint, origin.Fingerprint.String())
	require.Equal(t, "m/0", origin.Path.String())

	require.Equal(t, uint8(1), child.Material().Depth())
	require.Equal(t,
		master.Material().Fingerprint(),
		child.Material().ParentFingerprint(),
	)

	// Deriving from a key with an origin grows that origin and keeps
	// its fingerprint.
	grandChild, err := child.Derive(hdpath.MustParse("m/1'/2"))
	require.NoError(t, err)

	origin = grandChild.Origin().UnwrapOrFail(t)
	require.Equal(t, testMasterFingerprint, origin.Fingerprint.String())
	require.Equal(t, "m/0/1'/2", origin.Path.String())

	direct, err := master.Derive(hdpath.MustParse("m/0/1'/2"))
	require.NoError(t, err)
	require.True(t, direct.Equal(grandChild))

	// The parent is left untouched.
	require.Equal(t, testMasterKey, master.String())
}

// TestDeriveEmptyPath checks that deriving the empty path only establishes
// the origin.
func TestDeriveEmptyPath(t *testing.T) {
	t.Parallel()

	master := newTestMaster(t)

	self, err := master.Derive(hdpath.DerivationPath{})
	require.NoError(t, err)
	require.True(t, self.Material().Equal(master.Material()))
	require.Equal(t, "["+testMasterFingerprint+"]"+testMasterKey,
		self.String())
}

// TestDeriveDropsSuffix checks that the suffix path of a key is discarded
// rather than applied when the key is derived.
func TestDeriveDropsSuffix(t *testing.T) {
	t.Parallel()

	master := newTestMaster(t)

	extended := master.Extend(hdpath.MustParse("m/5"))
	derived, err := extended.Derive(hdpath.MustParse("m/1"))
	require.NoError(t, err)
	require.True(t, derived.Path().IsEmpty())

	// Material is the plain child at m/1, origin is the extended origin
	// grown by m/1.
	plain, err := master.Derive(hdpath.MustParse("m/1"))
	require.NoError(t, err)
	require.True(t, derived.Material().Equal(plain.Material()))
	require.Equal(t, "m/5/1",
		derived.Origin().UnwrapOrFail(t).Path.String())
}

// TestExtend checks the test vector for extension.
func TestExtend(t *testing.T) {
	t.Parallel()

	master := newTestMaster(t)

	extended := master.Extend(hdpath.MustParse("m/0"))
	require.True(t, extended.Material().Equal(master.Material()))
	require.Equal(t, "m/0", extended.Path().String())

	origin := extended.Origin().UnwrapOrFail(t)
	require.Equal(t, testMasterFingerprint, origin.Fingerprint.String())
	require.Equal(t, "m/0", origin.Path.String())

	require.Equal(t,
		"["+testMasterFingerprint+"/0]"+testMasterKey+"/0",
		extended.String(),
	)

	twice := extended.Extend(hdpath.MustParse("m/1'"))
	require.Equal(t, "m/0/1'", twice.Path().String())
	require.Equal(t, "m/0/1'",
		twice.Origin().UnwrapOrFail(t).Path.String())
	require.Equal(t, "m/0/1'/0/1'", twice.FullPath().String())
}

// TestAsPublic checks neutering and its idempotence.
func TestAsPublic(t *testing.T) {
	t.Parallel()

	master := newTestMaster(t)
	extended := master.Extend(hdpath.MustParse("m/7")).WithWildcard(
		hdpath.WildcardUnhardened,
	)

	pub, err := extended.AsPublic()
	require.NoError(t, err)
	require.Equal(t, KeyPublic, pub.Kind())
	require.False(t, pub.IsSecret())
	require.True(t, strings.HasPrefix(pub.Material().String(), "tpub"))
	require.Equal(t, extended.Path(), pub.Path())
	require.Equal(t, extended.Wildcard(), pub.Wildcard())
	require.True(t, originsEqual(extended.Origin(), pub.Origin()))
	require.Equal(t,
		master.Material().Fingerprint(), pub.Material().Fingerprint(),
	)

	_, err = pub.Material().PrivKey()
	require.ErrorIs(t, err, ErrNotPrivateKey)

	privKey, err := master.Material().PrivKey()
	require.NoError(t, err)
	pubKey, err := pub.Material().PubKey()
	require.NoError(t, err)
	require.True(t, privKey.PubKey().IsEqual(pubKey))

	again, err := pub.AsPublic()
	require.NoError(t, err)
	require.Same(t, pub, again)
}

// TestDeriveHardenedFromPublic checks that public keys refuse hardened
// steps anywhere in the path.
func TestDeriveHardenedFromPublic(t *testing.T) {
	t.Parallel()

	master := newTestMaster(t)
	pub, err := master.AsPublic()
	require.NoError(t, err)

	for _, path := range []string{"m/84'/1'/0'", "m/0'", "m/0/1/2h"} {
		_, err := pub.Derive(hdpath.MustParse(path))
		require.ErrorIs(t, err, ErrHardenedDerivationOnPublicKey, path)
	}

	child, err := pub.Derive(hdpath.MustParse("m/0/1"))
	require.NoError(t, err)
	require.Equal(t, KeyPublic, child.Kind())
}

// TestNewFromExtendedKey checks wrapping an existing extended key.
func TestNewFromExtendedKey(t *testing.T) {
	t.Parallel()

	key, err := NewFromExtendedKey(testChildKey, &chaincfg.TestNet3Params)
	require.NoError(t, err)
	require.True(t, key.Origin().IsNone())
	require.Equal(t, testChildKey, key.String())
	require.Equal(t, testMasterFingerprint,
		key.Material().ParentFingerprint().String())

	// Regtest shares the testnet version bytes.
	_, err = NewFromExtendedKey(testChildKey,
		&chaincfg.RegressionNetParams)
	require.NoError(t, err)

	_, err = NewFromExtendedKey(testChildKey, &chaincfg.MainNetParams)
	require.ErrorIs(t, err, ErrNetworkMismatch)

	_, err = NewFromExtendedKey("tprvnotakey", &chaincfg.TestNet3Params)
	require.ErrorIs(t, err, ErrInvalidDescriptorKey)
}

// TestGenerateMnemonic checks the supported lengths of fresh mnemonics and
// that they restore.
func TestGenerateMnemonic(t *testing.T) {
	t.Parallel()

	for _, words := range []int{12, 15, 18, 21, 24} {
		mnemonic, err := GenerateMnemonic(words)
		require.NoError(t, err)
		require.Len(t, strings.Fields(mnemonic), words)

		_, err = New(&chaincfg.MainNetParams, mnemonic, "")
		require.NoError(t, err)
	}

	for _, words := range []int{0, 11, 13, 25} {
		_, err := GenerateMnemonic(words)
		require.ErrorIs(t, err, ErrInvalidWordCount)
	}
}
