package keychain

import (
	"testing"

	"github.com/dhruv-1001/extkeys/hdpath"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
)

// TestExtendOrigin checks both branches of the origin rule.
func TestExtendOrigin(t *testing.T) {
	t.Parallel()

	parent := Fingerprint{0xaa, 0xbb, 0xcc, 0xdd}
	master := Fingerprint{0xd1, 0xd0, 0x41, 0x77}

	testCases := []struct {
		name   string
		origin fn.Option[KeyOrigin]
		path   string
		want   string
	}{
		{
			name:   "no origin",
			origin: fn.None[KeyOrigin](),
			path:   "m/0/1'",
			want:   "aabbccdd/0/1'",
		},
		{
			name:   "no origin empty path",
			origin: fn.None[KeyOrigin](),
			path:   "m",
			want:   "aabbccdd",
		},
		{
			name: "existing origin",
			origin: fn.Some(KeyOrigin{
				Fingerprint: master,
				Path:        hdpath.MustParse("m/84'"),
			}),
			path: "m/1'/0'",
			want: "d1d04177/84'/1'/0'",
		},
		{
			name: "existing origin empty path",
			origin: fn.Some(KeyOrigin{
				Fingerprint: master,
				Path:        hdpath.MustParse("m/84'"),
			}),
			path: "m",
			want: "d1d04177/84'",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ExtendOrigin(
				tc.origin, parent, hdpath.MustParse(tc.path),
			)
			require.Equal(t, tc.want, got.String())
		})
	}
}

// TestOriginsEqual checks comparison of optional origins.
func TestOriginsEqual(t *testing.T) {
	t.Parallel()

	a := KeyOrigin{Path: hdpath.MustParse("m/1")}
	b := KeyOrigin{Path: hdpath.MustParse("m/2")}

	require.True(t, originsEqual(fn.None[KeyOrigin](), fn.None[KeyOrigin]()))
	require.True(t, originsEqual(fn.Some(a), fn.Some(a)))
	require.False(t, originsEqual(fn.Some(a), fn.Some(b)))
	require.False(t, originsEqual(fn.Some(a), fn.None[KeyOrigin]()))
	require.False(t, originsEqual(fn.None[KeyOrigin](), fn.Some(a)))
}
