package keychain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/dhruv-1001/extkeys/hdpath"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// compressedPubKeyLen and uncompressedPubKeyLen are the sizes of SEC
	// encoded public keys.
	compressedPubKeyLen   = 33
	uncompressedPubKeyLen = 65

	// xOnlyPubKeyLen is the size of a BIP340 public key.
	xOnlyPubKeyLen = 32
)

// String serializes the key in descriptor notation. The origin is written
// in brackets if present, followed by the base58check extended key, the
// suffix path and the wildcard marker:
//
//	[d1d04177/84'/1'/0']tpubDC.../0/*
func (k *DescriptorKey) String() string {
	var b strings.Builder

	k.origin.WhenSome(func(o KeyOrigin) {
		b.WriteByte('[')
		b.WriteString(o.String())
		b.WriteByte(']')
	})

	b.WriteString(k.material.String())

	if !k.path.IsEmpty() {
		b.WriteByte('/')
		b.WriteString(k.path.Suffix())
	}

	b.WriteString(k.wildcard.Marker())

	return b.String()
}

// ParseDescriptorKey parses the descriptor notation produced by String. The
// extended key must be encoded for net. Single keys, whether hex encoded or
// WIF, are rejected with ErrUnsupportedKeyVariant.
func ParseDescriptorKey(text string, net *chaincfg.Params) (*DescriptorKey,
	error) {

	text = strings.TrimSpace(text)

	origin, rest, err := parseOrigin(text)
	if err != nil {
		return nil, err
	}

	keyText, suffixText, hasSuffix := strings.Cut(rest, "/")
	if keyText == "" {
		return nil, fmt.Errorf("%w: missing key in %q",
			ErrInvalidDescriptorKey, text)
	}

	var (
		path     hdpath.DerivationPath
		wildcard = hdpath.WildcardNone
	)
	if hasSuffix {
		var pathText string
		pathText, wildcard = hdpath.StripWildcard(suffixText)

		// A bare wildcard leaves nothing to parse, any other empty
		// remainder is a dangling separator.
		bareWildcard := wildcard != hdpath.WildcardNone &&
			!strings.Contains(suffixText, "/")
		if !bareWildcard {
			path, err = hdpath.ParseRelative(pathText)
			if err == nil && path.IsEmpty() {
				err = fmt.Errorf("%w: empty suffix path",
					hdpath.ErrPathSyntax)
			}
			if err != nil {
				return nil, fmt.Errorf("descriptor key %q: %w",
					text, err)
			}
		}
	}

	material, err := parseKeyMaterial(keyText, net)
	if err != nil {
		return nil, err
	}

	return newDescriptorKey(material, origin, path, wildcard), nil
}

// parseOrigin splits an optional leading "[fingerprint/path]" from text.
func parseOrigin(text string) (fn.Option[KeyOrigin], string, error) {
	none := fn.None[KeyOrigin]()

	if !strings.HasPrefix(text, "[") {
		if strings.ContainsAny(text, "[]") {
			return none, "", fmt.Errorf("%w: misplaced bracket in "+
				"%q", ErrInvalidDescriptorKey, text)
		}

		return none, text, nil
	}

	end := strings.IndexByte(text, ']')
	if end < 0 {
		return none, "", fmt.Errorf("%w: unterminated key origin in "+
			"%q", ErrInvalidDescriptorKey, text)
	}

	inner, rest := text[1:end], text[end+1:]
	if strings.ContainsAny(inner, "[") || strings.ContainsAny(rest, "[]") {
		return none, "", fmt.Errorf("%w: misplaced bracket in %q",
			ErrInvalidDescriptorKey, text)
	}

	fpText, pathText, hasPath := strings.Cut(inner, "/")
	fp, err := ParseFingerprint(fpText)
	if err != nil {
		return none, "", err
	}

	var path hdpath.DerivationPath
	if hasPath {
		path, err = hdpath.ParseRelative(pathText)
		if err == nil && path.IsEmpty() {
			err = fmt.Errorf("%w: empty origin path",
				hdpath.ErrPathSyntax)
		}
		if err != nil {
			return none, "", fmt.Errorf("key origin %q: %w", inner,
				err)
		}
	}

	return fn.Some(KeyOrigin{Fingerprint: fp, Path: path}), rest, nil
}

// parseKeyMaterial decodes the key part of a descriptor key, rejecting the
// single key forms descriptors also allow.
func parseKeyMaterial(keyText string,
	net *chaincfg.Params) (*ExtendedKey, error) {

	if raw, err := hex.DecodeString(keyText); err == nil {
		switch len(raw) {
		case compressedPubKeyLen, uncompressedPubKeyLen,
			xOnlyPubKeyLen:

			return nil, fmt.Errorf("%w: %d byte public key",
				ErrUnsupportedKeyVariant, len(raw))
		}
	}

	if _, err := btcutil.DecodeWIF(keyText); err == nil {
		return nil, fmt.Errorf("%w: WIF private key",
			ErrUnsupportedKeyVariant)
	}

	return ParseExtendedKey(keyText, net)
}
