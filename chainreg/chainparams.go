package chainreg

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	bitcoinCfg "github.com/btcsuite/btcd/chaincfg"
	litecoinCfg "github.com/ltcsuite/ltcd/chaincfg"
)

const (
	// CoinTypeBitcoin specifies the BIP44 coin type for Bitcoin key
	// derivation.
	CoinTypeBitcoin uint32 = 0

	// CoinTypeTestnet specifies the BIP44 coin type for all testnet key
	// derivation.
	CoinTypeTestnet = 1

	// CoinTypeLitecoin specifies the BIP44 coin type for Litecoin key
	// derivation.
	CoinTypeLitecoin = 2
)

// ErrUnknownNetwork is returned when a network name has no entry in the
// network table.
var ErrUnknownNetwork = errors.New("unknown network")

// BitcoinNetParams couples the chain parameters of a network with the BIP44
// coin type used when deriving keys for it. The embedded params carry the
// HD version bytes that prefix serialized extended keys.
type BitcoinNetParams struct {
	*bitcoinCfg.Params
	CoinType uint32
}

// BitcoinTestNetParams contains parameters specific to the 3rd version of the
// test network.
var BitcoinTestNetParams = BitcoinNetParams{
	Params:   &bitcoinCfg.TestNet3Params,
	CoinType: CoinTypeTestnet,
}

// BitcoinMainNetParams contains parameters specific to the current Bitcoin
// mainnet.
var BitcoinMainNetParams = BitcoinNetParams{
	Params:   &bitcoinCfg.MainNetParams,
	CoinType: CoinTypeBitcoin,
}

// BitcoinSimNetParams contains parameters specific to the simulation test
// network.
var BitcoinSimNetParams = BitcoinNetParams{
	Params:   &bitcoinCfg.SimNetParams,
	CoinType: CoinTypeTestnet,
}

// BitcoinSigNetParams contains parameters specific to the default signet
// test network.
var BitcoinSigNetParams = BitcoinNetParams{
	Params:   &bitcoinCfg.SigNetParams,
	CoinType: CoinTypeTestnet,
}

// BitcoinRegTestNetParams contains parameters specific to a local regtest
// network.
var BitcoinRegTestNetParams = BitcoinNetParams{
	Params:   &bitcoinCfg.RegressionNetParams,
	CoinType: CoinTypeTestnet,
}

// LitecoinMainNetParams contains the parameters specific to the current
// Litecoin mainnet, expressed as btcd params so they can be handed to the
// btcsuite HD key code. Its HD version bytes are the same xprv/xpub pair as
// bitcoin mainnet, so extended keys of the two networks can't be told apart.
var LitecoinMainNetParams = BitcoinNetParams{
	Params: litecoinAsBitcoin(
		&bitcoinCfg.MainNetParams, &litecoinCfg.MainNetParams,
	),
	CoinType: CoinTypeLitecoin,
}

// LitecoinTestNetParams contains parameters specific to the 4th version of the
// Litecoin test network. Like the bitcoin test networks it uses tprv/tpub.
var LitecoinTestNetParams = BitcoinNetParams{
	Params: litecoinAsBitcoin(
		&bitcoinCfg.TestNet3Params, &litecoinCfg.TestNet4Params,
	),
	CoinType: CoinTypeTestnet,
}

// networks maps every accepted network name to its parameters.
var networks = map[string]BitcoinNetParams{
	"mainnet":     BitcoinMainNetParams,
	"testnet":     BitcoinTestNetParams,
	"testnet3":    BitcoinTestNetParams,
	"regtest":     BitcoinRegTestNetParams,
	"simnet":      BitcoinSimNetParams,
	"signet":      BitcoinSigNetParams,
	"ltc-mainnet": LitecoinMainNetParams,
	"ltc-testnet": LitecoinTestNetParams,
}

func init() {
	// btcd only neuters keys whose private version bytes are registered.
	// ltcd currently shares btcd's pairs, making this a no-op unless the
	// litecoin bytes change.
	for _, params := range []*litecoinCfg.Params{
		&litecoinCfg.MainNetParams, &litecoinCfg.TestNet4Params,
	} {
		err := bitcoinCfg.RegisterHDKeyID(
			params.HDPublicKeyID[:], params.HDPrivateKeyID[:],
		)
		if err != nil {
			panic(fmt.Sprintf("unable to register HD key ids for "+
				"%s: %v", params.Name, err))
		}
	}
}

// litecoinAsBitcoin returns a copy of base with the relevant chain
// configuration parameters replaced by their litecoin counterparts. This is
// used in place of something like interface{} to abstract over _which_ chain
// the parameters are for.
func litecoinAsBitcoin(base *bitcoinCfg.Params,
	ltc *litecoinCfg.Params) *bitcoinCfg.Params {

	params := *base

	params.Name = "ltc-" + ltc.Name
	params.DefaultPort = ltc.DefaultPort

	// Address encoding magics.
	params.PubKeyHashAddrID = ltc.PubKeyHashAddrID
	params.ScriptHashAddrID = ltc.ScriptHashAddrID
	params.PrivateKeyID = ltc.PrivateKeyID
	params.WitnessPubKeyHashAddrID = ltc.WitnessPubKeyHashAddrID
	params.Bech32HRPSegwit = ltc.Bech32HRPSegwit

	copy(params.HDPrivateKeyID[:], ltc.HDPrivateKeyID[:])
	copy(params.HDPublicKeyID[:], ltc.HDPublicKeyID[:])

	params.HDCoinType = ltc.HDCoinType

	return &params
}

// NormalizeNetwork returns the common name of a network type. This allows
// differently versioned networks to share a name.
func NormalizeNetwork(network string) string {
	network = strings.ToLower(strings.TrimSpace(network))
	if strings.HasPrefix(network, "testnet") {
		return "testnet"
	}

	return network
}

// ParamsForNetwork looks up the parameters for the named network.
func ParamsForNetwork(name string) (BitcoinNetParams, error) {
	params, ok := networks[NormalizeNetwork(name)]
	if !ok {
		return BitcoinNetParams{}, fmt.Errorf("%w: %q, supported "+
			"networks are %v", ErrUnknownNetwork, name,
			SupportedNetworks())
	}

	return params, nil
}

// SupportedNetworks returns the sorted list of accepted network names.
func SupportedNetworks() []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
