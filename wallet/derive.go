package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var ErrUnsupportedCoin = errors.New("unsupported coin")

// Derived is the result of one address derivation. Same key and index
// always produce the same result.
type Derived struct {
	Address        string
	DerivationPath string
}

// Bech32 HRP is all that address encoding needs from the Litecoin params;
// key parsing happens on the normalized xpub form.
var litecoinParams = chaincfg.Params{
	Name:           "litecoin",
	Bech32HRPSegwit: "ltc",
}

// Derive computes the receive (or change) address for the given coin at
// the given derivation index. Pure function of its inputs; callers persist
// the result.
func Derive(coin string, key string, index uint32, change bool) (Derived, error) {
	switch coin {
	case "BTC":
		return deriveSegwit(key, 0, index, change, &chaincfg.MainNetParams)
	case "LTC":
		return deriveSegwit(key, 2, index, change, &litecoinParams)
	case "ETH", "USDT", "USDC":
		return deriveEthereum(key, index)
	case "SOL":
		return deriveSolana(key, index)
	default:
		return Derived{}, errors.Wrap(ErrUnsupportedCoin, coin)
	}
}

// BIP84: m/84'/coinType'/0'/change/index. The configured key is the
// account-level extended public key, so only the two non-hardened steps
// are derived here.
func deriveSegwit(key string, coinType uint32, index uint32, change bool, params *chaincfg.Params) (Derived, error) {
	normalized, err := NormalizeExtendedKey(key)
	if err != nil {
		return Derived{}, errors.Wrap(err, "normalizing extended key")
	}
	extKey, err := hdkeychain.NewKeyFromString(normalized)
	if err != nil {
		return Derived{}, errors.Wrap(err, "parsing extended key")
	}

	changeIndex := uint32(0)
	if change {
		changeIndex = 1
	}
	branch, err := extKey.Derive(changeIndex)
	if err != nil {
		return Derived{}, errors.Wrap(err, "deriving change branch")
	}
	child, err := branch.Derive(index)
	if err != nil {
		return Derived{}, errors.Wrap(err, "deriving child key")
	}
	pubKey, err := child.ECPubKey()
	if err != nil {
		return Derived{}, errors.Wrap(err, "extracting public key")
	}

	witnessProg := btcutil.Hash160(pubKey.SerializeCompressed())
	address, err := btcutil.NewAddressWitnessPubKeyHash(witnessProg, params)
	if err != nil {
		return Derived{}, errors.Wrap(err, "encoding witness address")
	}

	return Derived{
		Address:        address.EncodeAddress(),
		DerivationPath: fmt.Sprintf("m/84'/%d'/0'/%d/%d", coinType, changeIndex, index),
	}, nil
}

// BIP44 Ethereum path. Accepts either an account-level extended public key
// (preferred, real child derivation) or a single secp256k1 public key in
// hex, which maps every index to the same deposit address.
func deriveEthereum(key string, index uint32) (Derived, error) {
	path := fmt.Sprintf("m/44'/60'/0'/0/%d", index)

	if normalized, err := NormalizeExtendedKey(key); err == nil {
		extKey, err := hdkeychain.NewKeyFromString(normalized)
		if err != nil {
			return Derived{}, errors.Wrap(err, "parsing extended key")
		}
		branch, err := extKey.Derive(0)
		if err != nil {
			return Derived{}, errors.Wrap(err, "deriving external branch")
		}
		child, err := branch.Derive(index)
		if err != nil {
			return Derived{}, errors.Wrap(err, "deriving child key")
		}
		pubKey, err := child.ECPubKey()
		if err != nil {
			return Derived{}, errors.Wrap(err, "extracting public key")
		}
		address := ethCrypto.PubkeyToAddress(*pubKey.ToECDSA())
		return Derived{Address: address.Hex(), DerivationPath: path}, nil
	}

	pubKey, err := parseEthereumPublicKey(key)
	if err != nil {
		return Derived{}, err
	}
	return Derived{Address: pubKey.Hex(), DerivationPath: path}, nil
}

// ed25519 child derivation needs hardened steps and private key material,
// so a watch-only deployment monitors the configured deposit key itself.
// The hardened path is still recorded for audit.
func deriveSolana(key string, index uint32) (Derived, error) {
	pubKey, err := solana.PublicKeyFromBase58(key)
	if err != nil {
		return Derived{}, errors.Wrap(err, "parsing solana public key")
	}
	return Derived{
		Address:        pubKey.String(),
		DerivationPath: fmt.Sprintf("m/44'/501'/%d'/0'", index),
	}, nil
}
