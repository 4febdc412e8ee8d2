package wallet

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// parseEthereumPublicKey resolves a hex-encoded secp256k1 public key
// (compressed or uncompressed) to its checksummed address.
func parseEthereumPublicKey(key string) (common.Address, error) {
	pubKey, err := btcec.ParsePubKey(common.FromHex(key))
	if err != nil {
		return common.Address{}, errors.Wrap(err, "parsing public key")
	}
	return ethCrypto.PubkeyToAddress(*pubKey.ToECDSA()), nil
}
