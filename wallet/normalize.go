package wallet

import (
	"bytes"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

const extendedKeyPayloadLen = 78

var xpubVersion = []byte{0x04, 0x88, 0xb2, 0x1e}

// Alternate extended public key encodings that wrap the same key material
// as an xpub, differing only in the version prefix that signals the
// intended address-type convention to wallet software.
var alternateVersions = [][]byte{
	{0x04, 0xb2, 0x47, 0x46}, // zpub (BIP84 native segwit)
	{0x02, 0xaa, 0x7e, 0xd3}, // Zpub (multisig native segwit)
	{0x04, 0x9d, 0x7c, 0xb2}, // ypub (BIP49 nested segwit)
	{0x02, 0x95, 0xb4, 0x3f}, // Ypub (multisig nested segwit)
	{0x01, 0x9d, 0xa4, 0x62}, // Ltub (Litecoin)
	{0x04, 0xb2, 0x43, 0x93}, // Mtub (Litecoin segwit)
}

// NormalizeExtendedKey rewrites any supported extended public key encoding
// to the canonical xpub form, so derivation yields the same addresses
// regardless of which prefix the operator pasted into configuration.
func NormalizeExtendedKey(key string) (string, error) {
	decoded := base58.Decode(key)
	if len(decoded) != extendedKeyPayloadLen+4 {
		return "", errors.Errorf("invalid extended key length %d", len(decoded))
	}
	payload := decoded[:extendedKeyPayloadLen]
	checksum := decoded[extendedKeyPayloadLen:]
	if !bytes.Equal(checksum, chainhash.DoubleHashB(payload)[:4]) {
		return "", errors.New("invalid extended key checksum")
	}

	version := payload[:4]
	if bytes.Equal(version, xpubVersion) {
		return key, nil
	}
	known := false
	for _, v := range alternateVersions {
		if bytes.Equal(version, v) {
			known = true
			break
		}
	}
	if !known {
		return "", errors.Errorf("unknown extended key version %x", version)
	}

	normalized := make([]byte, extendedKeyPayloadLen)
	copy(normalized, payload)
	copy(normalized[:4], xpubVersion)
	normalized = append(normalized, chainhash.DoubleHashB(normalized)[:4]...)
	return base58.Encode(normalized), nil
}
