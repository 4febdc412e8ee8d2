package wallet

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// BIP84 test vector account key.
const testZpub = "zpub6rFR7y4Q2AijBEqTUquhVz398htDFrtymD9xYYfG1m4wAcvPhXNfE3EfH1r1ADqtfSdVCToUG868RvUUkgDKf31mGDtKsAYz2oz2AGutZYs"

// Generator point G, the public key of private key 1.
const (
	testEthPubKeyUncompressed = "0x0479be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"
	testEthPubKeyCompressed   = "0x0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	testEthAddress            = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
)

func TestDeriveBitcoinVectors(t *testing.T) {
	// Receive addresses from the BIP84 reference vectors.
	first, err := Derive("BTC", testZpub, 0, false)
	require.NoError(t, err)
	assert.Equal(t, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", first.Address)
	assert.Equal(t, "m/84'/0'/0'/0/0", first.DerivationPath)

	second, err := Derive("BTC", testZpub, 1, false)
	require.NoError(t, err)
	assert.Equal(t, "bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g", second.Address)

	change, err := Derive("BTC", testZpub, 0, true)
	require.NoError(t, err)
	assert.Equal(t, "bc1q8c6fshw2dlwun7ekn9qwf37cu2rn755upcp6el", change.Address)
	assert.Equal(t, "m/84'/0'/0'/1/0", change.DerivationPath)
}

func TestDeriveIsDeterministic(t *testing.T) {
	for i := uint32(0); i < 5; i++ {
		a, err := Derive("BTC", testZpub, i, false)
		require.NoError(t, err)
		b, err := Derive("BTC", testZpub, i, false)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}

	// Distinct indexes always map to distinct addresses.
	seen := map[string]bool{}
	for i := uint32(0); i < 20; i++ {
		d, err := Derive("BTC", testZpub, i, false)
		require.NoError(t, err)
		assert.False(t, seen[d.Address], d.Address)
		seen[d.Address] = true
	}
}

func TestDeriveLitecoin(t *testing.T) {
	d, err := Derive("LTC", testZpub, 0, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d.Address, "ltc1q"), d.Address)
	assert.Equal(t, "m/84'/2'/0'/0/0", d.DerivationPath)
}

func TestDeriveEthereumFromPublicKey(t *testing.T) {
	d, err := Derive("ETH", testEthPubKeyUncompressed, 3, false)
	require.NoError(t, err)
	assert.Equal(t, testEthAddress, d.Address)
	assert.Equal(t, "m/44'/60'/0'/0/3", d.DerivationPath)

	compressed, err := Derive("ETH", testEthPubKeyCompressed, 3, false)
	require.NoError(t, err)
	assert.Equal(t, d.Address, compressed.Address)

	// ERC-20 coins share the Ethereum derivation.
	usdt, err := Derive("USDT", testEthPubKeyUncompressed, 0, false)
	require.NoError(t, err)
	assert.Equal(t, testEthAddress, usdt.Address)
}

func TestDeriveSolana(t *testing.T) {
	const key = "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"
	d, err := Derive("SOL", key, 7, false)
	require.NoError(t, err)
	assert.Equal(t, key, d.Address)
	assert.Equal(t, "m/44'/501'/7'/0'", d.DerivationPath)

	_, err = Derive("SOL", "not-a-base58-key", 0, false)
	require.Error(t, err)
}

func TestDeriveUnsupportedCoin(t *testing.T) {
	_, err := Derive("XRP", testZpub, 0, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedCoin))
}

func TestNormalizeExtendedKey(t *testing.T) {
	normalized, err := NormalizeExtendedKey(testZpub)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(normalized, "xpub"), normalized)

	// Canonical keys pass through untouched.
	again, err := NormalizeExtendedKey(normalized)
	require.NoError(t, err)
	assert.Equal(t, normalized, again)
}

func TestNormalizeExtendedKeyRejectsCorruption(t *testing.T) {
	// Flip the final character to break the checksum.
	corrupted := testZpub[:len(testZpub)-1] + "t"
	_, err := NormalizeExtendedKey(corrupted)
	require.Error(t, err)

	_, err = NormalizeExtendedKey("nonsense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid extended key length")
}
