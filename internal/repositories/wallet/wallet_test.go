package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// test vector from the go-ethereum-hdwallet documentation
const testMnemonic = "tag volcano eight thank tide danger coast health above argue embrace heavy"

func TestWalletFromMnemonic(t *testing.T) {
	w, err := NewEthereumWalletFromMnemonic(testMnemonic, 0)
	require.NoError(t, err)

	assert.Equal(t, "0xC49926C4124cEe1cbA0Ea94Ea31a6c12318df947", w.GetAccountAddress().Hex())
	assert.NotEmpty(t, w.GetPrivateKey())
}

func TestWalletFromMnemonicAccountIndex(t *testing.T) {
	w0, err := NewEthereumWalletFromMnemonic(testMnemonic, 0)
	require.NoError(t, err)
	w1, err := NewEthereumWalletFromMnemonic(testMnemonic, 1)
	require.NoError(t, err)

	assert.NotEqual(t, w0.GetAccountAddress(), w1.GetAccountAddress())
	assert.NotEqual(t, w0.GetPrivateKey(), w1.GetPrivateKey())
}

func TestWalletFromMnemonicInvalid(t *testing.T) {
	_, err := NewEthereumWalletFromMnemonic("not a valid mnemonic", 0)
	assert.Error(t, err)
}

func TestWalletFromPrivateKey(t *testing.T) {
	w, err := NewEthereumWalletFromMnemonic(testMnemonic, 0)
	require.NoError(t, err)

	// the address is recovered from the key, with or without the 0x prefix
	fromKey, err := NewEthereumWalletFromPrivateKey(w.GetPrivateKey())
	require.NoError(t, err)
	assert.Equal(t, w.GetAccountAddress(), fromKey.GetAccountAddress())

	fromPrefixed, err := NewEthereumWalletFromPrivateKey("0x" + w.GetPrivateKey())
	require.NoError(t, err)
	assert.Equal(t, w.GetAccountAddress(), fromPrefixed.GetAccountAddress())
}

func TestWalletFromPrivateKeyInvalid(t *testing.T) {
	_, err := NewEthereumWalletFromPrivateKey("zzzz")
	assert.Error(t, err)
}
