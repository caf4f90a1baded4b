package wallet

import (
	"fmt"
	"strings"

	"github.com/MorpheusAIs/capital-router/internal/lib"
	"github.com/ethereum/go-ethereum/common"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
)

// EthereumWallet holds the signing identity used for stake, withdraw and
// claim transactions. It is derived once at startup, either from a BIP-39
// mnemonic or from a raw private key.
type EthereumWallet struct {
	address    common.Address
	privateKey string
}

func NewEthereumWalletFromMnemonic(mnemonic string, accountIndex int) (*EthereumWallet, error) {
	wallet, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	path := hdwallet.MustParseDerivationPath(fmt.Sprintf("m/44'/60'/0'/0/%d", accountIndex))

	account, err := wallet.Derive(path, false)
	if err != nil {
		return nil, err
	}

	address, err := wallet.Address(account)
	if err != nil {
		return nil, err
	}

	privateKey, err := wallet.PrivateKeyHex(account)
	if err != nil {
		return nil, err
	}

	return &EthereumWallet{
		address:    address,
		privateKey: privateKey,
	}, nil
}

func NewEthereumWalletFromPrivateKey(privateKey string) (*EthereumWallet, error) {
	privateKey = strings.TrimPrefix(privateKey, "0x")

	address, err := lib.PrivKeyStringToAddr(privateKey)
	if err != nil {
		return nil, err
	}

	return &EthereumWallet{
		address:    address,
		privateKey: privateKey,
	}, nil
}

func (wallet *EthereumWallet) GetAccountAddress() common.Address {
	return wallet.address
}

func (wallet *EthereumWallet) GetPrivateKey() string {
	return wallet.privateKey
}
