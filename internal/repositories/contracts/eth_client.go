package contracts

import (
	"context"
	"math/big"
	"net/url"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EthereumClient is the chain-access capability required by the repositories.
// *EthClient implements it; tests substitute fakes.
type EthereumClient interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	SupportsSubscriptions() bool
}

type EthClient struct {
	// config
	url string

	// state
	*ethclient.Client
	supportsSubscriptions bool
}

func DialContext(ctx context.Context, urlString string) (*EthClient, error) {
	u, err := url.Parse(urlString)
	if err != nil {
		return nil, err
	}

	isWS := u.Scheme == "ws" || u.Scheme == "wss"

	client, err := ethclient.DialContext(ctx, urlString)
	if err != nil {
		return nil, err
	}
	return &EthClient{
		Client:                client,
		url:                   urlString,
		supportsSubscriptions: isWS,
	}, nil
}

func (c *EthClient) SupportsSubscriptions() bool {
	return c.supportsSubscriptions
}

var _ EthereumClient = &EthClient{}
