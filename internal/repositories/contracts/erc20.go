package contracts

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/MorpheusAIs/capital-router/internal/interfaces"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20ABIJSON = `[
  {"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"decimals","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"name":"symbol","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]}
]`

// ERC20 reads token state on one chain. The bridge monitor uses the same
// Balance method for its one-shot and polled reads.
type ERC20 struct {
	// config
	network string

	// state
	erc20ABI abi.ABI

	// deps
	client EthereumClient
	log    interfaces.ILogger
}

func NewERC20(network string, client EthereumClient, log interfaces.ILogger) *ERC20 {
	erc20ABI, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic("invalid erc20 ABI: " + err.Error())
	}

	return &ERC20{
		network:  network,
		erc20ABI: erc20ABI,
		client:   client,
		log:      log,
	}
}

func (e *ERC20) Balance(ctx context.Context, token common.Address, account common.Address) (*big.Int, error) {
	out, err := e.call(ctx, token, "balanceOf", account)
	if err != nil {
		return nil, err
	}

	bal, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("token.balanceOf on %s: unexpected return type %T", e.network, out[0])
	}
	return bal, nil
}

func (e *ERC20) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := e.call(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}

	dec, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("token.decimals on %s: unexpected return type %T", e.network, out[0])
	}
	return dec, nil
}

func (e *ERC20) Symbol(ctx context.Context, token common.Address) (string, error) {
	out, err := e.call(ctx, token, "symbol")
	if err != nil {
		return "", err
	}

	sym, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("token.symbol on %s: unexpected return type %T", e.network, out[0])
	}
	return sym, nil
}

func (e *ERC20) call(ctx context.Context, token common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := e.erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack token.%s: %w", method, err)
	}

	resp, err := e.client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("token.%s(%s) call failed on %s: %w", method, token, e.network, err)
	}

	out, err := e.erc20ABI.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack token.%s on %s: %w", method, e.network, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("token.%s on %s: unexpected return size %d", method, e.network, len(out))
	}
	return out, nil
}
