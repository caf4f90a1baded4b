package registry

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Chain IDs of the networks the protocol is deployed on.
const (
	ChainEthereum = 1
	ChainArbitrum = 42161
	ChainBase     = 8453
	ChainSepolia  = 11155111
)

type key struct {
	chainID uint64
	name    string
	env     string
}

// Registry maps (chainID, contract name, environment) to a deployed address.
// It is seeded with the known protocol deployments; config entries override
// or extend the table at startup.
type Registry struct {
	mu    sync.RWMutex
	table map[key]common.Address
}

func New() *Registry {
	r := &Registry{table: map[key]common.Address{}}

	// mainnet deployments
	r.set(ChainEthereum, "stETH", "mainnet", common.HexToAddress("0xae7ab96520DE3A18E5e111B5EaAb095312D7fE84"))
	r.set(ChainEthereum, "distribution", "mainnet", common.HexToAddress("0x47176B2Af9885dC6C4575d4eFd63895f7Aaa4790"))
	r.set(ChainArbitrum, "MOR", "mainnet", common.HexToAddress("0x092bAaDB7DEf4C3981454dD9c0A0D7FF07bCFc86"))
	r.set(ChainBase, "MOR", "mainnet", common.HexToAddress("0x7431aDa8a591C955a994a21710752EF9b882b8e3"))

	return r
}

// Resolve returns the deployed address of the named contract. The second
// return is false when the contract is not deployed on that chain in that
// environment.
func (r *Registry) Resolve(chainID uint64, name string, env string) (common.Address, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addr, ok := r.table[key{chainID, name, env}]
	return addr, ok
}

// Override replaces or adds a deployment entry. Zero address removes it, so
// a config entry can mark a seeded deployment as unavailable.
func (r *Registry) Override(chainID uint64, name string, env string, addr common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if addr == (common.Address{}) {
		delete(r.table, key{chainID, name, env})
		return
	}
	r.table[key{chainID, name, env}] = addr
}

func (r *Registry) set(chainID uint64, name string, env string, addr common.Address) {
	r.table[key{chainID, name, env}] = addr
}
