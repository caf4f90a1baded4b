package contracts

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/MorpheusAIs/capital-router/internal/cache"
	"github.com/MorpheusAIs/capital-router/internal/interfaces"
	"github.com/MorpheusAIs/capital-router/internal/lib"
	"github.com/MorpheusAIs/capital-router/internal/rewards"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// No published Go bindings exist for the distribution contracts, so the ABI
// is parsed from the fragments the repositories actually call.
const distributionABIJSON = `[
  {"name":"poolsData","type":"function","stateMutability":"view","inputs":[{"name":"poolId","type":"uint256"}],"outputs":[{"name":"lastUpdate","type":"uint128"},{"name":"rate","type":"uint256"},{"name":"totalVirtualDeposited","type":"uint256"}]},
  {"name":"getCurrentUserMultiplier","type":"function","stateMutability":"view","inputs":[{"name":"poolId","type":"uint256"},{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"stake","type":"function","stateMutability":"nonpayable","inputs":[{"name":"poolId","type":"uint256"},{"name":"amount","type":"uint256"},{"name":"claimLockEnd","type":"uint128"}],"outputs":[]},
  {"name":"withdraw","type":"function","stateMutability":"nonpayable","inputs":[{"name":"poolId","type":"uint256"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"name":"claim","type":"function","stateMutability":"payable","inputs":[{"name":"poolId","type":"uint256"},{"name":"receiver","type":"address"}],"outputs":[]}
]`

const poolDataCacheTTL = 30 * time.Second

// DepositPoolEthereum reads and writes a per-asset deposit pool of the
// distribution contract. Pool data reads go through the injected TTL cache;
// write operations drop the cached entry so the next read is authoritative.
type DepositPoolEthereum struct {
	// config
	legacyTx    bool // use legacy transaction fee, for local node testing
	network     string
	environment string
	poolAddr    common.Address
	poolID      *big.Int

	// state
	nonce   uint64
	mutex   sync.Mutex
	poolABI *abi.ABI
	bound   *bind.BoundContract

	// deps
	client EthereumClient
	cache  *cache.Cache[*rewards.PoolRateData]
	log    interfaces.ILogger
}

func NewDepositPoolEthereum(poolAddr common.Address, poolID *big.Int, network, environment string, client EthereumClient, dataCache *cache.Cache[*rewards.PoolRateData], log interfaces.ILogger) *DepositPoolEthereum {
	poolABI, err := abi.JSON(strings.NewReader(distributionABIJSON))
	if err != nil {
		panic("invalid distribution ABI: " + err.Error())
	}

	return &DepositPoolEthereum{
		network:     network,
		environment: environment,
		poolAddr:    poolAddr,
		poolID:      poolID,
		poolABI:     &poolABI,
		bound:       bind.NewBoundContract(poolAddr, poolABI, client, client, client),
		client:      client,
		cache:       dataCache,
		log:         log,
	}
}

func (g *DepositPoolEthereum) SetLegacyTx(legacyTx bool) {
	g.legacyTx = legacyTx
}

func (g *DepositPoolEthereum) GetClient() EthereumClient {
	return g.client
}

// RewardPoolData returns the pool emission snapshot, serving a cached value
// within its TTL. Errors name the failing contract call and network so a
// missing deployment is distinguishable from a reverted RPC call.
func (g *DepositPoolEthereum) RewardPoolData(ctx context.Context) (*rewards.PoolRateData, error) {
	key := g.cacheKey()
	if data, ok := g.cache.Get(key, time.Now()); ok {
		return data, nil
	}

	if g.poolAddr == (common.Address{}) {
		return nil, fmt.Errorf("distribution contract is not deployed on %s (%s)", g.network, g.environment)
	}

	var out []interface{}
	err := g.bound.Call(&bind.CallOpts{Context: ctx}, &out, "poolsData", g.poolID)
	if err != nil {
		return nil, fmt.Errorf("distribution.poolsData(%s) call failed on %s: %w", g.poolID, g.network, err)
	}

	lastUpdate := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	rate := *abi.ConvertType(out[1], new(*big.Int)).(**big.Int)
	totalVirtual := *abi.ConvertType(out[2], new(*big.Int)).(**big.Int)

	data := &rewards.PoolRateData{
		LastUpdate:            time.Unix(lastUpdate.Int64(), 0),
		Rate:                  rate,
		TotalVirtualDeposited: totalVirtual,
	}

	g.cache.Set(key, data, poolDataCacheTTL, time.Now())
	return data, nil
}

// CurrentUserMultiplier returns the raw fixed-point power factor the contract
// reports for the user's active lock
func (g *DepositPoolEthereum) CurrentUserMultiplier(ctx context.Context, user common.Address) (*big.Int, error) {
	var out []interface{}
	err := g.bound.Call(&bind.CallOpts{Context: ctx}, &out, "getCurrentUserMultiplier", g.poolID, user)
	if err != nil {
		return nil, fmt.Errorf("distribution.getCurrentUserMultiplier(%s, %s) call failed on %s: %w", g.poolID, user, g.network, err)
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Stake deposits amount with a claim lock ending lockSeconds from now
func (g *DepositPoolEthereum) Stake(ctx context.Context, amount *big.Int, lockSeconds int64, privKey string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	opts, err := g.getTransactOpts(ctx, privKey)
	if err != nil {
		return err
	}

	claimLockEnd := big.NewInt(time.Now().Unix() + lockSeconds)

	tx, err := g.bound.Transact(opts, "stake", g.poolID, amount, claimLockEnd)
	if err != nil {
		g.log.Error(err)
		return fmt.Errorf("distribution.stake(%s, %s) failed on %s: %w", g.poolID, amount, g.network, err)
	}

	_, err = bind.WaitMined(ctx, g.client, tx)
	if err != nil {
		return err
	}

	g.invalidate()
	return nil
}

func (g *DepositPoolEthereum) Withdraw(ctx context.Context, amount *big.Int, privKey string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	opts, err := g.getTransactOpts(ctx, privKey)
	if err != nil {
		return err
	}

	tx, err := g.bound.Transact(opts, "withdraw", g.poolID, amount)
	if err != nil {
		g.log.Error(err)
		return fmt.Errorf("distribution.withdraw(%s, %s) failed on %s: %w", g.poolID, amount, g.network, err)
	}

	_, err = bind.WaitMined(ctx, g.client, tx)
	if err != nil {
		return err
	}

	g.invalidate()
	return nil
}

// Claim sends accumulated rewards to the receiver. The call is payable: the
// attached value pays the cross-chain message fee of the reward mint.
func (g *DepositPoolEthereum) Claim(ctx context.Context, receiver common.Address, msgFee *big.Int, privKey string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	opts, err := g.getTransactOpts(ctx, privKey)
	if err != nil {
		return err
	}
	opts.Value = msgFee

	tx, err := g.bound.Transact(opts, "claim", g.poolID, receiver)
	if err != nil {
		g.log.Error(err)
		return fmt.Errorf("distribution.claim(%s, %s) failed on %s: %w", g.poolID, receiver, g.network, err)
	}

	_, err = bind.WaitMined(ctx, g.client, tx)
	if err != nil {
		return err
	}

	g.invalidate()
	return nil
}

func (g *DepositPoolEthereum) cacheKey() string {
	return cache.Key(g.environment, g.network, g.poolAddr.Hex(), g.poolID.String(), "poolsData")
}

// invalidate drops the cached pool snapshot after a state-moving transaction
func (g *DepositPoolEthereum) invalidate() {
	g.cache.Delete(g.cacheKey())
}

func (g *DepositPoolEthereum) getTransactOpts(ctx context.Context, privKey string) (*bind.TransactOpts, error) {
	privateKey, err := crypto.HexToECDSA(privKey)
	if err != nil {
		return nil, err
	}

	chainId, err := g.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	transactOpts, err := bind.NewKeyedTransactorWithChainID(privateKey, chainId)
	if err != nil {
		return nil, err
	}

	if g.legacyTx {
		gasPrice, err := g.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}
		transactOpts.GasPrice = gasPrice
	}

	fromAddr, err := lib.PrivKeyToAddr(privateKey)
	if err != nil {
		return nil, err
	}

	nonce, err := g.getNonce(ctx, fromAddr)
	if err != nil {
		return nil, err
	}

	transactOpts.Value = big.NewInt(0)
	transactOpts.Nonce = nonce
	transactOpts.Context = ctx

	return transactOpts, nil
}

func (g *DepositPoolEthereum) getNonce(ctx context.Context, from common.Address) (*big.Int, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	nonce := &big.Int{}
	blockchainNonce, err := g.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nonce, err
	}

	if g.nonce > blockchainNonce {
		nonce.SetUint64(g.nonce)
	} else {
		nonce.SetUint64(blockchainNonce)
	}

	g.nonce = nonce.Uint64() + 1

	return nonce, nil
}
