package swapcall

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ChainID identifies an EVM network.
type ChainID uint64

// Networks with built-in configuration.
const (
	Mainnet ChainID = 1
	BSC     ChainID = 56
	Polygon ChainID = 137
)

// ETHToken is the sentinel address the exchange proxy uses for native currency.
var ETHToken = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// Step identifies one logical step of the transformation pipeline.
type Step string

const (
	StepWrapNative          Step = "wrap_native"
	StepFillQuote           Step = "fill_quote"
	StepAffiliateFee        Step = "affiliate_fee"
	StepPositiveSlippageFee Step = "positive_slippage_fee"
	StepPayTaker            Step = "pay_taker"
)

// DeploymentTable maps pipeline steps to their deployment nonces on one network.
// It is immutable once built and safe for concurrent use.
type DeploymentTable struct {
	chainID ChainID
	nonces  map[Step]uint32
}

// NewDeploymentTable copies nonces into a new immutable table.
func NewDeploymentTable(chainID ChainID, nonces map[Step]uint32) *DeploymentTable {
	cp := make(map[Step]uint32, len(nonces))
	for k, v := range nonces {
		cp[k] = v
	}
	return &DeploymentTable{chainID: chainID, nonces: cp}
}

// Nonce returns the deployment nonce of step.
func (d *DeploymentTable) Nonce(step Step) (uint32, error) {
	if d != nil {
		if n, ok := d.nonces[step]; ok {
			return n, nil
		}
	}
	var chainID ChainID
	if d != nil {
		chainID = d.chainID
	}
	return 0, &UnresolvedIdentifierError{Kind: "pipeline step", Name: string(step), ChainID: chainID}
}

// Has reports whether step is deployed.
func (d *DeploymentTable) Has(step Step) bool {
	_, err := d.Nonce(step)
	return err == nil
}

// Network binds a selector to one chain's contracts and route policy.
// Treat a Network as read-only once handed to a Selector.
type Network struct {
	ChainID       ChainID
	ExchangeProxy common.Address
	WrappedNative common.Address

	// CurveLiquidityProvider is the liquidity provider sandbox wrapping
	// stable-swap pools. Zero if not deployed.
	CurveLiquidityProvider common.Address

	// Routes are the specialized entry points enabled on this network.
	// The transformation pipeline is always available.
	Routes []RouteKind

	// UniswapVIPSources may use sellToUniswap directly.
	UniswapVIPSources []Source

	// ForkVIPSources may use sellToPancakeSwap directly.
	ForkVIPSources []Source

	Deployments *DeploymentTable
}

// Validate checks the network is complete enough to encode for.
func (n *Network) Validate() error {
	if n == nil {
		return fmt.Errorf("%w: nil network", ErrUnknownNetwork)
	}
	if n.ChainID == 0 {
		return fmt.Errorf("%w: chain id not set", ErrUnknownNetwork)
	}
	if n.ExchangeProxy == (common.Address{}) {
		return &UnresolvedIdentifierError{Kind: "exchange proxy", Name: "ExchangeProxy", ChainID: n.ChainID}
	}
	if n.WrappedNative == (common.Address{}) {
		return &UnresolvedIdentifierError{Kind: "wrapped native token", Name: "WrappedNative", ChainID: n.ChainID}
	}
	for _, step := range []Step{StepFillQuote, StepPayTaker} {
		if _, err := n.Deployments.Nonce(step); err != nil {
			return err
		}
	}
	for _, r := range n.Routes {
		if !r.valid() {
			return fmt.Errorf("%w: unknown route %q for chain %d", ErrUnknownNetwork, r, n.ChainID)
		}
	}
	return nil
}

// RouteEnabled reports whether the specialized route r may be used.
func (n *Network) RouteEnabled(r RouteKind) bool {
	return r == RouteTransformERC20 || slices.Contains(n.Routes, r)
}

// CurveProvider resolves the stable-swap liquidity provider.
func (n *Network) CurveProvider() (common.Address, error) {
	if n.CurveLiquidityProvider == (common.Address{}) {
		return common.Address{}, &UnresolvedIdentifierError{Kind: "liquidity provider", Name: string(SourceCurve), ChainID: n.ChainID}
	}
	return n.CurveLiquidityProvider, nil
}

// clone returns a deep copy so callers cannot mutate shared defaults.
func (n *Network) clone() *Network {
	c := *n
	c.Routes = slices.Clone(n.Routes)
	c.UniswapVIPSources = slices.Clone(n.UniswapVIPSources)
	c.ForkVIPSources = slices.Clone(n.ForkVIPSources)
	if n.Deployments != nil {
		c.Deployments = NewDeploymentTable(n.ChainID, n.Deployments.nonces)
	}
	return &c
}

var exchangeProxyAddress = common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF")

// defaultNetworks is built once on first use and never mutated afterwards.
var defaultNetworks = sync.OnceValue(func() map[ChainID]*Network {
	return map[ChainID]*Network{
		Mainnet: {
			ChainID:                Mainnet,
			ExchangeProxy:          exchangeProxyAddress,
			WrappedNative:          common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
			CurveLiquidityProvider: common.HexToAddress("0x561B94454b65614aE3db0897B74303f4aCf7cc75"),
			Routes: []RouteKind{
				RouteUniswapVIP,
				RouteUniswapV3VIP,
				RouteCurveVIP,
				RouteRfqVIP,
				RouteOtcVIP,
				RouteMultiplexBatch,
				RouteMultiplexMultiHop,
			},
			UniswapVIPSources: []Source{SourceUniswapV2, SourceSushiSwap},
			Deployments: NewDeploymentTable(Mainnet, map[Step]uint32{
				StepWrapNative:          16,
				StepPayTaker:            17,
				StepAffiliateFee:        18,
				StepPositiveSlippageFee: 22,
				StepFillQuote:           23,
			}),
		},
		BSC: {
			ChainID:        BSC,
			ExchangeProxy:  exchangeProxyAddress,
			WrappedNative:  common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c"),
			Routes:         []RouteKind{RouteForkVIP},
			ForkVIPSources: []Source{SourcePancakeSwap, SourcePancakeSwapV2, SourceBakerySwap, SourceSushiSwap, SourceApeSwap},
			Deployments: NewDeploymentTable(BSC, map[Step]uint32{
				StepWrapNative:          1,
				StepPayTaker:            2,
				StepAffiliateFee:        3,
				StepPositiveSlippageFee: 5,
				StepFillQuote:           6,
			}),
		},
		Polygon: {
			ChainID:       Polygon,
			ExchangeProxy: exchangeProxyAddress,
			WrappedNative: common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270"),
			Routes:        []RouteKind{RouteRfqVIP},
			Deployments: NewDeploymentTable(Polygon, map[Step]uint32{
				StepWrapNative:          1,
				StepPayTaker:            2,
				StepAffiliateFee:        3,
				StepPositiveSlippageFee: 4,
				StepFillQuote:           5,
			}),
		},
	}
})

// DefaultNetwork returns a copy of the built-in configuration for chainID.
func DefaultNetwork(chainID ChainID) (*Network, error) {
	n, ok := defaultNetworks()[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: chain %d", ErrUnknownNetwork, chainID)
	}
	return n.clone(), nil
}
