package swapcall

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

// CalldataResult is a ready-to-submit exchange proxy call.
type CalldataResult struct {
	Route           RouteKind
	To              common.Address
	Data            []byte
	Value           *big.Int
	AllowanceTarget common.Address
	GasOverhead     uint64
}

type calldataResultJSON struct {
	Route           RouteKind      `json:"route"`
	To              common.Address `json:"to"`
	Data            hexutil.Bytes  `json:"data"`
	Value           *hexutil.Big   `json:"value"`
	AllowanceTarget common.Address `json:"allowanceTarget"`
	GasOverhead     hexutil.Uint64 `json:"gasOverhead"`
}

// MarshalJSON encodes the result with hex quantities, as JSON-RPC expects.
func (r *CalldataResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(calldataResultJSON{
		Route:           r.Route,
		To:              r.To,
		Data:            r.Data,
		Value:           (*hexutil.Big)(r.Value),
		AllowanceTarget: r.AllowanceTarget,
		GasOverhead:     hexutil.Uint64(r.GasOverhead),
	})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (r *CalldataResult) UnmarshalJSON(input []byte) error {
	var dec calldataResultJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	r.Route = dec.Route
	r.To = dec.To
	r.Data = dec.Data
	r.Value = (*big.Int)(dec.Value)
	r.AllowanceTarget = dec.AllowanceTarget
	r.GasOverhead = uint64(dec.GasOverhead)
	return nil
}

// routeInput is what every rule and encoder sees for one selection.
type routeInput struct {
	net   *Network
	proxy *Contract
	plan  *SwapPlan
	opts  *ExecutionOptions
	fills []SlippedFill
}

type route struct {
	kind        RouteKind
	eligible    func(*routeInput) bool
	encode      func(*routeInput) (*Call, error)
	gasOverhead uint64
}

// routes in priority order; the first eligible route wins.
var routes = []route{
	{kind: RouteUniswapVIP, eligible: eligibleUniswapVIP, encode: encodeUniswapVIP},
	{kind: RouteUniswapV3VIP, eligible: eligibleUniswapV3VIP, encode: encodeUniswapV3VIP},
	{kind: RouteForkVIP, eligible: eligibleForkVIP, encode: encodeForkVIP},
	{kind: RouteCurveVIP, eligible: eligibleCurveVIP, encode: encodeCurveVIP},
	{kind: RouteRfqVIP, eligible: eligibleRfqVIP, encode: encodeRfqVIP},
	{kind: RouteOtcVIP, eligible: eligibleOtcVIP, encode: encodeOtcVIP},
	{kind: RouteMultiplexBatch, eligible: eligibleMultiplexBatch, encode: encodeMultiplexBatch},
	{kind: RouteMultiplexMultiHop, eligible: eligibleMultiplexMultiHop, encode: encodeMultiplexMultiHop},
	{kind: RouteTransformERC20, eligible: eligibleTransformERC20, encode: encodeTransformERC20, gasOverhead: FallbackGasOverhead},
}

// Selector turns swap plans into exchange proxy calls for one network.
// A Selector is immutable and safe for concurrent use.
type Selector struct {
	net    *Network
	proxy  *Contract
	logger log.Logger
}

// NewSelector binds a selector to net. The network is copied and validated;
// an incomplete network is rejected.
func NewSelector(net *Network, opts ...SelectorOption) (*Selector, error) {
	if err := net.Validate(); err != nil {
		return nil, err
	}
	cfg := defaultSelectorConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	n := net.clone()
	return &Selector{
		net:    n,
		proxy:  NewExchangeProxy(n.ExchangeProxy),
		logger: cfg.logger.With("chain", uint64(n.ChainID)),
	}, nil
}

// NewSelectorForChain binds a selector to the built-in configuration of chainID.
func NewSelectorForChain(chainID ChainID, opts ...SelectorOption) (*Selector, error) {
	net, err := DefaultNetwork(chainID)
	if err != nil {
		return nil, err
	}
	return NewSelector(net, opts...)
}

// Network returns a copy of the network the selector is bound to.
func (s *Selector) Network() *Network {
	return s.net.clone()
}

// SelectRoute reports which route SelectAndEncode would use, without encoding.
func (s *Selector) SelectRoute(plan *SwapPlan, opts *ExecutionOptions) (RouteKind, error) {
	in, err := s.prepare(plan, opts)
	if err != nil {
		return "", err
	}
	return s.pick(in).kind, nil
}

// SelectAndEncode picks the highest-priority route the plan is compatible
// with and encodes it. Nothing is returned unless encoding fully succeeds.
// A nil opts uses the defaults.
func (s *Selector) SelectAndEncode(plan *SwapPlan, opts *ExecutionOptions) (*CalldataResult, error) {
	in, err := s.prepare(plan, opts)
	if err != nil {
		return nil, err
	}

	r := s.pick(in)
	call, err := r.encode(in)
	if err != nil {
		if errors.Is(err, ErrRouteInvariant) {
			s.logger.Error("Route invariant violated", append(planContext(plan, in.opts), "route", r.kind, "err", err)...)
		}
		return nil, fmt.Errorf("encoding %s: %w", r.kind, err)
	}

	value := new(big.Int)
	if fee := plan.WorstCase.ProtocolFeeInWei; fee != nil {
		value.Set(fee)
	}
	if in.opts.IsFromETH {
		value.Add(value, plan.SellAmount())
	}

	s.logger.Debug("Selected swap route", append(planContext(plan, in.opts), "route", r.kind, "calldata", len(call.data))...)

	return &CalldataResult{
		Route:           r.kind,
		To:              s.net.ExchangeProxy,
		Data:            call.Data(),
		Value:           value,
		AllowanceTarget: s.net.ExchangeProxy,
		GasOverhead:     r.gasOverhead,
	}, nil
}

// prepare validates inputs and derives the slipped fills shared by all routes.
func (s *Selector) prepare(plan *SwapPlan, opts *ExecutionOptions) (*routeInput, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	o := defaultExecutionOptions()
	if opts != nil {
		cp := *opts
		o = &cp
	}
	if err := o.normalize(); err != nil {
		return nil, err
	}
	if err := o.checkNativeLegs(plan, s.net.WrappedNative); err != nil {
		return nil, err
	}

	fills, err := DeriveSlippedFills(plan, MaxSlippageRate(plan))
	if err != nil {
		return nil, err
	}
	return &routeInput{
		net:   s.net,
		proxy: s.proxy,
		plan:  plan,
		opts:  o,
		fills: fills,
	}, nil
}

func (s *Selector) pick(in *routeInput) route {
	for _, r := range routes {
		if r.eligible(in) {
			return r
		}
	}
	// Unreachable: the pipeline is always eligible.
	return routes[len(routes)-1]
}

// planContext is the key/value context logged with route decisions.
func planContext(plan *SwapPlan, opts *ExecutionOptions) []any {
	sources := make([]string, len(plan.Fills))
	for i := range plan.Fills {
		sources[i] = string(plan.Fills[i].Source)
	}
	return []any{
		"side", plan.Side,
		"taker", plan.TakerToken,
		"maker", plan.MakerToken,
		"sell", plan.SellAmount(),
		"minbuy", plan.WorstCase.MakerAmount,
		"fills", len(plan.Fills),
		"sources", sources,
		"twohop", plan.IsTwoHop,
		"frometh", opts.IsFromETH,
		"toeth", opts.IsToETH,
		"fee", opts.AffiliateFee.Type,
	}
}
