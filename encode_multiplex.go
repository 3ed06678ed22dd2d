package swapcall

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// discreteSubcall encodes a fill that has its own multiplex subcall type.
// ok is false for fills that can only be filled by the fill-quote step.
func discreteSubcall(sf *SlippedFill) (sub BatchSellSubcall, ok bool, err error) {
	if !isDiscreteSubcall(sf.Fill) {
		return sub, false, nil
	}
	sub.SellAmount = sf.FillAmount
	switch data := sf.Fill.Data.(type) {
	case *RfqOrderFill:
		sub.ID = uint8(SubcallRfq)
		sub.Data, err = encodePayload("rfq subcall", rfqSubcallArgs, data.Order, data.Signature)
	case *OtcOrderFill:
		sub.ID = uint8(SubcallOtc)
		sub.Data, err = encodePayload("otc subcall", otcSubcallArgs, data.Order, data.Signature)
	default:
		var hop MultiHopSellSubcall
		hop, err = multiHopSubcall(sf.Fill)
		sub.ID, sub.Data = hop.ID, hop.Data
	}
	return sub, err == nil, err
}

// multiHopSubcall encodes one AMM hop. The same encoding serves batch legs.
func multiHopSubcall(f *Fill) (MultiHopSellSubcall, error) {
	switch data := f.Data.(type) {
	case *UniswapV2Fill:
		enc, err := encodeUniswapV2Subcall(data.TokenPath, f.Source == SourceSushiSwap)
		if err != nil {
			return MultiHopSellSubcall{}, err
		}
		return MultiHopSellSubcall{ID: uint8(SubcallUniswapV2), Data: enc}, nil
	case *UniswapV3Fill:
		return MultiHopSellSubcall{ID: uint8(SubcallUniswapV3), Data: data.Path}, nil
	default:
		return MultiHopSellSubcall{}, fmt.Errorf("%w: %T cannot be a multi-hop leg", ErrRouteInvariant, f.Data)
	}
}

// encodeMultiplexBatch splits the sell amount across independent subcalls.
// The first fill without a subcall type and every fill after it are folded
// into one TransformERC20 subcall whose sell amount is their combined fill
// amount.
func encodeMultiplexBatch(in *routeInput) (*Call, error) {
	if len(in.fills) == 0 {
		return nil, &RouteInvariantError{Route: RouteMultiplexBatch, Reason: "no fills"}
	}

	calls := make([]BatchSellSubcall, 0, len(in.fills))
	for i := range in.fills {
		sub, ok, err := discreteSubcall(&in.fills[i])
		if err != nil {
			return nil, err
		}
		if ok {
			calls = append(calls, sub)
			continue
		}
		if i == 0 {
			return nil, &RouteInvariantError{Route: RouteMultiplexBatch, Reason: "first fill has no subcall type"}
		}
		rest, err := transformERC20Subcall(in, in.fills[i:])
		if err != nil {
			return nil, err
		}
		calls = append(calls, rest)
		break
	}

	plan, sellAmount, minBuy := in.plan, in.plan.SellAmount(), in.plan.WorstCase.MakerAmount
	switch {
	case in.opts.IsFromETH:
		return in.proxy.Invoke(MethodMultiplexBatchSellEthForToken, plan.MakerToken, calls, minBuy)
	case in.opts.IsToETH:
		return in.proxy.Invoke(MethodMultiplexBatchSellTokenForEth, plan.TakerToken, calls, sellAmount, minBuy)
	default:
		return in.proxy.Invoke(MethodMultiplexBatchSellTokenForToken, plan.TakerToken, plan.MakerToken, calls, sellAmount, minBuy)
	}
}

// transformERC20Subcall wraps fills in a single fill-quote step that sells
// everything the subcall is given.
func transformERC20Subcall(in *routeInput, fills []SlippedFill) (BatchSellSubcall, error) {
	total, err := sumFillAmounts(fills)
	if err != nil {
		return BatchSellSubcall{}, err
	}
	p := NewPipeline(in.net.Deployments)
	if err := p.addFillQuote(in, in.plan.TakerToken, in.plan.MakerToken, MaxUint256, fills); err != nil {
		return BatchSellSubcall{}, err
	}
	transformations, err := p.Transformations()
	if err != nil {
		return BatchSellSubcall{}, err
	}
	data, err := encodePayload("transformERC20 subcall", transformERC20SubcallArgs, transformations)
	if err != nil {
		return BatchSellSubcall{}, err
	}
	return BatchSellSubcall{ID: uint8(SubcallTransformERC20), SellAmount: total, Data: data}, nil
}

// encodeMultiplexMultiHop chains two AMM hops through the intermediate token.
func encodeMultiplexMultiHop(in *routeInput) (*Call, error) {
	if len(in.fills) != 2 {
		return nil, &RouteInvariantError{Route: RouteMultiplexMultiHop, Reason: "expected exactly two hops"}
	}
	plan := in.plan
	tokens := []common.Address{plan.TakerToken, in.fills[0].Fill.MakerToken, plan.MakerToken}

	calls := make([]MultiHopSellSubcall, 0, 2)
	for i := range in.fills {
		hop, err := multiHopSubcall(in.fills[i].Fill)
		if err != nil {
			return nil, &RouteInvariantError{Route: RouteMultiplexMultiHop, Reason: fmt.Sprintf("hop %d: %v", i, err)}
		}
		calls = append(calls, hop)
	}

	sellAmount, minBuy := plan.SellAmount(), plan.WorstCase.MakerAmount
	switch {
	case in.opts.IsFromETH:
		return in.proxy.Invoke(MethodMultiplexMultiHopSellEthForToken, tokens, calls, minBuy)
	case in.opts.IsToETH:
		return in.proxy.Invoke(MethodMultiplexMultiHopSellTokenForEth, tokens, calls, sellAmount, minBuy)
	default:
		return in.proxy.Invoke(MethodMultiplexMultiHopSellTokenForToken, tokens, calls, sellAmount, minBuy)
	}
}
