package swapcall

import (
	"slices"
)

// RouteKind names an exchange proxy entry point family.
type RouteKind string

// Routes in priority order. RouteTransformERC20 always matches.
const (
	RouteUniswapVIP        RouteKind = "uniswap_vip"
	RouteUniswapV3VIP      RouteKind = "uniswap_v3_vip"
	RouteForkVIP           RouteKind = "fork_vip"
	RouteCurveVIP          RouteKind = "curve_vip"
	RouteRfqVIP            RouteKind = "rfq_vip"
	RouteOtcVIP            RouteKind = "otc_vip"
	RouteMultiplexBatch    RouteKind = "multiplex_batch"
	RouteMultiplexMultiHop RouteKind = "multiplex_multihop"
	RouteTransformERC20    RouteKind = "transform_erc20"
)

func (r RouteKind) String() string {
	return string(r)
}

func (r RouteKind) valid() bool {
	switch r {
	case RouteUniswapVIP, RouteUniswapV3VIP, RouteForkVIP, RouteCurveVIP, RouteRfqVIP,
		RouteOtcVIP, RouteMultiplexBatch, RouteMultiplexMultiHop, RouteTransformERC20:
		return true
	default:
		return false
	}
}

// directCompatible: one fill and nothing that needs the fee pipeline.
func directCompatible(in *routeInput) bool {
	return !in.opts.requiresPipeline() && len(in.plan.Fills) == 1
}

// specialised gates every route other than the pipeline.
func specialised(in *routeInput, r RouteKind) bool {
	return in.plan.Side == Sell && in.net.RouteEnabled(r)
}

func eligibleUniswapVIP(in *routeInput) bool {
	if !specialised(in, RouteUniswapVIP) || !directCompatible(in) {
		return false
	}
	f := &in.plan.Fills[0]
	_, ok := f.Data.(*UniswapV2Fill)
	return ok && slices.Contains(in.net.UniswapVIPSources, f.Source)
}

func eligibleUniswapV3VIP(in *routeInput) bool {
	if !specialised(in, RouteUniswapV3VIP) || !directCompatible(in) || in.plan.IsTwoHop {
		return false
	}
	_, ok := in.plan.Fills[0].Data.(*UniswapV3Fill)
	return ok
}

func eligibleForkVIP(in *routeInput) bool {
	if !specialised(in, RouteForkVIP) || !directCompatible(in) {
		return false
	}
	f := &in.plan.Fills[0]
	if _, ok := f.Data.(*UniswapV2Fill); !ok {
		return false
	}
	if !slices.Contains(in.net.ForkVIPSources, f.Source) {
		return false
	}
	_, err := forkIndex(f.Source, in.net.ChainID)
	return err == nil
}

func eligibleCurveVIP(in *routeInput) bool {
	if !specialised(in, RouteCurveVIP) || !directCompatible(in) {
		return false
	}
	if _, ok := in.plan.Fills[0].Data.(*CurveFill); !ok {
		return false
	}
	if _, err := in.net.CurveProvider(); err != nil {
		return false
	}
	weth := in.net.WrappedNative
	return in.plan.TakerToken != weth && in.plan.MakerToken != weth
}

func eligibleRfqVIP(in *routeInput) bool {
	if !specialised(in, RouteRfqVIP) || in.opts.requiresPipeline() || in.plan.IsTwoHop {
		return false
	}
	if in.opts.IsFromETH || in.opts.IsToETH {
		return false
	}
	for i := range in.plan.Fills {
		if _, ok := in.plan.Fills[i].Data.(*RfqOrderFill); !ok {
			return false
		}
	}
	return true
}

func eligibleOtcVIP(in *routeInput) bool {
	if !specialised(in, RouteOtcVIP) || !directCompatible(in) {
		return false
	}
	_, ok := in.plan.Fills[0].Data.(*OtcOrderFill)
	return ok
}

func eligibleMultiplexBatch(in *routeInput) bool {
	if !specialised(in, RouteMultiplexBatch) || in.opts.requiresPipeline() || in.plan.IsTwoHop {
		return false
	}
	for i := range in.plan.Fills {
		if _, ok := in.plan.Fills[i].Data.(*LimitOrderFill); ok {
			return false
		}
	}
	return isDiscreteSubcall(&in.plan.Fills[0])
}

func eligibleMultiplexMultiHop(in *routeInput) bool {
	if !specialised(in, RouteMultiplexMultiHop) || in.opts.requiresPipeline() {
		return false
	}
	if !in.plan.IsTwoHop || len(in.plan.Fills) != 2 {
		return false
	}
	for i := range in.plan.Fills {
		if !isMultiHopCapable(&in.plan.Fills[i]) {
			return false
		}
	}
	return true
}

func eligibleTransformERC20(*routeInput) bool {
	return true
}

// isDiscreteSubcall reports whether a fill has its own multiplex subcall type.
func isDiscreteSubcall(f *Fill) bool {
	switch f.Data.(type) {
	case *RfqOrderFill, *OtcOrderFill:
		return true
	default:
		return isMultiHopCapable(f)
	}
}

// isMultiHopCapable reports whether a fill can be one hop of a multi-hop sell.
func isMultiHopCapable(f *Fill) bool {
	switch f.Data.(type) {
	case *UniswapV2Fill:
		return f.Source == SourceUniswapV2 || f.Source == SourceSushiSwap
	case *UniswapV3Fill:
		return true
	default:
		return false
	}
}
