package swapcall

import (
	"github.com/ethereum/go-ethereum/common"
)

// encodeUniswapV3VIP encodes the concentrated-liquidity entry point matching
// the native legs. The recipient is left zero so output goes to the caller.
func encodeUniswapV3VIP(in *routeInput) (*Call, error) {
	if len(in.fills) != 1 {
		return nil, &RouteInvariantError{Route: RouteUniswapV3VIP, Reason: "expected exactly one fill"}
	}
	data, ok := in.fills[0].Fill.Data.(*UniswapV3Fill)
	if !ok {
		return nil, &RouteInvariantError{Route: RouteUniswapV3VIP, Reason: "fill is not a UniswapV3 fill"}
	}

	var recipient common.Address
	minBuy := in.plan.WorstCase.MakerAmount
	switch {
	case in.opts.IsFromETH:
		return in.proxy.Invoke(MethodSellEthForTokenToUniswapV3, data.Path, minBuy, recipient)
	case in.opts.IsToETH:
		return in.proxy.Invoke(MethodSellTokenForEthToUniswapV3, data.Path, in.plan.SellAmount(), minBuy, recipient)
	default:
		return in.proxy.Invoke(MethodSellTokenForTokenToUniswapV3, data.Path, in.plan.SellAmount(), minBuy, recipient)
	}
}
