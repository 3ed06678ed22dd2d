package swapcall

import (
	"github.com/ethereum/go-ethereum/common"
)

// encodeCurveVIP routes a stable-swap fill through the network's liquidity
// provider sandbox with sellToLiquidityProvider.
func encodeCurveVIP(in *routeInput) (*Call, error) {
	if len(in.fills) != 1 {
		return nil, &RouteInvariantError{Route: RouteCurveVIP, Reason: "expected exactly one fill"}
	}
	data, ok := in.fills[0].Fill.Data.(*CurveFill)
	if !ok {
		return nil, &RouteInvariantError{Route: RouteCurveVIP, Reason: "fill is not a stable-swap fill"}
	}
	provider, err := in.net.CurveProvider()
	if err != nil {
		return nil, err
	}
	aux, err := encodeCurveAuxData(data)
	if err != nil {
		return nil, err
	}
	return in.proxy.Invoke(MethodSellToLiquidityProvider,
		in.plan.TakerToken,
		in.plan.MakerToken,
		provider,
		common.Address{},
		in.plan.SellAmount(),
		in.plan.WorstCase.MakerAmount,
		aux,
	)
}
