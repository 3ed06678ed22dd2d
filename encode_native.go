package swapcall

import (
	"fmt"
	"math/big"
)

// encodeRfqVIP fills one RFQ order with fillRfqOrder, or several with
// batchFillRfqOrders allowing partial fills.
func encodeRfqVIP(in *routeInput) (*Call, error) {
	if len(in.fills) == 0 {
		return nil, &RouteInvariantError{Route: RouteRfqVIP, Reason: "no fills"}
	}

	orders := make([]RfqOrder, 0, len(in.fills))
	signatures := make([]Signature, 0, len(in.fills))
	amounts := make([]*big.Int, 0, len(in.fills))
	for i := range in.fills {
		sf := &in.fills[i]
		data, ok := sf.Fill.Data.(*RfqOrderFill)
		if !ok {
			return nil, &RouteInvariantError{Route: RouteRfqVIP, Reason: fmt.Sprintf("fill %d is not an RFQ order", i)}
		}
		if !fitsUint128(sf.FillAmount) {
			return nil, &PlanError{Reason: fmt.Sprintf("fill %d amount exceeds uint128", i)}
		}
		orders = append(orders, data.Order)
		signatures = append(signatures, data.Signature)
		amounts = append(amounts, sf.FillAmount)
	}

	if len(orders) == 1 {
		return in.proxy.Invoke(MethodFillRfqOrder, orders[0], signatures[0], amounts[0])
	}
	return in.proxy.Invoke(MethodBatchFillRfqOrders, orders, signatures, amounts, false)
}

// encodeOtcVIP fills a single OTC order, picking the native-currency variant
// when one leg is ETH.
func encodeOtcVIP(in *routeInput) (*Call, error) {
	if len(in.fills) != 1 {
		return nil, &RouteInvariantError{Route: RouteOtcVIP, Reason: "expected exactly one fill"}
	}
	sf := &in.fills[0]
	data, ok := sf.Fill.Data.(*OtcOrderFill)
	if !ok {
		return nil, &RouteInvariantError{Route: RouteOtcVIP, Reason: "fill is not an OTC order"}
	}
	if !fitsUint128(sf.FillAmount) {
		return nil, &PlanError{Reason: "fill amount exceeds uint128"}
	}

	switch {
	case in.opts.IsFromETH:
		// The fill amount is the attached value.
		return in.proxy.Invoke(MethodFillOtcOrderWithEth, data.Order, data.Signature)
	case in.opts.IsToETH:
		return in.proxy.Invoke(MethodFillOtcOrderForEth, data.Order, data.Signature, sf.FillAmount)
	default:
		return in.proxy.Invoke(MethodFillOtcOrder, data.Order, data.Signature, sf.FillAmount)
	}
}
