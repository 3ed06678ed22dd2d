package swapcall

import (
	"slices"

	"github.com/ethereum/go-ethereum/common"
)

// forkSources is the exchange proxy's versioned fork enum for sellToPancakeSwap.
// The position of a source is its on-chain index; append only.
var forkSources = []Source{
	SourcePancakeSwap,
	SourcePancakeSwapV2,
	SourceBakerySwap,
	SourceSushiSwap,
	SourceApeSwap,
	SourceCafeSwap,
	SourceCheeseSwap,
	SourceJulSwap,
}

// forkIndex resolves s to its fork enum value by exact lookup.
func forkIndex(s Source, chainID ChainID) (uint8, error) {
	i := slices.Index(forkSources, s)
	if i < 0 {
		return 0, &UnresolvedIdentifierError{Kind: "fork", Name: string(s), ChainID: chainID}
	}
	return uint8(i), nil
}

// nativePath copies path and swaps the endpoints for ETHToken on native legs.
func nativePath(route RouteKind, path []common.Address, opts *ExecutionOptions) ([]common.Address, error) {
	if len(path) < 2 {
		return nil, &RouteInvariantError{Route: route, Reason: "token path needs at least two tokens"}
	}
	out := slices.Clone(path)
	if opts.IsFromETH {
		out[0] = ETHToken
	}
	if opts.IsToETH {
		out[len(out)-1] = ETHToken
	}
	return out, nil
}

func singleUniswapV2Fill(in *routeInput, route RouteKind) (*Fill, *UniswapV2Fill, error) {
	if len(in.fills) != 1 {
		return nil, nil, &RouteInvariantError{Route: route, Reason: "expected exactly one fill"}
	}
	f := in.fills[0].Fill
	data, ok := f.Data.(*UniswapV2Fill)
	if !ok {
		return nil, nil, &RouteInvariantError{Route: route, Reason: "fill is not a UniswapV2-style fill"}
	}
	return f, data, nil
}

// encodeUniswapVIP encodes sellToUniswap.
func encodeUniswapVIP(in *routeInput) (*Call, error) {
	f, data, err := singleUniswapV2Fill(in, RouteUniswapVIP)
	if err != nil {
		return nil, err
	}
	path, err := nativePath(RouteUniswapVIP, data.TokenPath, in.opts)
	if err != nil {
		return nil, err
	}
	return in.proxy.Invoke(MethodSellToUniswap,
		path,
		in.plan.SellAmount(),
		in.plan.WorstCase.MakerAmount,
		f.Source == SourceSushiSwap,
	)
}

// encodeForkVIP encodes sellToPancakeSwap.
func encodeForkVIP(in *routeInput) (*Call, error) {
	f, data, err := singleUniswapV2Fill(in, RouteForkVIP)
	if err != nil {
		return nil, err
	}
	fork, err := forkIndex(f.Source, in.net.ChainID)
	if err != nil {
		return nil, err
	}
	path, err := nativePath(RouteForkVIP, data.TokenPath, in.opts)
	if err != nil {
		return nil, err
	}
	return in.proxy.Invoke(MethodSellToPancakeSwap,
		path,
		in.plan.SellAmount(),
		in.plan.WorstCase.MakerAmount,
		fork,
	)
}
