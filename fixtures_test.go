package swapcall

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
)

var (
	tokenA   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tokenB   = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	tokenC   = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	mainWETH = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")

	uniV2Router = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	uniV3Router = common.HexToAddress("0xE592427A0AEce92De3Edee1F18E0157C05861564")
	curvePool   = common.HexToAddress("0xbEbc44782C7dB0a1A60Cb6fe97d0b483032FF1C7")
	maker       = common.HexToAddress("0x000000000000000000000000000000000000beef")
	affiliate   = common.HexToAddress("0x000000000000000000000000000000000000cafe")
)

func amt(v int64) *big.Int {
	return big.NewInt(v)
}

func quietLogger() SelectorOption {
	return WithLogger(log.NewLogger(log.DiscardHandler()))
}

func uniV2Fill(source Source, taker, makerToken common.Address, takerAmt, makerAmt int64) Fill {
	return Fill{
		Source:      source,
		TakerToken:  taker,
		MakerToken:  makerToken,
		TakerAmount: amt(takerAmt),
		MakerAmount: amt(makerAmt),
		Data:        &UniswapV2Fill{Router: uniV2Router, TokenPath: []common.Address{taker, makerToken}},
	}
}

func uniV3Fill(taker, makerToken common.Address, takerAmt, makerAmt int64) Fill {
	// token(20) | fee(3) | token(20)
	path := append(append(append([]byte{}, taker.Bytes()...), 0x00, 0x0b, 0xb8), makerToken.Bytes()...)
	return Fill{
		Source:      SourceUniswapV3,
		TakerToken:  taker,
		MakerToken:  makerToken,
		TakerAmount: amt(takerAmt),
		MakerAmount: amt(makerAmt),
		Data:        &UniswapV3Fill{Router: uniV3Router, Path: path},
	}
}

func curveFill(taker, makerToken common.Address, takerAmt, makerAmt int64) Fill {
	return Fill{
		Source:      SourceCurve,
		TakerToken:  taker,
		MakerToken:  makerToken,
		TakerAmount: amt(takerAmt),
		MakerAmount: amt(makerAmt),
		Data: &CurveFill{
			Pool:             curvePool,
			ExchangeSelector: [4]byte{0x3d, 0xf0, 0x21, 0x24},
			FromCoinIdx:      1,
			ToCoinIdx:        2,
		},
	}
}

func bridgeFill(source Source, taker, makerToken common.Address, takerAmt, makerAmt int64) Fill {
	return Fill{
		Source:      source,
		TakerToken:  taker,
		MakerToken:  makerToken,
		TakerAmount: amt(takerAmt),
		MakerAmount: amt(makerAmt),
		Data:        &BridgeFill{Protocol: ProtocolBalancer, BridgeData: []byte{0x01, 0x02, 0x03}},
	}
}

func testSignature() Signature {
	return Signature{SignatureType: uint8(SignatureEIP712), V: 27, R: [32]byte{1}, S: [32]byte{2}}
}

func rfqFill(taker, makerToken common.Address, takerAmt, makerAmt int64) Fill {
	return Fill{
		Source:      SourceNative,
		TakerToken:  taker,
		MakerToken:  makerToken,
		TakerAmount: amt(takerAmt),
		MakerAmount: amt(makerAmt),
		Data: &RfqOrderFill{
			Order: RfqOrder{
				MakerToken:  makerToken,
				TakerToken:  taker,
				MakerAmount: amt(makerAmt),
				TakerAmount: amt(takerAmt),
				Maker:       maker,
				Expiry:      1_900_000_000,
				Salt:        amt(7),
			},
			Signature: testSignature(),
		},
	}
}

func otcFill(taker, makerToken common.Address, takerAmt, makerAmt int64) Fill {
	return Fill{
		Source:      SourceNative,
		TakerToken:  taker,
		MakerToken:  makerToken,
		TakerAmount: amt(takerAmt),
		MakerAmount: amt(makerAmt),
		Data: &OtcOrderFill{
			Order: OtcOrder{
				MakerToken:     makerToken,
				TakerToken:     taker,
				MakerAmount:    amt(makerAmt),
				TakerAmount:    amt(takerAmt),
				Maker:          maker,
				ExpiryAndNonce: amt(42),
			},
			Signature: testSignature(),
		},
	}
}

func limitFill(taker, makerToken common.Address, takerAmt, makerAmt int64) Fill {
	return Fill{
		Source:      SourceNative,
		TakerToken:  taker,
		MakerToken:  makerToken,
		TakerAmount: amt(takerAmt),
		MakerAmount: amt(makerAmt),
		Data: &LimitOrderFill{
			Order: LimitOrder{
				MakerToken:          makerToken,
				TakerToken:          taker,
				MakerAmount:         amt(makerAmt),
				TakerAmount:         amt(takerAmt),
				TakerTokenFeeAmount: amt(0),
				Maker:               maker,
				Expiry:              1_900_000_000,
				Salt:                amt(9),
			},
			Signature: testSignature(),
		},
	}
}

// sellPlan builds a sell plan selling sell of taker for between worst and best
// of makerToken.
func sellPlan(taker, makerToken common.Address, sell, best, worst int64, fills ...Fill) *SwapPlan {
	return &SwapPlan{
		Side:       Sell,
		TakerToken: taker,
		MakerToken: makerToken,
		Fills:      fills,
		BestCase: QuoteInfo{
			TotalTakerAmount: amt(sell),
			MakerAmount:      amt(best),
			ProtocolFeeInWei: amt(0),
		},
		WorstCase: QuoteInfo{
			TotalTakerAmount: amt(sell),
			MakerAmount:      amt(worst),
			ProtocolFeeInWei: amt(0),
		},
		TakerTokenFillAmount: amt(sell),
	}
}

// buyPlan builds a buy plan for exactly buy of makerToken costing between
// best and worst of taker.
func buyPlan(taker, makerToken common.Address, buy, best, worst int64, fills ...Fill) *SwapPlan {
	return &SwapPlan{
		Side:       Buy,
		TakerToken: taker,
		MakerToken: makerToken,
		Fills:      fills,
		BestCase: QuoteInfo{
			TotalTakerAmount: amt(best),
			MakerAmount:      amt(buy),
		},
		WorstCase: QuoteInfo{
			TotalTakerAmount: amt(worst),
			MakerAmount:      amt(buy),
		},
		MakerTokenFillAmount: amt(buy),
	}
}

func mustSelector(t *testing.T, chainID ChainID) *Selector {
	t.Helper()
	sel, err := NewSelectorForChain(chainID, quietLogger())
	require.NoError(t, err)
	return sel
}

// decodeCall splits exchange proxy call data into its method and arguments.
func decodeCall(t *testing.T, data []byte) (abi.Method, []any) {
	t.Helper()
	require.GreaterOrEqual(t, len(data), 4)
	parsed := ExchangeProxyABI()
	method, err := parsed.MethodById(data[:4])
	require.NoError(t, err)
	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	return *method, args
}

// convert copies an unpacked ABI value into a typed Go value.
func convert[T any](v any) T {
	return *abi.ConvertType(v, new(T)).(*T)
}

// unpackPayload decodes a single-tuple payload such as transformer data.
func unpackPayload[T any](t *testing.T, args abi.Arguments, data []byte) T {
	t.Helper()
	out, err := args.Unpack(data)
	require.NoError(t, err)
	require.Len(t, out, 1)
	return convert[T](out[0])
}

// requireAmount compares big integers by value.
func requireAmount(t *testing.T, want, got *big.Int, msgAndArgs ...any) {
	t.Helper()
	require.NotNil(t, got, msgAndArgs...)
	require.Zerof(t, want.Cmp(got), "want %s, got %s %v", want, got, msgAndArgs)
}
