package swapcall

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Source names the liquidity source a fill was routed through.
type Source string

// Well-known liquidity sources.
const (
	SourceNative        Source = "Native"
	SourceUniswapV2     Source = "UniswapV2"
	SourceSushiSwap     Source = "SushiSwap"
	SourceUniswapV3     Source = "UniswapV3"
	SourceCurve         Source = "Curve"
	SourcePancakeSwap   Source = "PancakeSwap"
	SourcePancakeSwapV2 Source = "PancakeSwap_V2"
	SourceBakerySwap    Source = "BakerySwap"
	SourceApeSwap       Source = "ApeSwap"
	SourceCafeSwap      Source = "CafeSwap"
	SourceCheeseSwap    Source = "CheeseSwap"
	SourceJulSwap       Source = "JulSwap"
)

// Family groups fill data variants by the protocol family that executes them.
type Family uint8

const (
	// FamilyNative is a signed native-quote order (RFQ, OTC or limit).
	FamilyNative Family = iota

	// FamilyAMMFork is a constant-product router fork taking a token path.
	FamilyAMMFork

	// FamilyConcentrated is a concentrated-liquidity router taking an encoded path.
	FamilyConcentrated

	// FamilyStableSwap is a stable-swap pool addressed by coin indices.
	FamilyStableSwap

	// FamilyOther is any bridge only reachable through the fill-quote step.
	FamilyOther
)

func (f Family) String() string {
	switch f {
	case FamilyNative:
		return "native"
	case FamilyAMMFork:
		return "amm-fork"
	case FamilyConcentrated:
		return "concentrated-liquidity"
	case FamilyStableSwap:
		return "stable-swap"
	default:
		return "other"
	}
}

// FillData is the protocol-specific payload of a fill.
// This is a sealed interface - only types within this package can implement it.
type FillData interface {
	// isFillData is unexported to seal the interface.
	isFillData()

	// Family returns the protocol family of this fill.
	Family() Family
}

// RfqOrderFill is a signed request-for-quote order.
type RfqOrderFill struct {
	Order     RfqOrder
	Signature Signature
}

func (*RfqOrderFill) isFillData() {}

// Family returns FamilyNative.
func (*RfqOrderFill) Family() Family { return FamilyNative }

// OtcOrderFill is a signed OTC order, the alternate native-quote sub-type.
type OtcOrderFill struct {
	Order     OtcOrder
	Signature Signature
}

func (*OtcOrderFill) isFillData() {}

// Family returns FamilyNative.
func (*OtcOrderFill) Family() Family { return FamilyNative }

// LimitOrderFill is a signed limit order. Limit orders can only be filled
// through the fill-quote pipeline step.
type LimitOrderFill struct {
	Order     LimitOrder
	Signature Signature
}

func (*LimitOrderFill) isFillData() {}

// Family returns FamilyNative.
func (*LimitOrderFill) Family() Family { return FamilyNative }

// UniswapV2Fill routes through a UniswapV2-style router.
type UniswapV2Fill struct {
	Router    common.Address
	TokenPath []common.Address
}

func (*UniswapV2Fill) isFillData() {}

// Family returns FamilyAMMFork.
func (*UniswapV2Fill) Family() Family { return FamilyAMMFork }

// UniswapV3Fill routes through a concentrated-liquidity router. Path is the
// router's packed path, forwarded untouched.
type UniswapV3Fill struct {
	Router common.Address
	Path   []byte
}

func (*UniswapV3Fill) isFillData() {}

// Family returns FamilyConcentrated.
func (*UniswapV3Fill) Family() Family { return FamilyConcentrated }

// CurveFill routes through a stable-swap pool.
type CurveFill struct {
	Pool             common.Address
	ExchangeSelector [4]byte
	FromCoinIdx      int64
	ToCoinIdx        int64
}

func (*CurveFill) isFillData() {}

// Family returns FamilyStableSwap.
func (*CurveFill) Family() Family { return FamilyStableSwap }

// BridgeFill is any other bridge. BridgeData is already encoded for the
// bridge adapter identified by Protocol.
type BridgeFill struct {
	Protocol   BridgeProtocol
	BridgeData []byte
}

func (*BridgeFill) isFillData() {}

// Family returns FamilyOther.
func (*BridgeFill) Family() Family { return FamilyOther }

// Fill is one unit of liquidity consumption within a swap plan.
type Fill struct {
	Source      Source
	TakerToken  common.Address
	MakerToken  common.Address
	TakerAmount *big.Int
	MakerAmount *big.Int
	Data        FillData
}

// Family returns the protocol family of the fill's data.
func (f *Fill) Family() Family {
	if f.Data == nil {
		return FamilyOther
	}
	return f.Data.Family()
}

// isNative reports whether the fill is a signed native-quote order.
func (f *Fill) isNative() bool {
	return f.Data != nil && f.Data.Family() == FamilyNative
}
