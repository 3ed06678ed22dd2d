package swapcall

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// FillOrderType tags each entry of the fill-quote step's fill sequence.
type FillOrderType uint8

const (
	OrderTypeBridge FillOrderType = iota
	OrderTypeLimit
	OrderTypeRfq
	OrderTypeOtc
)

// FillQuoteSide is the fill-quote step's trade direction.
type FillQuoteSide uint8

const (
	FillQuoteSell FillQuoteSide = iota
	FillQuoteBuy
)

// BridgeOrder is a non-native fill inside the fill-quote step.
type BridgeOrder struct {
	Source           SourceID
	TakerTokenAmount *big.Int
	MakerTokenAmount *big.Int
	BridgeData       []byte
}

// LimitOrderInfo is a limit order inside the fill-quote step.
type LimitOrderInfo struct {
	Order                   LimitOrder
	Signature               Signature
	MaxTakerTokenFillAmount *big.Int
}

// RfqOrderInfo is an RFQ order inside the fill-quote step.
type RfqOrderInfo struct {
	Order                   RfqOrder
	Signature               Signature
	MaxTakerTokenFillAmount *big.Int
}

// OtcOrderInfo is an OTC order inside the fill-quote step.
type OtcOrderInfo struct {
	Order                   OtcOrder
	Signature               Signature
	MaxTakerTokenFillAmount *big.Int
}

// FillQuoteData is the payload of the fill-quote step. Orders are bucketed by
// type; FillSequence records the order in which buckets are consumed.
type FillQuoteData struct {
	Side           uint8
	SellToken      common.Address
	BuyToken       common.Address
	BridgeOrders   []BridgeOrder
	LimitOrders    []LimitOrderInfo
	RfqOrders      []RfqOrderInfo
	FillSequence   []uint8
	FillAmount     *big.Int
	RefundReceiver common.Address
	OtcOrders      []OtcOrderInfo
}

// WrapNativeData is the payload of the wrap-native step. Token is ETHToken to
// wrap and the wrapped-native token to unwrap.
type WrapNativeData struct {
	Token  common.Address
	Amount *big.Int
}

// AffiliateFeeEntry pays Amount of Token to Recipient.
type AffiliateFeeEntry struct {
	Token     common.Address
	Amount    *big.Int
	Recipient common.Address
}

// AffiliateFeeData is the payload of the affiliate-fee step.
type AffiliateFeeData struct {
	Fees []AffiliateFeeEntry
}

// PositiveSlippageFeeData is the payload of the positive-slippage-fee step.
// Any Token balance above BestCaseAmount goes to Recipient.
type PositiveSlippageFeeData struct {
	Token          common.Address
	BestCaseAmount *big.Int
	Recipient      common.Address
}

// PayTakerData is the payload of the settlement step. An empty Amounts sweeps
// the full balance of every token.
type PayTakerData struct {
	Tokens  []common.Address
	Amounts []*big.Int
}

var (
	orderInfoComponents = func(order []abi.ArgumentMarshaling) []abi.ArgumentMarshaling {
		return []abi.ArgumentMarshaling{
			{Name: "order", Type: "tuple", Components: order},
			{Name: "signature", Type: "tuple", Components: signatureComponents},
			{Name: "maxTakerTokenFillAmount", Type: "uint256"},
		}
	}

	fillQuoteDataArgs = abi.Arguments{argument("data", "tuple",
		abi.ArgumentMarshaling{Name: "side", Type: "uint8"},
		abi.ArgumentMarshaling{Name: "sellToken", Type: "address"},
		abi.ArgumentMarshaling{Name: "buyToken", Type: "address"},
		abi.ArgumentMarshaling{Name: "bridgeOrders", Type: "tuple[]", Components: []abi.ArgumentMarshaling{
			{Name: "source", Type: "bytes32"},
			{Name: "takerTokenAmount", Type: "uint256"},
			{Name: "makerTokenAmount", Type: "uint256"},
			{Name: "bridgeData", Type: "bytes"},
		}},
		abi.ArgumentMarshaling{Name: "limitOrders", Type: "tuple[]", Components: orderInfoComponents(limitOrderComponents)},
		abi.ArgumentMarshaling{Name: "rfqOrders", Type: "tuple[]", Components: orderInfoComponents(rfqOrderComponents)},
		abi.ArgumentMarshaling{Name: "fillSequence", Type: "uint8[]"},
		abi.ArgumentMarshaling{Name: "fillAmount", Type: "uint256"},
		abi.ArgumentMarshaling{Name: "refundReceiver", Type: "address"},
		abi.ArgumentMarshaling{Name: "otcOrders", Type: "tuple[]", Components: orderInfoComponents(otcOrderComponents)},
	)}

	wrapNativeDataArgs = abi.Arguments{argument("data", "tuple",
		abi.ArgumentMarshaling{Name: "token", Type: "address"},
		abi.ArgumentMarshaling{Name: "amount", Type: "uint256"},
	)}

	affiliateFeeDataArgs = abi.Arguments{argument("data", "tuple",
		abi.ArgumentMarshaling{Name: "fees", Type: "tuple[]", Components: []abi.ArgumentMarshaling{
			{Name: "token", Type: "address"},
			{Name: "amount", Type: "uint256"},
			{Name: "recipient", Type: "address"},
		}},
	)}

	positiveSlippageFeeDataArgs = abi.Arguments{argument("data", "tuple",
		abi.ArgumentMarshaling{Name: "token", Type: "address"},
		abi.ArgumentMarshaling{Name: "bestCaseAmount", Type: "uint256"},
		abi.ArgumentMarshaling{Name: "recipient", Type: "address"},
	)}

	payTakerDataArgs = abi.Arguments{argument("data", "tuple",
		abi.ArgumentMarshaling{Name: "tokens", Type: "address[]"},
		abi.ArgumentMarshaling{Name: "amounts", Type: "uint256[]"},
	)}
)

func encodeFillQuoteData(d *FillQuoteData) ([]byte, error) {
	return encodePayload("fill quote data", fillQuoteDataArgs, *d)
}

func encodeWrapNativeData(d *WrapNativeData) ([]byte, error) {
	return encodePayload("wrap native data", wrapNativeDataArgs, *d)
}

func encodeAffiliateFeeData(d *AffiliateFeeData) ([]byte, error) {
	return encodePayload("affiliate fee data", affiliateFeeDataArgs, *d)
}

func encodePositiveSlippageFeeData(d *PositiveSlippageFeeData) ([]byte, error) {
	return encodePayload("positive slippage fee data", positiveSlippageFeeDataArgs, *d)
}

func encodePayTakerData(d *PayTakerData) ([]byte, error) {
	if d.Amounts == nil {
		d.Amounts = []*big.Int{}
	}
	return encodePayload("pay taker data", payTakerDataArgs, *d)
}

// newFillQuoteData buckets slipped fills by order type. fills must all trade
// sellToken for buyToken.
func newFillQuoteData(side Side, sellToken, buyToken common.Address, fills []SlippedFill, fillAmount *big.Int, refundReceiver common.Address) (*FillQuoteData, error) {
	d := &FillQuoteData{
		Side:           uint8(FillQuoteSell),
		SellToken:      sellToken,
		BuyToken:       buyToken,
		BridgeOrders:   []BridgeOrder{},
		LimitOrders:    []LimitOrderInfo{},
		RfqOrders:      []RfqOrderInfo{},
		FillSequence:   make([]uint8, 0, len(fills)),
		FillAmount:     fillAmount,
		RefundReceiver: refundReceiver,
		OtcOrders:      []OtcOrderInfo{},
	}
	if side == Buy {
		d.Side = uint8(FillQuoteBuy)
	}

	for i := range fills {
		sf := &fills[i]
		switch data := sf.Fill.Data.(type) {
		case *RfqOrderFill:
			d.RfqOrders = append(d.RfqOrders, RfqOrderInfo{
				Order:                   data.Order,
				Signature:               data.Signature,
				MaxTakerTokenFillAmount: sf.TakerAmount,
			})
			d.FillSequence = append(d.FillSequence, uint8(OrderTypeRfq))
		case *OtcOrderFill:
			d.OtcOrders = append(d.OtcOrders, OtcOrderInfo{
				Order:                   data.Order,
				Signature:               data.Signature,
				MaxTakerTokenFillAmount: sf.TakerAmount,
			})
			d.FillSequence = append(d.FillSequence, uint8(OrderTypeOtc))
		case *LimitOrderFill:
			d.LimitOrders = append(d.LimitOrders, LimitOrderInfo{
				Order:                   data.Order,
				Signature:               data.Signature,
				MaxTakerTokenFillAmount: sf.TakerAmount,
			})
			d.FillSequence = append(d.FillSequence, uint8(OrderTypeLimit))
		default:
			order, err := newBridgeOrder(sf)
			if err != nil {
				return nil, fmt.Errorf("fill %d: %w", i, err)
			}
			d.BridgeOrders = append(d.BridgeOrders, *order)
			d.FillSequence = append(d.FillSequence, uint8(OrderTypeBridge))
		}
	}
	return d, nil
}

// newBridgeOrder encodes the adapter call data for a non-native fill.
func newBridgeOrder(sf *SlippedFill) (*BridgeOrder, error) {
	var (
		bridgeData []byte
		err        error
	)
	switch data := sf.Fill.Data.(type) {
	case *UniswapV2Fill:
		bridgeData, err = encodePayload("uniswapV2 bridge data", uniswapV2BridgeDataArgs, data.Router, data.TokenPath)
	case *UniswapV3Fill:
		bridgeData, err = encodePayload("uniswapV3 bridge data", uniswapV3BridgeDataArgs, data.Router, data.Path)
	case *CurveFill:
		bridgeData, err = encodeCurveAuxData(data)
	case *BridgeFill:
		bridgeData = data.BridgeData
	default:
		return nil, fmt.Errorf("%w: %T is not a bridge fill", ErrRouteInvariant, sf.Fill.Data)
	}
	if err != nil {
		return nil, err
	}

	source, err := EncodeSourceID(bridgeProtocolOf(sf.Fill), string(sf.Fill.Source))
	if err != nil {
		return nil, err
	}
	return &BridgeOrder{
		Source:           source,
		TakerTokenAmount: sf.TakerAmount,
		MakerTokenAmount: sf.MakerAmount,
		BridgeData:       bridgeData,
	}, nil
}
