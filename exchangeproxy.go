package swapcall

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Exchange proxy entry points.
const (
	MethodSellToUniswap                      = "sellToUniswap"
	MethodSellToPancakeSwap                  = "sellToPancakeSwap"
	MethodSellEthForTokenToUniswapV3         = "sellEthForTokenToUniswapV3"
	MethodSellTokenForEthToUniswapV3         = "sellTokenForEthToUniswapV3"
	MethodSellTokenForTokenToUniswapV3       = "sellTokenForTokenToUniswapV3"
	MethodSellToLiquidityProvider            = "sellToLiquidityProvider"
	MethodFillRfqOrder                       = "fillRfqOrder"
	MethodBatchFillRfqOrders                 = "batchFillRfqOrders"
	MethodFillOtcOrder                       = "fillOtcOrder"
	MethodFillOtcOrderForEth                 = "fillOtcOrderForEth"
	MethodFillOtcOrderWithEth                = "fillOtcOrderWithEth"
	MethodMultiplexBatchSellTokenForToken    = "multiplexBatchSellTokenForToken"
	MethodMultiplexBatchSellEthForToken      = "multiplexBatchSellEthForToken"
	MethodMultiplexBatchSellTokenForEth      = "multiplexBatchSellTokenForEth"
	MethodMultiplexMultiHopSellTokenForToken = "multiplexMultiHopSellTokenForToken"
	MethodMultiplexMultiHopSellEthForToken   = "multiplexMultiHopSellEthForToken"
	MethodMultiplexMultiHopSellTokenForEth   = "multiplexMultiHopSellTokenForEth"
	MethodTransformERC20                     = "transformERC20"
)

// MultiplexSubcall identifies the kind of a multiplex subcall.
type MultiplexSubcall uint8

const (
	SubcallInvalid MultiplexSubcall = iota
	SubcallRfq
	SubcallOtc
	SubcallUniswapV2
	SubcallUniswapV3
	SubcallLiquidityProvider // reserved by the on-chain enum; never produced here
	SubcallTransformERC20
)

// BatchSellSubcall is one leg of a multiplex batch sell.
type BatchSellSubcall struct {
	ID         uint8 `abi:"id"`
	SellAmount *big.Int
	Data       []byte
}

// MultiHopSellSubcall is one hop of a multiplex multi-hop sell.
type MultiHopSellSubcall struct {
	ID   uint8 `abi:"id"`
	Data []byte
}

// Transformation is one step of a transformERC20 pipeline.
type Transformation struct {
	DeploymentNonce uint32
	Data            []byte
}

// exchangeProxyABI is built once; abi.ABI is read-only after construction.
var exchangeProxyABI = sync.OnceValue(func() abi.ABI {
	methods := []abi.Method{
		newMethod(MethodSellToUniswap, true,
			argument("tokens", "address[]"),
			argument("sellAmount", "uint256"),
			argument("minBuyAmount", "uint256"),
			argument("isSushi", "bool"),
		),
		newMethod(MethodSellToPancakeSwap, true,
			argument("tokens", "address[]"),
			argument("sellAmount", "uint256"),
			argument("minBuyAmount", "uint256"),
			argument("fork", "uint8"),
		),
		newMethod(MethodSellEthForTokenToUniswapV3, true,
			argument("encodedPath", "bytes"),
			argument("minBuyAmount", "uint256"),
			argument("recipient", "address"),
		),
		newMethod(MethodSellTokenForEthToUniswapV3, false,
			argument("encodedPath", "bytes"),
			argument("sellAmount", "uint256"),
			argument("minBuyAmount", "uint256"),
			argument("recipient", "address"),
		),
		newMethod(MethodSellTokenForTokenToUniswapV3, false,
			argument("encodedPath", "bytes"),
			argument("sellAmount", "uint256"),
			argument("minBuyAmount", "uint256"),
			argument("recipient", "address"),
		),
		newMethod(MethodSellToLiquidityProvider, true,
			argument("inputToken", "address"),
			argument("outputToken", "address"),
			argument("provider", "address"),
			argument("recipient", "address"),
			argument("sellAmount", "uint256"),
			argument("minBuyAmount", "uint256"),
			argument("auxiliaryData", "bytes"),
		),
		newMethod(MethodFillRfqOrder, false,
			argument("order", "tuple", rfqOrderComponents...),
			argument("signature", "tuple", signatureComponents...),
			argument("takerTokenFillAmount", "uint128"),
		),
		newMethod(MethodBatchFillRfqOrders, false,
			argument("orders", "tuple[]", rfqOrderComponents...),
			argument("signatures", "tuple[]", signatureComponents...),
			argument("takerTokenFillAmounts", "uint128[]"),
			argument("revertIfIncomplete", "bool"),
		),
		newMethod(MethodFillOtcOrder, false,
			argument("order", "tuple", otcOrderComponents...),
			argument("makerSignature", "tuple", signatureComponents...),
			argument("takerTokenFillAmount", "uint128"),
		),
		newMethod(MethodFillOtcOrderForEth, false,
			argument("order", "tuple", otcOrderComponents...),
			argument("makerSignature", "tuple", signatureComponents...),
			argument("takerTokenFillAmount", "uint128"),
		),
		newMethod(MethodFillOtcOrderWithEth, true,
			argument("order", "tuple", otcOrderComponents...),
			argument("makerSignature", "tuple", signatureComponents...),
		),
		newMethod(MethodMultiplexBatchSellTokenForToken, false,
			argument("inputToken", "address"),
			argument("outputToken", "address"),
			argument("calls", "tuple[]", batchSellSubcallComponents...),
			argument("sellAmount", "uint256"),
			argument("minBuyAmount", "uint256"),
		),
		newMethod(MethodMultiplexBatchSellEthForToken, true,
			argument("outputToken", "address"),
			argument("calls", "tuple[]", batchSellSubcallComponents...),
			argument("minBuyAmount", "uint256"),
		),
		newMethod(MethodMultiplexBatchSellTokenForEth, false,
			argument("inputToken", "address"),
			argument("calls", "tuple[]", batchSellSubcallComponents...),
			argument("sellAmount", "uint256"),
			argument("minBuyAmount", "uint256"),
		),
		newMethod(MethodMultiplexMultiHopSellTokenForToken, false,
			argument("tokens", "address[]"),
			argument("calls", "tuple[]", multiHopSellSubcallComponents...),
			argument("sellAmount", "uint256"),
			argument("minBuyAmount", "uint256"),
		),
		newMethod(MethodMultiplexMultiHopSellEthForToken, true,
			argument("tokens", "address[]"),
			argument("calls", "tuple[]", multiHopSellSubcallComponents...),
			argument("minBuyAmount", "uint256"),
		),
		newMethod(MethodMultiplexMultiHopSellTokenForEth, false,
			argument("tokens", "address[]"),
			argument("calls", "tuple[]", multiHopSellSubcallComponents...),
			argument("sellAmount", "uint256"),
			argument("minBuyAmount", "uint256"),
		),
		newMethod(MethodTransformERC20, true,
			argument("inputToken", "address"),
			argument("outputToken", "address"),
			argument("inputTokenAmount", "uint256"),
			argument("minOutputTokenAmount", "uint256"),
			argument("transformations", "tuple[]", transformationComponents...),
		),
	}

	parsed := abi.ABI{Methods: make(map[string]abi.Method, len(methods))}
	for _, m := range methods {
		parsed.Methods[m.Name] = m
	}
	return parsed
})

func newMethod(name string, payable bool, inputs ...abi.Argument) abi.Method {
	mutability := "nonpayable"
	if payable {
		mutability = "payable"
	}
	return abi.NewMethod(name, name, abi.Function, mutability, false, payable, inputs, nil)
}

// ExchangeProxyABI returns the ABI of the exchange proxy entry points this
// package encodes.
func ExchangeProxyABI() abi.ABI {
	return exchangeProxyABI()
}

// NewExchangeProxy binds the exchange proxy entry points to address.
func NewExchangeProxy(address common.Address) *Contract {
	return NewContract(address, exchangeProxyABI())
}
