package swapcall

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Tuple components shared by entry points and nested payloads. Component names
// map onto Go struct fields through abi.ToCamelCase.
var (
	signatureComponents = []abi.ArgumentMarshaling{
		{Name: "signatureType", Type: "uint8"},
		{Name: "v", Type: "uint8"},
		{Name: "r", Type: "bytes32"},
		{Name: "s", Type: "bytes32"},
	}

	rfqOrderComponents = []abi.ArgumentMarshaling{
		{Name: "makerToken", Type: "address"},
		{Name: "takerToken", Type: "address"},
		{Name: "makerAmount", Type: "uint128"},
		{Name: "takerAmount", Type: "uint128"},
		{Name: "maker", Type: "address"},
		{Name: "taker", Type: "address"},
		{Name: "txOrigin", Type: "address"},
		{Name: "pool", Type: "bytes32"},
		{Name: "expiry", Type: "uint64"},
		{Name: "salt", Type: "uint256"},
	}

	otcOrderComponents = []abi.ArgumentMarshaling{
		{Name: "makerToken", Type: "address"},
		{Name: "takerToken", Type: "address"},
		{Name: "makerAmount", Type: "uint128"},
		{Name: "takerAmount", Type: "uint128"},
		{Name: "maker", Type: "address"},
		{Name: "taker", Type: "address"},
		{Name: "txOrigin", Type: "address"},
		{Name: "expiryAndNonce", Type: "uint256"},
	}

	limitOrderComponents = []abi.ArgumentMarshaling{
		{Name: "makerToken", Type: "address"},
		{Name: "takerToken", Type: "address"},
		{Name: "makerAmount", Type: "uint128"},
		{Name: "takerAmount", Type: "uint128"},
		{Name: "takerTokenFeeAmount", Type: "uint128"},
		{Name: "maker", Type: "address"},
		{Name: "taker", Type: "address"},
		{Name: "sender", Type: "address"},
		{Name: "feeRecipient", Type: "address"},
		{Name: "pool", Type: "bytes32"},
		{Name: "expiry", Type: "uint64"},
		{Name: "salt", Type: "uint256"},
	}

	batchSellSubcallComponents = []abi.ArgumentMarshaling{
		{Name: "id", Type: "uint8"},
		{Name: "sellAmount", Type: "uint256"},
		{Name: "data", Type: "bytes"},
	}

	multiHopSellSubcallComponents = []abi.ArgumentMarshaling{
		{Name: "id", Type: "uint8"},
		{Name: "data", Type: "bytes"},
	}

	transformationComponents = []abi.ArgumentMarshaling{
		{Name: "deploymentNonce", Type: "uint32"},
		{Name: "data", Type: "bytes"},
	}
)

// Nested payload layouts.
var (
	// rfqSubcallArgs: abi.encode(RfqOrder order, Signature signature)
	rfqSubcallArgs = abi.Arguments{
		argument("order", "tuple", rfqOrderComponents...),
		argument("signature", "tuple", signatureComponents...),
	}

	// otcSubcallArgs: abi.encode(OtcOrder order, Signature signature)
	otcSubcallArgs = abi.Arguments{
		argument("order", "tuple", otcOrderComponents...),
		argument("signature", "tuple", signatureComponents...),
	}

	// uniswapV2SubcallArgs: abi.encode(address[] tokens, bool isSushi)
	uniswapV2SubcallArgs = abi.Arguments{
		argument("tokens", "address[]"),
		argument("isSushi", "bool"),
	}

	// transformERC20SubcallArgs: abi.encode(Transformation[] transformations)
	transformERC20SubcallArgs = abi.Arguments{
		argument("transformations", "tuple[]", transformationComponents...),
	}

	// curveAuxDataArgs: abi.encode(address pool, bytes4 selector, int128 from, int128 to)
	curveAuxDataArgs = abi.Arguments{
		argument("curveAddress", "address"),
		argument("exchangeFunctionSelector", "bytes4"),
		argument("fromCoinIdx", "int128"),
		argument("toCoinIdx", "int128"),
	}

	uniswapV2BridgeDataArgs = abi.Arguments{
		argument("router", "address"),
		argument("path", "address[]"),
	}

	uniswapV3BridgeDataArgs = abi.Arguments{
		argument("router", "address"),
		argument("path", "bytes"),
	}
)

// mustNewType builds an ABI type from a static definition and panics if the
// definition is malformed.
func mustNewType(typ string, components ...abi.ArgumentMarshaling) abi.Type {
	t, err := abi.NewType(typ, "", components)
	if err != nil {
		panic(err)
	}
	return t
}

// argument builds one named ABI parameter.
func argument(name, typ string, components ...abi.ArgumentMarshaling) abi.Argument {
	return abi.Argument{Name: name, Type: mustNewType(typ, components...)}
}

// encodePayload ABI-encodes values against args. name identifies the payload
// in errors.
func encodePayload(name string, args abi.Arguments, values ...any) ([]byte, error) {
	data, err := args.Pack(values...)
	if err != nil {
		return nil, &EncodingError{Method: name, Err: err}
	}
	return data, nil
}

// encodeCurveAuxData packs the stable-swap pool call used by the liquidity
// provider sandbox and the fill-quote bridge adapter alike.
func encodeCurveAuxData(f *CurveFill) ([]byte, error) {
	return encodePayload("curve auxiliary data", curveAuxDataArgs,
		f.Pool,
		f.ExchangeSelector,
		big.NewInt(f.FromCoinIdx),
		big.NewInt(f.ToCoinIdx),
	)
}

// encodeUniswapV2Subcall packs the multiplex UniswapV2 subcall.
func encodeUniswapV2Subcall(tokens []common.Address, isSushi bool) ([]byte, error) {
	return encodePayload("uniswapV2 subcall", uniswapV2SubcallArgs, tokens, isSushi)
}
