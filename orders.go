package swapcall

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SignatureType is the exchange proxy's signature scheme enum.
type SignatureType uint8

const (
	SignatureIllegal SignatureType = iota
	SignatureInvalid
	SignatureEIP712
	SignatureEthSign
	SignaturePreSigned
)

// Signature is the exchange proxy's signature tuple.
type Signature struct {
	SignatureType uint8
	V             uint8
	R             [32]byte
	S             [32]byte
}

// RfqOrder mirrors the exchange proxy's RFQ order struct.
type RfqOrder struct {
	MakerToken  common.Address
	TakerToken  common.Address
	MakerAmount *big.Int
	TakerAmount *big.Int
	Maker       common.Address
	Taker       common.Address
	TxOrigin    common.Address
	Pool        [32]byte
	Expiry      uint64
	Salt        *big.Int
}

// OtcOrder mirrors the exchange proxy's OTC order struct.
type OtcOrder struct {
	MakerToken     common.Address
	TakerToken     common.Address
	MakerAmount    *big.Int
	TakerAmount    *big.Int
	Maker          common.Address
	Taker          common.Address
	TxOrigin       common.Address
	ExpiryAndNonce *big.Int
}

// LimitOrder mirrors the exchange proxy's limit order struct.
type LimitOrder struct {
	MakerToken          common.Address
	TakerToken          common.Address
	MakerAmount         *big.Int
	TakerAmount         *big.Int
	TakerTokenFeeAmount *big.Int
	Maker               common.Address
	Taker               common.Address
	Sender              common.Address
	FeeRecipient        common.Address
	Pool                [32]byte
	Expiry              uint64
	Salt                *big.Int
}
