package swapcall

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
)

// BridgeProtocol is the bridge adapter family understood by the fill-quote step.
type BridgeProtocol uint64

// Bridge adapter families, numbered as the on-chain adapter expects.
const (
	ProtocolUnknown BridgeProtocol = iota
	ProtocolCurve
	ProtocolUniswapV2
	ProtocolUniswap
	ProtocolBalancer
	ProtocolKyber
	ProtocolMooniswap
	ProtocolMStable
	ProtocolOasis
	ProtocolShell
	ProtocolDodo
	ProtocolDodoV2
	ProtocolCryptoCom
	ProtocolBancor
	ProtocolCoFiX
	ProtocolNerve
	ProtocolMakerPsm
	ProtocolBalancerV2
	ProtocolUniswapV3
	ProtocolKyberDmm
	ProtocolCurveV2
	ProtocolLido
	ProtocolClipper
	ProtocolAaveV2
	ProtocolCompound
)

// Encoding constants.
const (
	// SourceIDSize is the size of an encoded bridge source id.
	SourceIDSize = 32

	// sourceProtocolSize is the left half: the protocol number, left-padded.
	sourceProtocolSize = 16

	// MaxSourceNameLen is the longest name that fits the right half.
	MaxSourceNameLen = SourceIDSize - sourceProtocolSize
)

// SourceID tags a bridge order with its adapter family and a display name.
// Format: [protocol:16 big-endian][name:16 right-padded with zeros]
type SourceID [SourceIDSize]byte

// EncodeSourceID packs protocol and name into a bridge source id.
func EncodeSourceID(protocol BridgeProtocol, name string) (SourceID, error) {
	var id SourceID
	if len(name) > MaxSourceNameLen {
		return id, &EncodingError{
			Method: "bridge source id",
			Err:    fmt.Errorf("name %q is longer than %d bytes", name, MaxSourceNameLen),
		}
	}

	// Bytes 0-15: protocol, left-padded
	word := uint256.NewInt(uint64(protocol)).Bytes32()
	copy(id[:sourceProtocolSize], word[SourceIDSize-sourceProtocolSize:])

	// Bytes 16-31: name, right-padded
	copy(id[sourceProtocolSize:], name)

	return id, nil
}

// DecodeSourceID splits a bridge source id into its protocol and name.
// Useful for debugging and testing.
func DecodeSourceID(id SourceID) (protocol BridgeProtocol, name string, err error) {
	p := new(uint256.Int).SetBytes(id[:sourceProtocolSize])
	if !p.IsUint64() {
		err = &EncodingError{Method: "bridge source id", Err: fmt.Errorf("protocol %s out of range", p.Dec())}
		return
	}
	protocol = BridgeProtocol(p.Uint64())
	name = string(bytes.TrimRight(id[sourceProtocolSize:], "\x00"))
	return
}

// bridgeProtocolOf maps a fill to its bridge adapter family.
func bridgeProtocolOf(f *Fill) BridgeProtocol {
	switch d := f.Data.(type) {
	case *UniswapV2Fill:
		return ProtocolUniswapV2
	case *UniswapV3Fill:
		return ProtocolUniswapV3
	case *CurveFill:
		return ProtocolCurve
	case *BridgeFill:
		return d.Protocol
	default:
		return ProtocolUnknown
	}
}
