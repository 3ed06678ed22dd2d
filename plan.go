package swapcall

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Side is the trade direction of a plan.
type Side uint8

const (
	// Sell fixes the input amount.
	Sell Side = iota

	// Buy fixes the output amount.
	Buy
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// QuoteInfo bounds one end of the acceptable execution range.
type QuoteInfo struct {
	TotalTakerAmount *big.Int // total input, fees included
	MakerAmount      *big.Int // output
	ProtocolFeeInWei *big.Int // native-currency protocol fee
	Gas              uint64
}

// SwapPlan is the routing engine's output, consumed read-only.
type SwapPlan struct {
	Side       Side
	TakerToken common.Address // sell token
	MakerToken common.Address // buy token
	Fills      []Fill

	BestCase  QuoteInfo
	WorstCase QuoteInfo

	// IsTwoHop marks a plan of exactly two fills through an intermediate token.
	IsTwoHop bool

	// Requested amount on the fixed side.
	TakerTokenFillAmount *big.Int
	MakerTokenFillAmount *big.Int

	// Used only to size the positive-slippage fee threshold.
	GasPrice          *big.Int
	MakerAmountPerEth decimal.Decimal
}

// MaxUint256 is the "as much as available" sentinel understood by the exchange proxy.
var MaxUint256 = new(uint256.Int).SetAllOne().ToBig()

// maxUint128 bounds order fill amounts encoded as uint128.
var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// SellAmount returns the larger of the best- and worst-case total input amounts.
// Fills derived from it never undershoot funding.
func (p *SwapPlan) SellAmount() *big.Int {
	best, worst := p.BestCase.TotalTakerAmount, p.WorstCase.TotalTakerAmount
	if best == nil {
		return new(big.Int).Set(worst)
	}
	if worst == nil || best.Cmp(worst) > 0 {
		return new(big.Int).Set(best)
	}
	return new(big.Int).Set(worst)
}

// Validate rejects plans that cannot be routed. Errors unwrap to ErrNoRoute.
func (p *SwapPlan) Validate() error {
	if p == nil {
		return &PlanError{Reason: "nil plan"}
	}
	if len(p.Fills) == 0 {
		return &PlanError{Reason: "plan has no fills"}
	}
	if p.IsTwoHop && len(p.Fills) != 2 {
		return &PlanError{Reason: fmt.Sprintf("two-hop plan must have 2 fills, got %d", len(p.Fills))}
	}
	bounds := []struct {
		name string
		q    QuoteInfo
	}{{"best case", p.BestCase}, {"worst case", p.WorstCase}}
	for _, b := range bounds {
		name, q := b.name, b.q
		if err := checkAmount(name+" total taker amount", q.TotalTakerAmount); err != nil {
			return err
		}
		if err := checkAmount(name+" maker amount", q.MakerAmount); err != nil {
			return err
		}
		if q.ProtocolFeeInWei != nil {
			if err := checkAmount(name+" protocol fee", q.ProtocolFeeInWei); err != nil {
				return err
			}
		}
	}
	switch p.Side {
	case Sell:
		if p.WorstCase.MakerAmount.Cmp(p.BestCase.MakerAmount) > 0 {
			return &PlanError{Reason: "worst-case output exceeds best-case output"}
		}
	case Buy:
		if p.WorstCase.TotalTakerAmount.Cmp(p.BestCase.TotalTakerAmount) < 0 {
			return &PlanError{Reason: "worst-case input is below best-case input"}
		}
	default:
		return &PlanError{Reason: fmt.Sprintf("unknown side %d", p.Side)}
	}
	for i := range p.Fills {
		f := &p.Fills[i]
		if f.Data == nil {
			return &PlanError{Reason: fmt.Sprintf("fill %d has no data", i)}
		}
		if err := checkAmount(fmt.Sprintf("fill %d taker amount", i), f.TakerAmount); err != nil {
			return err
		}
		if err := checkAmount(fmt.Sprintf("fill %d maker amount", i), f.MakerAmount); err != nil {
			return err
		}
	}
	return nil
}

// checkAmount ensures v is present, non-negative and representable as uint256.
func checkAmount(name string, v *big.Int) error {
	if v == nil {
		return &PlanError{Reason: name + " is missing"}
	}
	if v.Sign() < 0 {
		return &PlanError{Reason: name + " is negative"}
	}
	if _, overflow := uint256.FromBig(v); overflow {
		return &PlanError{Reason: name + " exceeds uint256"}
	}
	return nil
}

// fitsUint128 reports whether v can be encoded as a uint128 argument.
func fitsUint128(v *big.Int) bool {
	return v.Sign() >= 0 && v.Cmp(maxUint128) <= 0
}

// buyAmount is the exact output a buy plan asks for.
func (p *SwapPlan) buyAmount() *big.Int {
	if p.MakerTokenFillAmount != nil {
		return p.MakerTokenFillAmount
	}
	return p.BestCase.MakerAmount
}
