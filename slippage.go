package swapcall

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// SlippedFill is a plan fill with its slippage-adjusted bounds and the concrete
// amount of sell token to send to it.
type SlippedFill struct {
	Fill *Fill

	// TakerAmount and MakerAmount are the fill's bounds after slippage.
	TakerAmount *big.Int
	MakerAmount *big.Int

	// FillAmount is min(TakerAmount, remaining sell amount) for this hop.
	FillAmount *big.Int
}

// MaxSlippageRate derives the slippage the plan's bounds allow.
//
//	sell: (bestMaker - worstMaker) / bestMaker
//	buy:  (worstTaker - bestTaker) / bestTaker
//
// The result is clamped to [0, 1].
func MaxSlippageRate(plan *SwapPlan) decimal.Decimal {
	var best, worst *big.Int
	if plan.Side == Buy {
		best, worst = plan.BestCase.TotalTakerAmount, plan.WorstCase.TotalTakerAmount
	} else {
		best, worst = plan.BestCase.MakerAmount, plan.WorstCase.MakerAmount
	}
	if best == nil || worst == nil || best.Sign() == 0 {
		return decimal.Zero
	}
	b := decimal.NewFromBigInt(best, 0)
	w := decimal.NewFromBigInt(worst, 0)
	var rate decimal.Decimal
	if plan.Side == Buy {
		rate = w.Sub(b).Div(b)
	} else {
		rate = b.Sub(w).Div(b)
	}
	if rate.IsNegative() {
		return decimal.Zero
	}
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return rate
}

// DeriveSlippedFills applies rate to every fill of the plan.
//
// Native orders are signed and keep their amounts. Other fills of a sell plan
// have their output floored by (1 - rate); fills of a buy plan have their input
// ceiled by (1 + rate). Each fill's FillAmount is bounded by what is left of the
// plan's sell amount; the two hops of a two-hop plan are bounded independently.
//
// A plan without fills yields an empty slice. Missing amounts are rejected
// with a *PlanError.
func DeriveSlippedFills(plan *SwapPlan, rate decimal.Decimal) ([]SlippedFill, error) {
	if plan == nil {
		return nil, &PlanError{Reason: "nil plan"}
	}
	if plan.BestCase.TotalTakerAmount == nil && plan.WorstCase.TotalTakerAmount == nil {
		return nil, &PlanError{Reason: "sell amount is missing"}
	}
	for i := range plan.Fills {
		f := &plan.Fills[i]
		if f.TakerAmount == nil || f.MakerAmount == nil {
			return nil, &PlanError{Reason: fmt.Sprintf("fill %d amounts are missing", i)}
		}
	}
	return deriveSlippedFills(plan, plan.Fills, rate)
}

func deriveSlippedFills(plan *SwapPlan, fills []Fill, rate decimal.Decimal) ([]SlippedFill, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidSlippage, rate)
	}
	out := make([]SlippedFill, 0, len(fills))
	if len(fills) == 0 {
		return out, nil
	}

	remaining, overflow := uint256.FromBig(plan.SellAmount())
	if overflow {
		return nil, &PlanError{Reason: "sell amount exceeds uint256"}
	}

	for i := range fills {
		f := &fills[i]
		taker := new(big.Int).Set(f.TakerAmount)
		maker := new(big.Int).Set(f.MakerAmount)
		if !f.isNative() {
			if plan.Side == Buy {
				taker = scaleUp(taker, rate)
			} else {
				maker = scaleDown(maker, rate)
			}
		}

		var fillAmount *big.Int
		if plan.IsTwoHop && i > 0 {
			// Later hops spend the previous hop's output, not the sell budget.
			fillAmount = new(big.Int).Set(taker)
		} else {
			want, overflow := uint256.FromBig(taker)
			if overflow {
				return nil, &PlanError{Reason: fmt.Sprintf("fill %d taker amount exceeds uint256", i)}
			}
			if want.Gt(remaining) {
				want = new(uint256.Int).Set(remaining)
			}
			remaining = new(uint256.Int).Sub(remaining, want)
			fillAmount = want.ToBig()
		}

		out = append(out, SlippedFill{
			Fill:        f,
			TakerAmount: taker,
			MakerAmount: maker,
			FillAmount:  fillAmount,
		})
	}
	return out, nil
}

// scaleDown returns floor(v * (1 - rate)), preserving the MaxUint256 sentinel.
func scaleDown(v *big.Int, rate decimal.Decimal) *big.Int {
	if v.Cmp(MaxUint256) == 0 {
		return v
	}
	factor := decimal.NewFromInt(1).Sub(rate)
	return decimal.NewFromBigInt(v, 0).Mul(factor).Floor().BigInt()
}

// scaleUp returns ceil(v * (1 + rate)) capped at MaxUint256.
func scaleUp(v *big.Int, rate decimal.Decimal) *big.Int {
	if v.Cmp(MaxUint256) == 0 {
		return v
	}
	factor := decimal.NewFromInt(1).Add(rate)
	scaled := decimal.NewFromBigInt(v, 0).Mul(factor).Ceil().BigInt()
	if scaled.Cmp(MaxUint256) > 0 {
		return new(big.Int).Set(MaxUint256)
	}
	return scaled
}

// sumFillAmounts adds the FillAmount of fills, failing on uint256 overflow.
func sumFillAmounts(fills []SlippedFill) (*big.Int, error) {
	total := new(uint256.Int)
	for i := range fills {
		amt, overflow := uint256.FromBig(fills[i].FillAmount)
		if overflow {
			return nil, &PlanError{Reason: "fill amount exceeds uint256"}
		}
		if _, overflow := total.AddOverflow(total, amt); overflow {
			return nil, &PlanError{Reason: "combined fill amount exceeds uint256"}
		}
	}
	return total.ToBig(), nil
}
